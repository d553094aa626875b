package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/documents"
	"github.com/ledgerbook-dev/ledgerbook/internal/id"
	"github.com/ledgerbook-dev/ledgerbook/internal/journal"
	"github.com/ledgerbook-dev/ledgerbook/internal/ledger"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

var docPrefixes = map[model.DocumentKind]string{
	model.KindSale:           id.PrefixSale,
	model.KindSaleReturn:     id.PrefixSaleReturn,
	model.KindPurchase:       id.PrefixPurchase,
	model.KindPurchaseReturn: id.PrefixPurchaseReturn,
}

// plan collects the balances a posting will write. Nothing touches the
// book until every balance has been computed.
type plan struct {
	partyKind    model.PartyKind
	partyID      string
	partyBalance *decimal.Decimal
	accounts     map[int]decimal.Decimal
	order        []int
}

func newPlan() *plan {
	return &plan{accounts: make(map[int]decimal.Decimal)}
}

func (p *plan) setParty(kind model.PartyKind, partyID string, balance decimal.Decimal) {
	p.partyKind, p.partyID, p.partyBalance = kind, partyID, &balance
}

func (p *plan) setAccount(accountID int, balance decimal.Decimal) {
	if _, ok := p.accounts[accountID]; !ok {
		p.order = append(p.order, accountID)
	}
	p.accounts[accountID] = balance
}

func (b *Book) apply(p *plan) error {
	if p.partyBalance != nil {
		if err := b.Parties.SetBalance(p.partyKind, p.partyID, *p.partyBalance); err != nil {
			return err
		}
	}
	for _, acct := range p.order {
		if err := b.Accounts.SetBalance(acct, p.accounts[acct]); err != nil {
			return err
		}
	}
	return nil
}

func (b *Book) nextID(prefix string, date time.Time) string {
	y, m := date.Year(), int(date.Month())
	return id.FormatDocID(prefix, y, m, id.NextSeq(b.ids(), prefix, y, m))
}

func (b *Book) line(accountID int) model.JournalLine {
	return model.JournalLine{AccountID: accountID, AccountName: b.Accounts.NameOf(accountID)}
}

// planParty applies tx to the party's reducer state.
func (b *Book) planParty(p *plan, kind model.PartyKind, partyID string, tx ledger.Transaction) error {
	if _, ok := b.Parties.Get(kind, partyID); !ok {
		return fmt.Errorf("%w: %s %q", ErrUnknownParty, kind, partyID)
	}
	st, err := b.partyState(kind, partyID)
	if err != nil {
		return err
	}
	st, err = ledger.ApplyTransaction(st, tx)
	if err != nil {
		return err
	}
	p.setParty(kind, partyID, st.Balance)
	return nil
}

// planEntry validates entry and applies each line to its account's
// reducer state.
func (b *Book) planEntry(p *plan, entry model.JournalEntry) error {
	if err := journal.Join(journal.ValidateEntries([]model.JournalEntry{entry}, b.Accounts)); err != nil {
		return err
	}
	states := make(map[int]ledger.State)
	for i, l := range entry.Lines {
		st, ok := states[l.AccountID]
		if !ok {
			var err error
			if st, err = b.accountState(l.AccountID); err != nil {
				return err
			}
		}
		tx, err := ledger.Normalize(ledger.LineEffect{Entry: entry, Index: i})
		if err != nil {
			return err
		}
		tx.ID = id.FormatLegID(entry.ID, i)
		if st, err = ledger.ApplyTransaction(st, tx); err != nil {
			return err
		}
		states[l.AccountID] = st
		p.setAccount(l.AccountID, st.Balance)
	}
	return nil
}

func (b *Book) checkNew(recordID string) error {
	if b.exists(recordID) {
		return fmt.Errorf("%w: %q", ledger.ErrDuplicateTransaction, recordID)
	}
	return nil
}

// PostSale posts a sale to a customer.
func (b *Book) PostSale(d model.Document) (model.Document, error) {
	d.Kind = model.KindSale
	return b.PostDocument(d)
}

// PostSaleReturn posts goods returned by a customer.
func (b *Book) PostSaleReturn(d model.Document) (model.Document, error) {
	d.Kind = model.KindSaleReturn
	return b.PostDocument(d)
}

// PostPurchase posts a purchase from a supplier.
func (b *Book) PostPurchase(d model.Document) (model.Document, error) {
	d.Kind = model.KindPurchase
	return b.PostDocument(d)
}

// PostPurchaseReturn posts goods returned to a supplier.
func (b *Book) PostPurchaseReturn(d model.Document) (model.Document, error) {
	d.Kind = model.KindPurchaseReturn
	return b.PostDocument(d)
}

// PostDocument records a trade document, moves the party balance and posts
// the matching journal entry. An empty ID is assigned the next number.
func (b *Book) PostDocument(d model.Document) (model.Document, error) {
	prefix, ok := docPrefixes[d.Kind]
	if !ok {
		return d, fmt.Errorf("%w: %q", ledger.ErrWrongDocumentKind, d.Kind)
	}
	if d.ID == "" {
		d.ID = b.nextID(prefix, d.Date)
	}
	if err := documents.ValidateDocument(d); err != nil {
		return d, err
	}
	if err := b.checkNew(d.ID); err != nil {
		return d, err
	}

	var effect ledger.Effect = ledger.SaleEffect{Doc: d}
	if d.Kind.IsReturn() {
		effect = ledger.ReturnEffect{Doc: d}
	}
	tx, err := ledger.Normalize(effect)
	if err != nil {
		return d, err
	}

	p := newPlan()
	kind := d.Kind.PartyKind()
	if err := b.planParty(p, kind, d.PartyID, tx); err != nil {
		return d, err
	}
	entry := b.documentEntry(d)
	if err := b.planEntry(p, entry); err != nil {
		return d, err
	}
	if err := b.apply(p); err != nil {
		return d, err
	}

	b.Documents.Docs[d.Kind] = append(b.Documents.Docs[d.Kind], d)
	b.Entries = append(b.Entries, entry)
	b.logger.Info("document posted", "id", d.ID, "kind", d.Kind, "party_id", d.PartyID, "amount", d.Amount.StringFixed(2))
	return d, nil
}

func (b *Book) documentEntry(d model.Document) model.JournalEntry {
	var debit, credit int
	switch d.Kind {
	case model.KindSale:
		debit, credit = b.routes.customers, b.routes.sales
	case model.KindSaleReturn:
		debit, credit = b.routes.salesReturns, b.routes.customers
	case model.KindPurchase:
		debit, credit = b.routes.purchases, b.routes.suppliers
	case model.KindPurchaseReturn:
		debit, credit = b.routes.suppliers, b.routes.purchaseReturns
	}
	desc := d.Description
	if desc == "" {
		desc = fmt.Sprintf("%s %s", d.Kind, d.ID)
	}
	return journal.NewDouble(journal.DoubleParams{
		ID:            d.ID,
		Date:          d.Date,
		Description:   desc,
		DebitAccount:  b.line(debit),
		CreditAccount: b.line(credit),
		Amount:        d.Amount,
	})
}

// PostVoucher records a receipt or payment on a cash account. A voucher
// with a party settles that party against its control account; otherwise
// counterAccountID (or the suspense account when zero) takes the other
// side. An empty Type is inferred from the amount's sign and a zero
// AccountID defaults to the configured treasury account.
func (b *Book) PostVoucher(tx model.TreasuryTransaction, counterAccountID int) (model.TreasuryTransaction, error) {
	if tx.AccountID == 0 {
		tx.AccountID = b.routes.treasury
	}
	if tx.Type == "" {
		tx.Type = model.VoucherReceipt
		if tx.Amount.IsNegative() {
			tx.Type = model.VoucherPayment
		}
	}
	if tx.ID == "" {
		prefix := id.PrefixReceipt
		if tx.Type == model.VoucherPayment {
			prefix = id.PrefixPayment
		}
		tx.ID = b.nextID(prefix, tx.Date)
	}
	if err := documents.ValidateTreasury(tx); err != nil {
		return tx, err
	}
	if err := b.checkNew(tx.ID); err != nil {
		return tx, err
	}
	if _, err := ledger.Normalize(ledger.TreasuryEffect{Tx: tx}); err != nil {
		return tx, err
	}

	p := newPlan()
	counter := counterAccountID
	if tx.PartyID != "" {
		partyTx, err := ledger.Normalize(ledger.VoucherEffect{Tx: tx})
		if err != nil {
			return tx, err
		}
		if err := b.planParty(p, tx.PartyKind, tx.PartyID, partyTx); err != nil {
			return tx, err
		}
		counter = b.ControlAccount(tx.PartyKind)
	} else if counter == 0 {
		counter = b.routes.suspense
	}

	if counter == tx.AccountID {
		return tx, fmt.Errorf("%w: voucher %q on account %d", ErrSameAccount, tx.ID, counter)
	}
	debit, credit := tx.AccountID, counter
	if tx.Type == model.VoucherPayment {
		debit, credit = counter, tx.AccountID
	}
	desc := tx.Description
	if desc == "" {
		desc = fmt.Sprintf("%s %s", tx.Type, tx.ID)
	}
	entry := journal.NewDouble(journal.DoubleParams{
		ID:            tx.ID,
		Date:          tx.Date,
		Description:   desc,
		DebitAccount:  b.line(debit),
		CreditAccount: b.line(credit),
		Amount:        tx.Amount.Abs(),
	})
	if err := b.planEntry(p, entry); err != nil {
		return tx, err
	}
	if err := b.apply(p); err != nil {
		return tx, err
	}

	b.Documents.Treasury = append(b.Documents.Treasury, tx)
	b.Entries = append(b.Entries, entry)
	b.logger.Info("voucher posted", "id", tx.ID, "type", tx.Type, "account_id", tx.AccountID, "amount", tx.Amount.StringFixed(2))
	return tx, nil
}

// NoteParams describes a debit or credit note against a party.
type NoteParams struct {
	ID          string
	Date        time.Time
	PartyKind   model.PartyKind
	PartyID     string
	Type        model.NoteType
	Amount      decimal.Decimal
	Description string
	// CounterAccountID overrides the revenue or expense side. Zero picks
	// the configured default for the party kind and note type.
	CounterAccountID int
}

// PostNote builds the journal entry for a debit or credit note and posts
// it. Debit notes debit the control account, credit notes credit it.
func (b *Book) PostNote(n NoteParams) (model.JournalEntry, error) {
	if n.Type != model.NoteDebit && n.Type != model.NoteCredit {
		return model.JournalEntry{}, fmt.Errorf("%w: %q", ledger.ErrUnknownNoteDirection, n.Type)
	}
	if !n.PartyKind.Valid() {
		return model.JournalEntry{}, fmt.Errorf("%w: %q", ledger.ErrUnknownPartyKind, n.PartyKind)
	}
	if n.ID == "" {
		prefix := id.PrefixCreditNote
		if n.Type == model.NoteDebit {
			prefix = id.PrefixDebitNote
		}
		n.ID = b.nextID(prefix, n.Date)
	}

	counter := n.CounterAccountID
	if counter == 0 {
		counter = b.noteCounter(n.PartyKind, n.Type)
	}
	control := b.ControlAccount(n.PartyKind)
	debit, credit := counter, control
	if n.Type == model.NoteDebit {
		debit, credit = control, counter
	}
	desc := n.Description
	if desc == "" {
		desc = "Credit note"
		if n.Type == model.NoteDebit {
			desc = "Debit note"
		}
	}
	entry := journal.NewDouble(journal.DoubleParams{
		ID:            n.ID,
		Date:          n.Date,
		Description:   desc,
		DebitAccount:  b.line(debit),
		CreditAccount: b.line(credit),
		Amount:        n.Amount,
		PartyID:       n.PartyID,
		PartyKind:     n.PartyKind,
		NoteType:      n.Type,
	})
	return b.PostJournal(entry)
}

func (b *Book) noteCounter(kind model.PartyKind, t model.NoteType) int {
	switch {
	case kind == model.PartyCustomer && t == model.NoteDebit:
		return b.routes.sales
	case kind == model.PartyCustomer:
		return b.routes.salesReturns
	case t == model.NoteDebit:
		return b.routes.purchaseReturns
	default:
		return b.routes.purchases
	}
}

// PostJournal posts a manual journal entry. Entries carrying a party are
// notes: their direction must agree with the control account line and the
// party balance moves with them.
func (b *Book) PostJournal(entry model.JournalEntry) (model.JournalEntry, error) {
	if entry.ID == "" {
		entry.ID = b.nextID(id.PrefixJournal, entry.Date)
	}
	if entry.Status == "" {
		entry.Status = model.StatusPosted
	}
	for i := range entry.Lines {
		if entry.Lines[i].AccountName == "" {
			entry.Lines[i].AccountName = b.Accounts.NameOf(entry.Lines[i].AccountID)
		}
	}
	entry.Debit, entry.Credit = entry.Totals()
	if entry.Date.IsZero() {
		return entry, fmt.Errorf("%w: %q", ledger.ErrMissingDate, entry.ID)
	}
	if err := b.checkNew(entry.ID); err != nil {
		return entry, err
	}

	p := newPlan()
	if entry.IsNote() {
		if err := ledger.CheckNoteDirection(entry, b.ControlAccount(entry.PartyKind)); err != nil {
			return entry, err
		}
		tx, err := ledger.Normalize(ledger.NoteEffect{Entry: entry, ControlAccountID: b.ControlAccount(entry.PartyKind)})
		if err != nil {
			return entry, err
		}
		if err := b.planParty(p, entry.PartyKind, entry.PartyID, tx); err != nil {
			return entry, err
		}
	}
	if err := b.planEntry(p, entry); err != nil {
		return entry, err
	}
	if err := b.apply(p); err != nil {
		return entry, err
	}

	b.Entries = append(b.Entries, entry)
	b.logger.Info("journal entry posted", "id", entry.ID, "lines", len(entry.Lines), "amount", entry.Debit.StringFixed(2))
	return entry, nil
}
