package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Kind labels a normalized transaction by its source.
type Kind string

const (
	KindSale           Kind = "sale"
	KindSaleReturn     Kind = "sale_return"
	KindPurchase       Kind = "purchase"
	KindPurchaseReturn Kind = "purchase_return"
	KindReceipt        Kind = "receipt"
	KindPayment        Kind = "payment"
	KindDebitNote      Kind = "debit_note"
	KindCreditNote     Kind = "credit_note"
	KindJournal        Kind = "journal"
)

// Transaction is the normalized shape every source record is reduced to.
//
// Amount is the signed effect on the balance being reconstructed. Debit and
// Credit are the unsigned display columns for the same movement.
type Transaction struct {
	ID          string
	Date        time.Time
	Kind        Kind
	Description string
	Reference   string
	PartyID     string
	AccountID   int
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Amount      decimal.Decimal
	Archived    bool
}

// Effect is a source record seen from the balance it affects. The variants
// are SaleEffect, ReturnEffect, VoucherEffect, TreasuryEffect, NoteEffect
// and LineEffect.
type Effect interface {
	effect()
}

// SaleEffect is a sale (customer side) or purchase (supplier side).
type SaleEffect struct {
	Doc model.Document
}

// ReturnEffect is a sale return or purchase return.
type ReturnEffect struct {
	Doc model.Document
}

// VoucherEffect is a treasury voucher seen from the party it settles.
type VoucherEffect struct {
	Tx model.TreasuryTransaction
}

// TreasuryEffect is a treasury voucher seen from the cash account.
type TreasuryEffect struct {
	Tx model.TreasuryTransaction
}

// NoteEffect is a manual debit/credit note journal entry seen from its party.
// With ControlAccountID set, the party moves by the net of the lines on
// that account; otherwise by the entry total.
type NoteEffect struct {
	Entry            model.JournalEntry
	ControlAccountID int
}

// LineEffect is one journal line seen from the ledger account it posts to.
// Index is the line's position in the entry. The normalized ID is the
// entry's; callers that key lines individually use id.FormatLegID.
type LineEffect struct {
	Entry model.JournalEntry
	Index int
}

func (SaleEffect) effect()     {}
func (ReturnEffect) effect()   {}
func (VoucherEffect) effect()  {}
func (TreasuryEffect) effect() {}
func (NoteEffect) effect()     {}
func (LineEffect) effect()     {}

// Normalize reduces an effect to a Transaction, applying the sign
// convention of the entity it is seen from:
//
//	ledger account  debit +, credit -
//	customer        sale +, debit note +, payment to customer +;
//	                sale return -, receipt -, credit note -
//	supplier        purchase +, credit note +, receipt from supplier +;
//	                purchase return -, payment -, debit note -
//	treasury        receipt (positive amount) +, payment (negative amount) -
func Normalize(e Effect) (Transaction, error) {
	switch v := e.(type) {
	case SaleEffect:
		if v.Doc.Kind != model.KindSale && v.Doc.Kind != model.KindPurchase {
			return Transaction{}, fmt.Errorf("%w: %s %q is not a sale or purchase", ErrWrongDocumentKind, v.Doc.Kind, v.Doc.ID)
		}
		return normalizeDocument(v.Doc, true)
	case ReturnEffect:
		if !v.Doc.Kind.IsReturn() {
			return Transaction{}, fmt.Errorf("%w: %s %q is not a return", ErrWrongDocumentKind, v.Doc.Kind, v.Doc.ID)
		}
		return normalizeDocument(v.Doc, false)
	case VoucherEffect:
		return normalizeVoucher(v.Tx)
	case TreasuryEffect:
		return normalizeTreasury(v.Tx)
	case NoteEffect:
		return normalizeNote(v.Entry, v.ControlAccountID)
	case LineEffect:
		return normalizeLine(v.Entry, v.Index)
	default:
		return Transaction{}, fmt.Errorf("%w: %T", ErrUnsupportedEffect, e)
	}
}

// NormalizeAll normalizes every effect, stopping at the first error.
func NormalizeAll(effects []Effect) ([]Transaction, error) {
	out := make([]Transaction, 0, len(effects))
	for _, e := range effects {
		tx, err := Normalize(e)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func checkKey(id string, date time.Time) error {
	if id == "" {
		return ErrMissingID
	}
	if date.IsZero() {
		return fmt.Errorf("%w: %q", ErrMissingDate, id)
	}
	return nil
}

// partyColumns places a party movement in the display column matching the
// party's natural side: customers are debit-balanced, suppliers
// credit-balanced.
func partyColumns(kind model.PartyKind, effect decimal.Decimal) (debit, credit decimal.Decimal) {
	increase := effect.IsPositive()
	abs := effect.Abs()
	if kind == model.PartySupplier {
		increase = !increase
	}
	if increase {
		return abs, decimal.Zero
	}
	return decimal.Zero, abs
}

func normalizeDocument(doc model.Document, increases bool) (Transaction, error) {
	if err := checkKey(doc.ID, doc.Date); err != nil {
		return Transaction{}, err
	}
	if doc.Amount.IsNegative() {
		return Transaction{}, fmt.Errorf("%w: %s %q", ErrNegativeAmount, doc.Kind, doc.ID)
	}
	effect := doc.Amount
	if !increases {
		effect = effect.Neg()
	}
	debit, credit := partyColumns(doc.Kind.PartyKind(), effect)
	return Transaction{
		ID:          doc.ID,
		Date:        doc.Date,
		Kind:        Kind(doc.Kind),
		Description: doc.Description,
		Reference:   doc.Reference,
		PartyID:     doc.PartyID,
		Debit:       debit,
		Credit:      credit,
		Amount:      effect,
		Archived:    doc.Archived,
	}, nil
}

func checkVoucher(tx model.TreasuryTransaction) error {
	if err := checkKey(tx.ID, tx.Date); err != nil {
		return err
	}
	switch tx.Type {
	case model.VoucherReceipt:
		if tx.Amount.IsNegative() {
			return fmt.Errorf("%w: receipt %q has amount %s", ErrVoucherSign, tx.ID, tx.Amount)
		}
	case model.VoucherPayment:
		if tx.Amount.IsPositive() {
			return fmt.Errorf("%w: payment %q has amount %s", ErrVoucherSign, tx.ID, tx.Amount)
		}
	default:
		return fmt.Errorf("%w: voucher %q has type %q", ErrVoucherSign, tx.ID, tx.Type)
	}
	return nil
}

func normalizeVoucher(tx model.TreasuryTransaction) (Transaction, error) {
	if err := checkVoucher(tx); err != nil {
		return Transaction{}, err
	}
	var effect decimal.Decimal
	switch tx.PartyKind {
	case model.PartyCustomer:
		// Cash in settles what the customer owes.
		effect = tx.Amount.Neg()
	case model.PartySupplier:
		// Cash out settles what we owe the supplier.
		effect = tx.Amount
	default:
		return Transaction{}, fmt.Errorf("%w: voucher %q has party kind %q", ErrUnknownPartyKind, tx.ID, tx.PartyKind)
	}
	debit, credit := partyColumns(tx.PartyKind, effect)
	return Transaction{
		ID:          tx.ID,
		Date:        tx.Date,
		Kind:        Kind(tx.Type),
		Description: tx.Description,
		PartyID:     tx.PartyID,
		AccountID:   tx.AccountID,
		Debit:       debit,
		Credit:      credit,
		Amount:      effect,
		Archived:    tx.Archived,
	}, nil
}

func normalizeTreasury(tx model.TreasuryTransaction) (Transaction, error) {
	if err := checkVoucher(tx); err != nil {
		return Transaction{}, err
	}
	debit, credit := decimal.Zero, decimal.Zero
	if tx.Amount.IsPositive() {
		debit = tx.Amount
	} else {
		credit = tx.Amount.Abs()
	}
	return Transaction{
		ID:          tx.ID,
		Date:        tx.Date,
		Kind:        Kind(tx.Type),
		Description: tx.Description,
		PartyID:     tx.PartyID,
		AccountID:   tx.AccountID,
		Debit:       debit,
		Credit:      credit,
		Amount:      tx.Amount,
		Archived:    tx.Archived,
	}, nil
}

func normalizeNote(entry model.JournalEntry, controlAccountID int) (Transaction, error) {
	if err := checkKey(entry.ID, entry.Date); err != nil {
		return Transaction{}, err
	}
	if !entry.PartyKind.Valid() {
		return Transaction{}, fmt.Errorf("%w: note %q has party kind %q", ErrUnknownPartyKind, entry.ID, entry.PartyKind)
	}
	noteType, err := NoteTypeOf(entry)
	if err != nil {
		return Transaction{}, err
	}

	var amount decimal.Decimal
	if controlAccountID != 0 {
		net, err := controlNet(entry, controlAccountID)
		if err != nil {
			return Transaction{}, err
		}
		amount = net.Abs()
	} else {
		amount = entry.Debit
		if amount.IsZero() {
			amount, _ = entry.Totals()
		}
		amount = amount.Abs()
	}

	// Customers: a debit note raises what they owe, a credit note lowers it.
	// Suppliers: a credit note raises what we owe, a debit note lowers it.
	increases := noteType == model.NoteDebit
	if entry.PartyKind == model.PartySupplier {
		increases = !increases
	}
	effect := amount
	if !increases {
		effect = amount.Neg()
	}
	debit, credit := partyColumns(entry.PartyKind, effect)
	return Transaction{
		ID:          entry.ID,
		Date:        entry.Date,
		Kind:        Kind(noteType),
		Description: entry.Description,
		PartyID:     entry.PartyID,
		Debit:       debit,
		Credit:      credit,
		Amount:      effect,
		Archived:    entry.Archived,
	}, nil
}

func normalizeLine(entry model.JournalEntry, index int) (Transaction, error) {
	if err := checkKey(entry.ID, entry.Date); err != nil {
		return Transaction{}, err
	}
	if index < 0 || index >= len(entry.Lines) {
		return Transaction{}, fmt.Errorf("ledger: entry %q has no line %d", entry.ID, index)
	}
	line := entry.Lines[index]
	kind := KindJournal
	if entry.NoteType != model.NoteNone {
		kind = Kind(entry.NoteType)
	}
	return Transaction{
		ID:          entry.ID,
		Date:        entry.Date,
		Kind:        kind,
		Description: entry.Description,
		PartyID:     entry.PartyID,
		AccountID:   line.AccountID,
		Debit:       line.Debit,
		Credit:      line.Credit,
		Amount:      line.Debit.Sub(line.Credit),
		Archived:    entry.Archived,
	}, nil
}

// NoteTypeOf returns the direction of a manual note. The explicit NoteType
// tag wins; otherwise the description is matched for "credit note" or
// "debit note".
//
// Matching on free text is fragile: editing the description can flip the
// statement direction. NoteDirectionFromLines is the structural check.
func NoteTypeOf(entry model.JournalEntry) (model.NoteType, error) {
	switch entry.NoteType {
	case model.NoteDebit, model.NoteCredit:
		return entry.NoteType, nil
	case model.NoteNone:
	default:
		return "", fmt.Errorf("%w: entry %q has note type %q", ErrUnknownNoteDirection, entry.ID, entry.NoteType)
	}

	desc := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(entry.Description))
	isCredit := strings.Contains(desc, "credit note")
	isDebit := strings.Contains(desc, "debit note")
	switch {
	case isCredit && !isDebit:
		return model.NoteCredit, nil
	case isDebit && !isCredit:
		return model.NoteDebit, nil
	default:
		return "", fmt.Errorf("%w: entry %q", ErrUnknownNoteDirection, entry.ID)
	}
}

// NoteDirectionFromLines derives the note type from the lines that touch
// the party control account: a net debit is a debit note, a net credit a
// credit note. This holds for both receivable and payable control accounts.
func NoteDirectionFromLines(entry model.JournalEntry, controlAccountID int) (model.NoteType, error) {
	net, err := controlNet(entry, controlAccountID)
	if err != nil {
		return "", err
	}
	switch {
	case net.IsPositive():
		return model.NoteDebit, nil
	case net.IsNegative():
		return model.NoteCredit, nil
	}
	return "", fmt.Errorf("%w: entry %q nets to zero on account %d", ErrControlLineMissing, entry.ID, controlAccountID)
}

// controlNet sums debit minus credit over the lines on the control account.
func controlNet(entry model.JournalEntry, controlAccountID int) (decimal.Decimal, error) {
	net, found := decimal.Zero, false
	for _, l := range entry.Lines {
		if l.AccountID == controlAccountID {
			net = net.Add(l.Debit).Sub(l.Credit)
			found = true
		}
	}
	if !found {
		return decimal.Zero, fmt.Errorf("%w: entry %q, account %d", ErrControlLineMissing, entry.ID, controlAccountID)
	}
	return net, nil
}

// CheckNoteDirection reports ErrNoteDirectionMismatch when the textual note
// type and the control account line disagree.
func CheckNoteDirection(entry model.JournalEntry, controlAccountID int) error {
	textual, err := NoteTypeOf(entry)
	if err != nil {
		return err
	}
	structural, err := NoteDirectionFromLines(entry, controlAccountID)
	if err != nil {
		return err
	}
	if textual != structural {
		return fmt.Errorf("%w: entry %q says %s, lines say %s", ErrNoteDirectionMismatch, entry.ID, textual, structural)
	}
	return nil
}
