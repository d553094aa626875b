package book

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/documents"
	"github.com/ledgerbook-dev/ledgerbook/internal/id"
	"github.com/ledgerbook-dev/ledgerbook/internal/journal"
	"github.com/ledgerbook-dev/ledgerbook/internal/ledger"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Changes lists the fields an edit rewrites. Nil fields keep their value.
// Amount is unsigned: a payment stays negative.
type Changes struct {
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
	Reference   *string // trade documents only
}

// Edit rewrites an unarchived trade document, voucher or journal entry in
// place. Every balance the record moved is moved again by the difference
// between the old and new effects. The id, party and accounts stay fixed.
func (b *Book) Edit(recordID string, c Changes) error {
	loc := b.locate(recordID)
	if !loc.found() {
		return fmt.Errorf("%w: %q", ErrNotFound, recordID)
	}
	if loc.archived() {
		return fmt.Errorf("%w: %q", ErrArchived, recordID)
	}
	if c.Amount != nil && !c.Amount.IsPositive() {
		return fmt.Errorf("%w: amount %s must be positive", ErrNotEditable, c.Amount)
	}
	if c.Reference != nil && loc.doc < 0 {
		return fmt.Errorf("%w: %q carries no reference", ErrNotEditable, recordID)
	}

	var err error
	switch {
	case loc.doc >= 0:
		err = b.editDocument(loc, c)
	case loc.treasury >= 0:
		err = b.editVoucher(loc, c)
	default:
		err = b.editEntry(loc, c)
	}
	if err != nil {
		return err
	}
	b.logger.Info("record edited", "id", recordID)
	return nil
}

func (b *Book) editDocument(loc location, c Changes) error {
	d := b.Documents.Docs[loc.docKind][loc.doc]
	if c.Date != nil {
		d.Date = *c.Date
	}
	if c.Amount != nil {
		d.Amount = *c.Amount
	}
	if c.Description != nil {
		d.Description = *c.Description
	}
	if c.Reference != nil {
		d.Reference = *c.Reference
	}
	if err := documents.ValidateDocument(d); err != nil {
		return err
	}

	var effect ledger.Effect = ledger.SaleEffect{Doc: d}
	if d.Kind.IsReturn() {
		effect = ledger.ReturnEffect{Doc: d}
	}
	tx, err := ledger.Normalize(effect)
	if err != nil {
		return err
	}
	p := newPlan()
	if err := b.replanParty(p, d.Kind.PartyKind(), d.PartyID, tx); err != nil {
		return err
	}
	entry, err := b.replanEntry(p, loc, c, fmt.Sprintf("%s %s", d.Kind, d.ID))
	if err != nil {
		return err
	}
	if err := b.apply(p); err != nil {
		return err
	}

	b.Documents.Docs[loc.docKind][loc.doc] = d
	if loc.entry >= 0 {
		b.Entries[loc.entry] = entry
	}
	return nil
}

func (b *Book) editVoucher(loc location, c Changes) error {
	tx := b.Documents.Treasury[loc.treasury]
	if c.Date != nil {
		tx.Date = *c.Date
	}
	if c.Amount != nil {
		tx.Amount = *c.Amount
		if tx.Type == model.VoucherPayment {
			tx.Amount = tx.Amount.Neg()
		}
	}
	if c.Description != nil {
		tx.Description = *c.Description
	}
	if err := documents.ValidateTreasury(tx); err != nil {
		return err
	}
	if _, err := ledger.Normalize(ledger.TreasuryEffect{Tx: tx}); err != nil {
		return err
	}

	p := newPlan()
	if tx.PartyID != "" {
		partyTx, err := ledger.Normalize(ledger.VoucherEffect{Tx: tx})
		if err != nil {
			return err
		}
		if err := b.replanParty(p, tx.PartyKind, tx.PartyID, partyTx); err != nil {
			return err
		}
	}
	entry, err := b.replanEntry(p, loc, c, fmt.Sprintf("%s %s", tx.Type, tx.ID))
	if err != nil {
		return err
	}
	if err := b.apply(p); err != nil {
		return err
	}

	b.Documents.Treasury[loc.treasury] = tx
	if loc.entry >= 0 {
		b.Entries[loc.entry] = entry
	}
	return nil
}

func (b *Book) editEntry(loc location, c Changes) error {
	old := b.Entries[loc.entry]
	entry, err := rewriteEntry(old, c, "")
	if err != nil {
		return err
	}

	p := newPlan()
	if entry.IsNote() {
		control := b.ControlAccount(entry.PartyKind)
		// A new description can flip an untagged note.
		if err := ledger.CheckNoteDirection(entry, control); err != nil {
			return err
		}
		tx, err := ledger.Normalize(ledger.NoteEffect{Entry: entry, ControlAccountID: control})
		if err != nil {
			return err
		}
		if err := b.replanParty(p, entry.PartyKind, entry.PartyID, tx); err != nil {
			return err
		}
	}
	if err := b.planReplaceEntry(p, old, entry); err != nil {
		return err
	}
	if err := b.apply(p); err != nil {
		return err
	}
	b.Entries[loc.entry] = entry
	return nil
}

// replanParty swaps tx into the party's reducer state. Dangling parties
// have no cached balance to write.
func (b *Book) replanParty(p *plan, kind model.PartyKind, partyID string, tx ledger.Transaction) error {
	st, err := b.partyState(kind, partyID)
	if err != nil {
		return err
	}
	if st, err = ledger.ReplaceTransaction(st, tx); err != nil {
		return err
	}
	if _, registered := b.Parties.Get(kind, partyID); registered {
		p.setParty(kind, partyID, st.Balance)
	}
	return nil
}

// replanEntry rewrites the journal entry behind a document or voucher.
// Records without one are left alone.
func (b *Book) replanEntry(p *plan, loc location, c Changes, defaultDesc string) (model.JournalEntry, error) {
	if loc.entry < 0 {
		return model.JournalEntry{}, nil
	}
	old := b.Entries[loc.entry]
	entry, err := rewriteEntry(old, c, defaultDesc)
	if err != nil {
		return old, err
	}
	return entry, b.planReplaceEntry(p, old, entry)
}

// rewriteEntry copies entry with c applied. A new amount goes on both lines,
// so only a two-line entry takes one. An emptied description falls back to
// defaultDesc.
func rewriteEntry(entry model.JournalEntry, c Changes, defaultDesc string) (model.JournalEntry, error) {
	out := entry
	out.Lines = slices.Clone(entry.Lines)
	if c.Date != nil {
		out.Date = *c.Date
	}
	if c.Description != nil {
		out.Description = *c.Description
		if out.Description == "" {
			out.Description = defaultDesc
		}
	}
	if c.Amount != nil {
		if len(out.Lines) != 2 {
			return entry, fmt.Errorf("%w: %q has %d lines, a new amount needs two", ErrNotEditable, entry.ID, len(out.Lines))
		}
		for i := range out.Lines {
			if out.Lines[i].Debit.IsPositive() {
				out.Lines[i].Debit = *c.Amount
			} else {
				out.Lines[i].Credit = *c.Amount
			}
		}
	}
	out.Debit, out.Credit = out.Totals()
	return out, nil
}

// planReplaceEntry validates entry and swaps each of its lines into the
// reducer state of its account. The lines must sit on the same accounts
// as old's.
func (b *Book) planReplaceEntry(p *plan, old, entry model.JournalEntry) error {
	if err := journal.Join(journal.ValidateEntries([]model.JournalEntry{entry}, b.Accounts)); err != nil {
		return err
	}
	if len(old.Lines) != len(entry.Lines) {
		return fmt.Errorf("%w: %q changes its line count", ErrNotEditable, entry.ID)
	}
	states := make(map[int]ledger.State)
	for i, l := range entry.Lines {
		if l.AccountID != old.Lines[i].AccountID {
			return fmt.Errorf("%w: %q line %d moves accounts", ErrNotEditable, entry.ID, i)
		}
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
		if st, err = ledger.ReplaceTransaction(st, tx); err != nil {
			return err
		}
		states[l.AccountID] = st
		p.setAccount(l.AccountID, st.Balance)
	}
	return nil
}
