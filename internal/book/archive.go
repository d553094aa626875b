package book

import (
	"fmt"

	"github.com/ledgerbook-dev/ledgerbook/internal/id"
	"github.com/ledgerbook-dev/ledgerbook/internal/ledger"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Archive soft-deletes the record with recordID: a trade document, a
// voucher or a journal entry. The record and its journal entry stay in
// the files flagged archived, and every balance they moved is moved back.
func (b *Book) Archive(recordID string) error {
	loc := b.locate(recordID)
	if !loc.found() {
		return fmt.Errorf("%w: %q", ErrNotFound, recordID)
	}
	if loc.archived() {
		return fmt.Errorf("%w: %q", ledger.ErrAlreadyArchived, recordID)
	}

	p := newPlan()
	if kind, partyID, ok := loc.party(); ok {
		st, err := b.partyState(kind, partyID)
		if err != nil {
			return err
		}
		if st, err = ledger.ArchiveTransaction(st, recordID); err != nil {
			return err
		}
		if _, registered := b.Parties.Get(kind, partyID); registered {
			p.setParty(kind, partyID, st.Balance)
		}
	}

	if loc.entry >= 0 {
		entry := b.Entries[loc.entry]
		states := make(map[int]ledger.State)
		for i, l := range entry.Lines {
			if !b.Accounts.IsLeaf(l.AccountID) {
				continue
			}
			st, ok := states[l.AccountID]
			if !ok {
				var err error
				if st, err = b.accountState(l.AccountID); err != nil {
					return err
				}
			}
			st, err := ledger.ArchiveTransaction(st, id.FormatLegID(entry.ID, i))
			if err != nil {
				return err
			}
			states[l.AccountID] = st
			p.setAccount(l.AccountID, st.Balance)
		}
	}

	if err := b.apply(p); err != nil {
		return err
	}
	loc.markArchived()
	b.logger.Info("record archived", "id", recordID)
	return nil
}

// location points at every copy of a record id in the book. Indexes are
// -1 when absent.
type location struct {
	docKind  model.DocumentKind
	doc      int
	treasury int
	entry    int
	b        *Book
}

func (b *Book) locate(recordID string) location {
	loc := location{doc: -1, treasury: -1, entry: -1, b: b}
	for kind, docs := range b.Documents.Docs {
		for i, d := range docs {
			if d.ID == recordID {
				loc.docKind, loc.doc = kind, i
			}
		}
	}
	for i, tx := range b.Documents.Treasury {
		if tx.ID == recordID {
			loc.treasury = i
		}
	}
	for i, e := range b.Entries {
		if e.ID == recordID {
			loc.entry = i
		}
	}
	return loc
}

func (l location) found() bool {
	return l.doc >= 0 || l.treasury >= 0 || l.entry >= 0
}

func (l location) archived() bool {
	switch {
	case l.doc >= 0:
		return l.b.Documents.Docs[l.docKind][l.doc].Archived
	case l.treasury >= 0:
		return l.b.Documents.Treasury[l.treasury].Archived
	default:
		return l.b.Entries[l.entry].Archived
	}
}

// party returns the party whose balance the record moves, if any.
func (l location) party() (model.PartyKind, string, bool) {
	switch {
	case l.doc >= 0:
		d := l.b.Documents.Docs[l.docKind][l.doc]
		return d.Kind.PartyKind(), d.PartyID, true
	case l.treasury >= 0:
		tx := l.b.Documents.Treasury[l.treasury]
		return tx.PartyKind, tx.PartyID, tx.PartyID != ""
	case l.entry >= 0:
		e := l.b.Entries[l.entry]
		return e.PartyKind, e.PartyID, e.IsNote()
	}
	return "", "", false
}

func (l location) markArchived() {
	if l.doc >= 0 {
		l.b.Documents.Docs[l.docKind][l.doc].Archived = true
	}
	if l.treasury >= 0 {
		l.b.Documents.Treasury[l.treasury].Archived = true
	}
	if l.entry >= 0 {
		l.b.Entries[l.entry].Archived = true
	}
}
