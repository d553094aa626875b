package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of a journal entry.
type EntryStatus string

const (
	StatusDraft   EntryStatus = "draft"
	StatusPosted  EntryStatus = "posted"
	StatusVoided  EntryStatus = "voided"
	StatusOpening EntryStatus = "opening"
)

// NoteType tags manual party adjustments recorded as journal entries.
type NoteType string

const (
	NoteNone   NoteType = ""
	NoteDebit  NoteType = "debit_note"
	NoteCredit NoteType = "credit_note"
)

// JournalLine is one side of a double entry.
type JournalLine struct {
	AccountID   int
	AccountName string          // snapshot at posting time
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
}

// JournalEntry groups balanced lines under one date and description.
type JournalEntry struct {
	ID          string `validate:"required"`
	Date        time.Time
	Description string
	Debit       decimal.Decimal // denormalized total of line debits
	Credit      decimal.Decimal // denormalized total of line credits
	Lines       []JournalLine `validate:"min=2"`
	Status      EntryStatus
	Archived    bool
	PartyID     string
	PartyKind   PartyKind `validate:"omitempty,oneof=customer supplier"`
	NoteType    NoteType  `validate:"omitempty,oneof=debit_note credit_note"`
}

// IsNote reports whether the entry is a manual party adjustment.
func (e JournalEntry) IsNote() bool {
	return e.PartyID != "" && e.PartyKind != ""
}

// Totals sums line debits and credits.
func (e JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}
