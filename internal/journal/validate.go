package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// AccountChecker tests account ids against the chart of accounts.
type AccountChecker interface {
	Exists(id int) bool
	IsLeaf(id int) bool
}

var hundred = decimal.NewFromInt(100)

func hasCents(d decimal.Decimal) bool {
	return !d.Mul(hundred).Equal(d.Mul(hundred).Floor())
}

// ValidateEntries enforces the journal invariants:
//
//  1. debits equal credits, and both equal the entry's denormalized totals
//  2. every line has exactly one positive side
//  3. every line posts to an existing leaf account
//  4. an entry has at least two lines
//  5. amounts carry at most two decimal places
//  6. entry ids are unique
func ValidateEntries(entries []model.JournalEntry, accounts AccountChecker) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		debit, credit := e.Totals()

		// Invariant 1: Entry balances.
		if !debit.Equal(credit) {
			errs = append(errs, ValidationError{
				Invariant:   1,
				EntryID:     e.ID,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", debit.StringFixed(2), credit.StringFixed(2)),
			})
		}
		if !e.Debit.Equal(debit) || !e.Credit.Equal(credit) {
			errs = append(errs, ValidationError{
				Invariant:   1,
				EntryID:     e.ID,
				Description: fmt.Sprintf("totals (%s/%s) do not match lines (%s/%s)", e.Debit.StringFixed(2), e.Credit.StringFixed(2), debit.StringFixed(2), credit.StringFixed(2)),
			})
		}

		// Invariant 4: Double entry needs two sides.
		if len(e.Lines) < 2 {
			errs = append(errs, ValidationError{
				Invariant:   4,
				EntryID:     e.ID,
				Description: fmt.Sprintf("entry has %d lines, need at least 2", len(e.Lines)),
			})
		}

		// Invariant 6: Unique ids.
		if seen[e.ID] {
			errs = append(errs, ValidationError{
				Invariant:   6,
				EntryID:     e.ID,
				Description: "duplicate entry id",
			})
		}
		seen[e.ID] = true

		for i, l := range e.Lines {
			lineID := fmt.Sprintf("%s#%d", e.ID, i+1)

			// Invariant 2: Exactly one of debit/credit per line.
			hasDebit := !l.Debit.IsZero()
			hasCredit := !l.Credit.IsZero()
			if hasDebit == hasCredit || l.Debit.IsNegative() || l.Credit.IsNegative() {
				errs = append(errs, ValidationError{
					Invariant:   2,
					EntryID:     lineID,
					Description: "line must have exactly one positive debit or credit",
				})
			}

			// Invariant 3: Valid leaf account references.
			switch {
			case !accounts.Exists(l.AccountID):
				errs = append(errs, ValidationError{
					Invariant:   3,
					EntryID:     lineID,
					Description: fmt.Sprintf("unknown account %d", l.AccountID),
				})
			case !accounts.IsLeaf(l.AccountID):
				errs = append(errs, ValidationError{
					Invariant:   3,
					EntryID:     lineID,
					Description: fmt.Sprintf("account %d is a group, post to a leaf", l.AccountID),
				})
			}

			// Invariant 5: Exact decimals.
			if hasCents(l.Debit) {
				errs = append(errs, ValidationError{
					Invariant:   5,
					EntryID:     lineID,
					Description: fmt.Sprintf("debit %s has more than 2 decimal places", l.Debit),
				})
			}
			if hasCents(l.Credit) {
				errs = append(errs, ValidationError{
					Invariant:   5,
					EntryID:     lineID,
					Description: fmt.Sprintf("credit %s has more than 2 decimal places", l.Credit),
				})
			}
		}
	}

	return errs
}

// Join folds validation errors into a single error, or nil.
func Join(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msg := errs[0].Error()
	for _, e := range errs[1:] {
		msg += "; " + e.Error()
	}
	return fmt.Errorf("validation failed: %s", msg)
}
