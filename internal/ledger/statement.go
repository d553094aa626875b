package ledger

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Order selects the display direction of statement rows.
type Order int

const (
	// OldestFirst lists rows in ascending (date, id) order.
	OldestFirst Order = iota
	// NewestFirst lists rows in descending order. Running balances are
	// still computed oldest to newest.
	NewestFirst
)

// Row is a transaction with the running balance after applying it.
type Row struct {
	Transaction
	Balance decimal.Decimal
}

// Statement is an opening balance followed by running-balance rows.
type Statement struct {
	Opening decimal.Decimal
	Closing decimal.Decimal
	Rows    []Row
}

// compareTx orders by calendar date, then id lexically.
func compareTx(a, b Transaction) int {
	if c := model.CalendarDay(a.Date).Compare(model.CalendarDay(b.Date)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// SortAscending returns the unarchived transactions ordered by
// (calendar date, id). The input slice is not modified.
func SortAscending(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.Archived {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, compareTx)
	return out
}

// BuildStatement replays the unarchived transactions from opening in
// ascending (date, id) order and returns one row per transaction carrying
// the balance after it. NewestFirst reverses the finished rows.
func BuildStatement(opening decimal.Decimal, txs []Transaction, order Order) []Row {
	sorted := SortAscending(txs)
	rows := make([]Row, 0, len(sorted))
	running := opening
	for _, t := range sorted {
		running = running.Add(t.Amount)
		rows = append(rows, Row{Transaction: t, Balance: running})
	}
	if order == NewestFirst {
		slices.Reverse(rows)
	}
	return rows
}

// BuildFromCurrent infers the opening balance from the cached current
// balance and builds the full statement. The last row's balance in
// ascending order always equals current.
func BuildFromCurrent(current decimal.Decimal, txs []Transaction, order Order) Statement {
	opening := InferOpeningBalance(current, txs)
	return Statement{
		Opening: opening,
		Closing: current,
		Rows:    BuildStatement(opening, txs, order),
	}
}
