package statements

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/ledger"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// TrialRow is one leaf account in the trial balance.
type TrialRow struct {
	AccountID int
	Code      string
	Name      string
	Type      model.AccountType
	Opening   decimal.Decimal
	Debit     decimal.Decimal // posted debits
	Credit    decimal.Decimal // posted credits
	Balance   decimal.Decimal
}

// TrialBalance lists every leaf account with its inferred opening balance,
// posted movements and cached balance.
type TrialBalance struct {
	Rows   []TrialRow
	ByType map[model.AccountType]decimal.Decimal
	// Debit and Credit sum the balances on each side; they match when the
	// opening balances are themselves balanced.
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Balanced reports whether the debit and credit balance columns agree.
func (tb TrialBalance) Balanced() bool {
	return tb.Debit.Equal(tb.Credit)
}

// BuildTrialBalance walks the chart of accounts leaf by leaf.
func BuildTrialBalance(b *book.Book) (TrialBalance, error) {
	tb := TrialBalance{
		ByType: make(map[model.AccountType]decimal.Decimal),
		Debit:  decimal.Zero,
		Credit: decimal.Zero,
	}
	for _, a := range b.Accounts.Leaves() {
		txs, err := b.AccountTransactions(a.ID)
		if err != nil {
			return TrialBalance{}, fmt.Errorf("account %s: %w", a.Code, err)
		}
		row := TrialRow{
			AccountID: a.ID,
			Code:      a.Code,
			Name:      a.Name,
			Type:      a.Type,
			Opening:   ledger.InferOpeningBalance(a.BalanceOrZero(), txs),
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
			Balance:   a.BalanceOrZero(),
		}
		for _, t := range ledger.SortAscending(txs) {
			row.Debit = row.Debit.Add(t.Debit)
			row.Credit = row.Credit.Add(t.Credit)
		}
		tb.Rows = append(tb.Rows, row)
		tb.ByType[a.Type] = tb.ByType[a.Type].Add(row.Balance)
		if row.Balance.IsPositive() {
			tb.Debit = tb.Debit.Add(row.Balance)
		} else {
			tb.Credit = tb.Credit.Add(row.Balance.Abs())
		}
	}
	return tb, nil
}
