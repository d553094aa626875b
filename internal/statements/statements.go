// Package statements builds the reports users read: party statements,
// account statements, the treasury ledger and the trial balance. Every
// report starts from a cached balance and reconstructs the history with
// the ledger engine.
package statements

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/ledger"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Line is a statement row ready for display.
type Line struct {
	Date        time.Time
	ID          string
	Kind        ledger.Kind
	Description string
	Reference   string
	Counterpart string // account or party on the other side, if any
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Amount      decimal.Decimal
	Balance     decimal.Decimal
}

// Report is a statement for one party or account.
type Report struct {
	Title       string
	Subject     string
	Group       string // parent accounts of an account report, root first
	Order       ledger.Order
	Opening     decimal.Decimal
	Closing     decimal.Decimal
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Lines       []Line

	// Set only for period reports.
	Start    time.Time
	End      time.Time
	TotalIn  decimal.Decimal
	TotalOut decimal.Decimal
}

// IsPeriod reports whether the report covers a bounded period.
func (r Report) IsPeriod() bool {
	return !r.Start.IsZero() || !r.End.IsZero()
}

type namer func(ledger.Transaction) string

func toLines(rows []ledger.Row, counterpart namer) ([]Line, decimal.Decimal, decimal.Decimal) {
	lines := make([]Line, len(rows))
	debit, credit := decimal.Zero, decimal.Zero
	for i, r := range rows {
		lines[i] = Line{
			Date:        r.Date,
			ID:          r.ID,
			Kind:        r.Kind,
			Description: r.Description,
			Reference:   r.Reference,
			Debit:       r.Debit,
			Credit:      r.Credit,
			Amount:      r.Amount,
			Balance:     r.Balance,
		}
		if counterpart != nil {
			lines[i].Counterpart = counterpart(r.Transaction)
		}
		debit = debit.Add(r.Debit)
		credit = credit.Add(r.Credit)
	}
	return lines, debit, credit
}

func fromStatement(st ledger.Statement, order ledger.Order, counterpart namer) Report {
	lines, debit, credit := toLines(st.Rows, counterpart)
	return Report{
		Order:       order,
		Opening:     st.Opening,
		Closing:     st.Closing,
		TotalDebit:  debit,
		TotalCredit: credit,
		Lines:       lines,
	}
}

// PartyStatement lists a customer's or supplier's history oldest first,
// opening from the balance inferred out of the cached current balance.
// A dangling party id still gets a statement, titled "unknown".
func PartyStatement(b *book.Book, kind model.PartyKind, partyID string) (Report, error) {
	if !kind.Valid() {
		return Report{}, fmt.Errorf("%w: %q", ledger.ErrUnknownPartyKind, kind)
	}
	txs, err := b.PartyTransactions(kind, partyID)
	if err != nil {
		return Report{}, fmt.Errorf("%s %q: %w", kind, partyID, err)
	}
	st := ledger.BuildFromCurrent(b.PartyBalance(kind, partyID), txs, ledger.OldestFirst)
	r := fromStatement(st, ledger.OldestFirst, func(t ledger.Transaction) string {
		if t.AccountID == 0 {
			return ""
		}
		return b.Accounts.NameOf(t.AccountID)
	})
	r.Title = fmt.Sprintf("%s statement", kind)
	r.Subject = b.Parties.NameOf(kind, partyID)
	return r, nil
}

// AccountStatement lists the journal lines posted to a leaf account, debit
// increasing, oldest first.
func AccountStatement(b *book.Book, accountID int) (Report, error) {
	txs, err := b.AccountTransactions(accountID)
	if err != nil {
		return Report{}, fmt.Errorf("account %d: %w", accountID, err)
	}
	st := ledger.BuildFromCurrent(b.AccountBalance(accountID), txs, ledger.OldestFirst)
	r := fromStatement(st, ledger.OldestFirst, partyNamer(b))
	r.Title = "account statement"
	r.Subject = accountSubject(b, accountID)
	r.Group = accountGroup(b, accountID)
	return r, nil
}

// TreasuryLedger lists a cash account's movements newest first. Running
// balances are computed oldest first regardless.
func TreasuryLedger(b *book.Book, accountID int) (Report, error) {
	txs, err := b.TreasuryTransactions(accountID)
	if err != nil {
		return Report{}, fmt.Errorf("treasury %d: %w", accountID, err)
	}
	st := ledger.BuildFromCurrent(b.AccountBalance(accountID), txs, ledger.NewestFirst)
	r := fromStatement(st, ledger.NewestFirst, partyNamer(b))
	r.Title = "treasury ledger"
	r.Subject = accountSubject(b, accountID)
	r.Group = accountGroup(b, accountID)
	return r, nil
}

// TreasuryPeriod reports a cash account over [start, end] inclusive.
func TreasuryPeriod(b *book.Book, accountID int, start, end time.Time) (Report, error) {
	txs, err := b.TreasuryTransactions(accountID)
	if err != nil {
		return Report{}, fmt.Errorf("treasury %d: %w", accountID, err)
	}
	ps := ledger.BuildPeriodStatement(b.AccountBalance(accountID), txs, start, end)
	lines, debit, credit := toLines(ps.Rows, partyNamer(b))
	return Report{
		Title:       "treasury period",
		Subject:     accountSubject(b, accountID),
		Group:       accountGroup(b, accountID),
		Order:       ledger.OldestFirst,
		Opening:     ps.Opening,
		Closing:     ps.Closing,
		TotalDebit:  debit,
		TotalCredit: credit,
		Lines:       lines,
		Start:       ps.Start,
		End:         ps.End,
		TotalIn:     ps.TotalIn,
		TotalOut:    ps.TotalOut,
	}, nil
}

func accountSubject(b *book.Book, accountID int) string {
	a, ok := b.Accounts.Get(accountID)
	if !ok {
		return b.Accounts.NameOf(accountID)
	}
	return fmt.Sprintf("%s %s", a.Code, a.Name)
}

// accountGroup names the parents of accountID, e.g. "Assets / Current assets".
func accountGroup(b *book.Book, accountID int) string {
	path := b.Accounts.PathTo(accountID)
	if len(path) < 2 {
		return ""
	}
	names := make([]string, 0, len(path)-1)
	for _, a := range path[:len(path)-1] {
		names = append(names, a.Name)
	}
	return strings.Join(names, " / ")
}

// partyNamer resolves the party behind a voucher or note, looking up the
// party kind from the record that carries it.
func partyNamer(b *book.Book) namer {
	kinds := make(map[string]model.PartyKind)
	for _, tx := range b.Documents.Treasury {
		if tx.PartyID != "" {
			kinds[tx.ID] = tx.PartyKind
		}
	}
	for _, e := range b.Entries {
		if e.IsNote() {
			kinds[e.ID] = e.PartyKind
		}
	}
	return func(t ledger.Transaction) string {
		kind, ok := kinds[t.ID]
		if !ok {
			return ""
		}
		return b.Parties.NameOf(kind, t.PartyID)
	}
}
