package statements

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-dev/ledgerbook/internal/book"
	"github.com/ledgerbook-dev/ledgerbook/internal/config"
	"github.com/ledgerbook-dev/ledgerbook/internal/ledger"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newBook(t *testing.T) *book.Book {
	t.Helper()
	b, err := book.Create(t.TempDir(), config.Default("Corner Shop", "llc"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NoError(t, b.AddParty(model.Party{ID: "C1", Kind: model.PartyCustomer, Name: "Acme", Balance: dec("2500")}))
	require.NoError(t, b.AddParty(model.Party{ID: "S1", Kind: model.PartySupplier, Name: "Initech"}))
	return b
}

func balances(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Balance.String()
	}
	return out
}

func TestPartyStatement_CustomerScenario(t *testing.T) {
	b := newBook(t)
	// Posted out of order on purpose.
	_, err := b.PostVoucher(model.TreasuryTransaction{ID: "RCV-2024-05-001", Date: date(2024, 5, 15), Amount: dec("5000"), PartyID: "C1", PartyKind: model.PartyCustomer}, 0)
	require.NoError(t, err)
	_, err = b.PostSale(model.Document{ID: "SAL-2024-05-001", Date: date(2024, 5, 1), PartyID: "C1", Amount: dec("15000")})
	require.NoError(t, err)

	r, err := PartyStatement(b, model.PartyCustomer, "C1")
	require.NoError(t, err)

	assert.Equal(t, "Acme", r.Subject)
	assert.True(t, r.Opening.Equal(dec("2500")), "opening = %s", r.Opening)
	assert.True(t, r.Closing.Equal(dec("12500")))
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "SAL-2024-05-001", r.Lines[0].ID)
	assert.True(t, r.Lines[0].Debit.Equal(dec("15000")))
	assert.Equal(t, "RCV-2024-05-001", r.Lines[1].ID)
	assert.True(t, r.Lines[1].Credit.Equal(dec("5000")))
	assert.Equal(t, "Cash on hand", r.Lines[1].Counterpart)
	assert.Equal(t, []string{"17500", "12500"}, balances(r.Lines))
	assert.True(t, r.TotalDebit.Equal(dec("15000")))
	assert.True(t, r.TotalCredit.Equal(dec("5000")))
	assert.False(t, r.IsPeriod())
}

func TestPartyStatement_SupplierColumns(t *testing.T) {
	b := newBook(t)
	_, err := b.PostPurchase(model.Document{Date: date(2024, 5, 1), PartyID: "S1", Amount: dec("900")})
	require.NoError(t, err)
	_, err = b.PostVoucher(model.TreasuryTransaction{Date: date(2024, 5, 2), Amount: dec("-400"), PartyID: "S1", PartyKind: model.PartySupplier}, 0)
	require.NoError(t, err)

	r, err := PartyStatement(b, model.PartySupplier, "S1")
	require.NoError(t, err)
	require.Len(t, r.Lines, 2)
	assert.True(t, r.Lines[0].Credit.Equal(dec("900")), "supplier increases sit in the credit column")
	assert.True(t, r.Lines[1].Debit.Equal(dec("400")))
	assert.Equal(t, []string{"900", "500"}, balances(r.Lines))
	assert.True(t, r.Opening.IsZero())
}

func TestPartyStatement_ExcludesArchived(t *testing.T) {
	b := newBook(t)
	sale, err := b.PostSale(model.Document{Date: date(2024, 5, 1), PartyID: "C1", Amount: dec("300")})
	require.NoError(t, err)
	_, err = b.PostSale(model.Document{Date: date(2024, 5, 2), PartyID: "C1", Amount: dec("200")})
	require.NoError(t, err)
	require.NoError(t, b.Archive(sale.ID))

	r, err := PartyStatement(b, model.PartyCustomer, "C1")
	require.NoError(t, err)
	require.Len(t, r.Lines, 1)
	assert.True(t, r.Opening.Equal(dec("2500")))
	assert.Equal(t, []string{"2700"}, balances(r.Lines))
}

func TestPartyStatement_DanglingParty(t *testing.T) {
	b := newBook(t)
	r, err := PartyStatement(b, model.PartyCustomer, "ghost")
	require.NoError(t, err)
	assert.Equal(t, "unknown", r.Subject)
	assert.Empty(t, r.Lines)
	assert.True(t, r.Opening.IsZero())

	_, err = PartyStatement(b, "vendor", "S1")
	assert.ErrorIs(t, err, ledger.ErrUnknownPartyKind)
}

func TestAccountStatement(t *testing.T) {
	b := newBook(t)
	_, err := b.PostSale(model.Document{Date: date(2024, 5, 1), PartyID: "C1", Amount: dec("100")})
	require.NoError(t, err)
	_, err = b.PostNote(book.NoteParams{Date: date(2024, 5, 3), PartyKind: model.PartyCustomer, PartyID: "C1", Type: model.NoteCredit, Amount: dec("30")})
	require.NoError(t, err)

	r, err := AccountStatement(b, 1103)
	require.NoError(t, err)
	assert.Equal(t, "1103 Customers", r.Subject)
	assert.Equal(t, "Assets / Current assets", r.Group)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, []string{"100", "70"}, balances(r.Lines))
	assert.Equal(t, ledger.KindCreditNote, r.Lines[1].Kind)
	assert.Equal(t, "Acme", r.Lines[1].Counterpart)
	assert.True(t, r.Opening.IsZero())

	unknown, err := AccountStatement(b, 4242)
	require.NoError(t, err)
	assert.Equal(t, "unknown", unknown.Subject)
	assert.Empty(t, unknown.Group)
}

func TestTreasuryLedger_NewestFirst(t *testing.T) {
	b := newBook(t)
	for _, amt := range []string{"100", "-30", "50"} {
		_, err := b.PostVoucher(model.TreasuryTransaction{Date: date(2024, 5, 1), Amount: dec(amt)}, 0)
		require.NoError(t, err)
	}
	// A manual entry on the cash account shows up too.
	_, err := b.PostJournal(model.JournalEntry{Date: date(2024, 5, 2), Description: "Owner top-up", Lines: []model.JournalLine{
		{AccountID: 1101, Debit: dec("10")},
		{AccountID: 3101, Credit: dec("10")},
	}})
	require.NoError(t, err)

	r, err := TreasuryLedger(b, b.TreasuryAccount())
	require.NoError(t, err)
	assert.Equal(t, ledger.NewestFirst, r.Order)
	require.Len(t, r.Lines, 4)
	assert.Equal(t, "JV-2024-05-001", r.Lines[0].ID)
	assert.Equal(t, []string{"130", "120", "70", "-30"}, balances(r.Lines))
	assert.True(t, r.Closing.Equal(dec("130")))
	assert.True(t, r.Opening.IsZero())
}

func TestTreasuryPeriod_Scenario(t *testing.T) {
	b := newBook(t)
	require.NoError(t, b.Accounts.SetBalance(1101, dec("478500")))
	_, err := b.PostVoucher(model.TreasuryTransaction{Date: date(2024, 5, 17), Amount: dec("3200"), PartyID: "C1", PartyKind: model.PartyCustomer}, 0)
	require.NoError(t, err)
	require.True(t, b.AccountBalance(1101).Equal(dec("481700")))

	r, err := TreasuryPeriod(b, 1101, date(2024, 5, 1), date(2024, 5, 16))
	require.NoError(t, err)
	assert.True(t, r.IsPeriod())
	assert.True(t, r.Closing.Equal(dec("478500")), "closing = %s", r.Closing)
	assert.True(t, r.Opening.Equal(dec("478500")))
	assert.Empty(t, r.Lines)

	full, err := TreasuryPeriod(b, 1101, date(2024, 5, 1), date(2024, 5, 31))
	require.NoError(t, err)
	require.Len(t, full.Lines, 1)
	assert.Equal(t, "Acme", full.Lines[0].Counterpart)
	assert.True(t, full.TotalIn.Equal(dec("3200")))
	assert.True(t, full.Closing.Equal(dec("481700")))
}

func TestTrialBalance(t *testing.T) {
	b := newBook(t)
	_, err := b.PostSale(model.Document{Date: date(2024, 5, 1), PartyID: "C1", Amount: dec("1000")})
	require.NoError(t, err)
	_, err = b.PostVoucher(model.TreasuryTransaction{Date: date(2024, 5, 2), Amount: dec("600"), PartyID: "C1", PartyKind: model.PartyCustomer}, 0)
	require.NoError(t, err)

	tb, err := BuildTrialBalance(b)
	require.NoError(t, err)
	assert.True(t, tb.Balanced())
	assert.True(t, tb.Debit.Equal(dec("1000")))

	byCode := make(map[string]TrialRow)
	for _, r := range tb.Rows {
		byCode[r.Code] = r
	}
	customers := byCode["1103"]
	assert.True(t, customers.Debit.Equal(dec("1000")))
	assert.True(t, customers.Credit.Equal(dec("600")))
	assert.True(t, customers.Balance.Equal(dec("400")))
	assert.True(t, customers.Opening.IsZero())
	assert.True(t, byCode["4101"].Balance.Equal(dec("-1000")))
	assert.True(t, tb.ByType[model.AccountTypeAsset].Equal(dec("1000")))
}
