package commands

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerbook-dev/ledgerbook/internal/accounts"
	"github.com/ledgerbook-dev/ledgerbook/internal/gitops"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "ledgerbook %s", strings.Join(args, " "))
	return out
}

// newBook initializes a book with one customer owing 2,500.00.
func newBook(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, "init", dir, "--name", "Acme Pallets")
	mustRun(t, "party", "add", "customer", "--book", dir, "--id", "C001", "--name", "Blue Crate Co", "--balance", "2500")
	mustRun(t, "party", "add", "supplier", "--book", dir, "--id", "S001", "--name", "Timber Yard")
	return dir
}

func lastCommit(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return strings.TrimSpace(string(out))
}

func TestInit_CreatesBook(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, "init", dir, "--name", "Test Biz")
	assert.Contains(t, out, "Initialized book at")

	data, err := os.ReadFile(filepath.Join(dir, "ledgerbook.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Test Biz")
	assert.Contains(t, string(data), "entity_type: llc_single_member")

	svc, err := accounts.Load(dir)
	require.NoError(t, err)
	_, ok := svc.GetByCode(accounts.CodeSuspense)
	assert.True(t, ok)

	for _, d := range []string{"import", filepath.Join("import", "processed"), "exports"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, d)
		assert.True(t, info.IsDir())
	}
	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "exports/")
}

func TestInit_GitRepo(t *testing.T) {
	if !gitops.Available() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	mustRun(t, "init", dir, "--name", "Test Biz")

	assert.True(t, gitops.IsRepo(dir))
	assert.Equal(t, "init: Initialize Test Biz", lastCommit(t, dir, "%s"))
	assert.Equal(t, "Ledgerbook <books@ledgerbook.dev>", lastCommit(t, dir, "%an <%ae>"))
}

func TestInit_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "init", dir)
	assert.Error(t, err, "--name is required")

	mustRun(t, "init", dir, "--name", "Once")
	_, err = run(t, "init", dir, "--name", "Twice")
	assert.ErrorContains(t, err, "already holds a book")

	_, err = run(t, "init", t.TempDir(), "--name", "Bad", "--currency", "EURO")
	assert.Error(t, err)
}

func TestNoBook(t *testing.T) {
	_, err := run(t, "trial-balance", "--book", t.TempDir())
	assert.ErrorContains(t, err, "no book")
}

func TestParty_AddAndList(t *testing.T) {
	dir := newBook(t)

	out := mustRun(t, "party", "list", "customer", "--book", dir)
	assert.Contains(t, out, "C001")
	assert.Contains(t, out, "Blue Crate Co")
	assert.Contains(t, out, "2,500.00")

	_, err := run(t, "party", "add", "customer", "--book", dir, "--id", "C001", "--name", "Again")
	assert.Error(t, err)
	_, err = run(t, "party", "add", "vendor", "--book", dir, "--id", "V1", "--name", "X")
	assert.ErrorContains(t, err, "customer or supplier")
	_, err = run(t, "party", "add", "customer", "--book", dir, "--id", "C9", "--name", "X", "--email", "not-an-email")
	assert.Error(t, err)
}

func TestCustomerStatement(t *testing.T) {
	dir := newBook(t)
	out := mustRun(t, "post", "sale", "--book", dir, "--party", "C001", "--amount", "15000", "--date", "2024-05-01", "--desc", "Pallets")
	assert.Contains(t, out, "Posted SAL-2024-05-001")
	assert.Contains(t, out, "balance 17,500.00")

	out = mustRun(t, "post", "receipt", "--book", dir, "--party", "C001", "--amount", "5000", "--date", "2024-05-15")
	assert.Contains(t, out, "Posted RCV-2024-05-001")

	csv := mustRun(t, "statement", "customer", "C001", "--book", dir, "--format", "csv")
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, ",,,Opening balance,,,,2500.00", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2024-05-01,SAL-2024-05-001,sale,Pallets,"), lines[2])
	assert.True(t, strings.HasSuffix(lines[2], ",15000.00,0.00,17500.00"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "2024-05-15,RCV-2024-05-001,receipt,"), lines[3])
	assert.Equal(t, ",,,Closing balance,,15000.00,5000.00,12500.00", lines[4])

	table := mustRun(t, "statement", "customer", "C001", "--book", dir)
	assert.Contains(t, table, "customer statement: Blue Crate Co")
	assert.Contains(t, table, "12,500.00")

	if gitops.Available() {
		assert.Equal(t, "post: receipt RCV-2024-05-001", lastCommit(t, dir, "%s"))
	}
}

func TestPost_FailureWritesNothing(t *testing.T) {
	dir := newBook(t)
	before, err := os.ReadFile(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)

	_, err = run(t, "post", "sale", "--book", dir, "--party", "NOPE", "--amount", "10", "--date", "2024-05-01")
	assert.Error(t, err)
	_, err = run(t, "post", "sale", "--book", dir, "--party", "C001", "--amount=-10")
	assert.ErrorContains(t, err, "positive")
	_, err = run(t, "post", "receipt", "--book", dir, "--amount", "abc")
	assert.Error(t, err)

	after, err := os.ReadFile(filepath.Join(dir, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestPost_SupplierFlow(t *testing.T) {
	dir := newBook(t)
	mustRun(t, "post", "purchase", "--book", dir, "--party", "S001", "--amount", "900", "--date", "2024-05-02")
	mustRun(t, "post", "purchase-return", "--book", dir, "--party", "S001", "--amount", "100", "--date", "2024-05-03")
	mustRun(t, "post", "payment", "--book", dir, "--party", "S001", "--amount", "700", "--date", "2024-05-04")
	out := mustRun(t, "post", "note", "--book", dir, "--party", "S001", "--party-kind", "supplier",
		"--type", "credit_note", "--amount", "50", "--date", "2024-05-05")
	assert.Contains(t, out, "Posted CN-2024-05-001")
	assert.Contains(t, out, "balance 150.00")

	csv := mustRun(t, "statement", "supplier", "S001", "--book", dir, "--format", "csv")
	assert.Contains(t, csv, ",,,Closing balance,,800.00,950.00,150.00")

	_, err := run(t, "post", "note", "--book", dir, "--party", "S001", "--party-kind", "supplier",
		"--type", "memo", "--amount", "50")
	assert.Error(t, err)
}

func TestPost_VoucherWithoutParty(t *testing.T) {
	dir := newBook(t)
	mustRun(t, "post", "payment", "--book", dir, "--amount", "1200", "--date", "2024-05-03", "--counter", "5103", "--desc", "May rent")

	csv := mustRun(t, "statement", "account", "5103", "--book", dir, "--format", "csv")
	assert.Contains(t, csv, "PAY-2024-05-001")
	assert.Contains(t, csv, ",,,Closing balance,,1200.00,0.00,1200.00")

	_, err := run(t, "statement", "account", "51", "--book", dir)
	assert.Error(t, err, "group accounts have no statement")
}

func TestTreasuryReports(t *testing.T) {
	dir := newBook(t)
	mustRun(t, "post", "receipt", "--book", dir, "--party", "C001", "--amount", "100", "--date", "2024-05-01")
	mustRun(t, "post", "payment", "--book", dir, "--party", "S001", "--amount", "30", "--date", "2024-05-10")
	mustRun(t, "post", "receipt", "--book", dir, "--party", "C001", "--amount", "50", "--date", "2024-05-20")

	csv := mustRun(t, "treasury", "ledger", "--book", dir, "--format", "csv")
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[2], "RCV-2024-05-002", "newest first")
	assert.Contains(t, lines[4], "RCV-2024-05-001")

	period := mustRun(t, "treasury", "period", "--book", dir, "--from", "2024-05-05", "--to", "2024-05-15", "--format", "csv")
	plines := strings.Split(strings.TrimSpace(period), "\n")
	require.Len(t, plines, 4)
	assert.Equal(t, "2024-05-05,,,Opening balance,,,,100.00", plines[1])
	assert.Contains(t, plines[2], "PAY-2024-05-001")
	assert.Equal(t, "2024-05-15,,,Closing balance,,0.00,30.00,70.00", plines[3])

	_, err := run(t, "treasury", "period", "--book", dir, "--from", "May 5", "--to", "2024-05-15")
	assert.ErrorContains(t, err, "--from")
}

func TestArchive(t *testing.T) {
	dir := newBook(t)
	mustRun(t, "post", "sale", "--book", dir, "--party", "C001", "--amount", "15000", "--date", "2024-05-01")
	mustRun(t, "post", "receipt", "--book", dir, "--party", "C001", "--amount", "5000", "--date", "2024-05-15")

	out := mustRun(t, "archive", "RCV-2024-05-001", "--book", dir)
	assert.Contains(t, out, "Archived RCV-2024-05-001")

	csv := mustRun(t, "statement", "customer", "C001", "--book", dir, "--format", "csv")
	assert.NotContains(t, csv, "RCV-2024-05-001")
	assert.Contains(t, csv, ",,,Closing balance,,15000.00,0.00,17500.00")

	_, err := run(t, "archive", "RCV-2024-05-001", "--book", dir)
	assert.Error(t, err, "already archived")
	_, err = run(t, "archive", "SAL-1999-01-001", "--book", dir)
	assert.Error(t, err)
}

func TestEdit(t *testing.T) {
	dir := newBook(t)
	mustRun(t, "post", "sale", "--book", dir, "--party", "C001", "--amount", "15000", "--date", "2024-05-01")

	out := mustRun(t, "edit", "SAL-2024-05-001", "--book", dir, "--amount", "12000", "--ref", "INV-88")
	assert.Contains(t, out, "Edited SAL-2024-05-001")
	if gitops.Available() {
		assert.Equal(t, "edit: SAL-2024-05-001", lastCommit(t, dir, "%s"))
	}

	csv := mustRun(t, "statement", "customer", "C001", "--book", dir, "--format", "csv")
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ",,,Opening balance,,,,2500.00", lines[1])
	assert.Equal(t, ",,,Closing balance,,12000.00,0.00,14500.00", lines[3])

	_, err := run(t, "edit", "SAL-2024-05-001", "--book", dir)
	assert.ErrorContains(t, err, "nothing to edit")
	_, err = run(t, "edit", "SAL-1999-01-001", "--book", dir, "--amount", "5")
	assert.Error(t, err)
	_, err = run(t, "edit", "SAL-2024-05-001", "--book", dir, "--date", "May 3")
	assert.ErrorContains(t, err, "--date")
}

func TestPost_VoucherCounterIsCashAccount(t *testing.T) {
	dir := newBook(t)
	_, err := run(t, "post", "receipt", "--book", dir, "--amount", "500", "--date", "2024-05-02", "--counter", "1101")
	assert.ErrorContains(t, err, "counter account")

	out := mustRun(t, "treasury", "ledger", "--book", dir, "--format", "csv")
	assert.NotContains(t, out, "RCV-")
}

func TestTrialBalance(t *testing.T) {
	dir := newBook(t)
	mustRun(t, "post", "sale", "--book", dir, "--party", "C001", "--amount", "600", "--date", "2024-05-01")
	mustRun(t, "post", "receipt", "--book", dir, "--party", "C001", "--amount", "600", "--date", "2024-05-02")

	csv := mustRun(t, "trial-balance", "--book", dir, "--format", "csv")
	assert.Contains(t, csv, "1101,Cash on hand,asset,0.00,600.00,0.00,600.00")
	assert.Contains(t, csv, "1103,Customers,asset,0.00,600.00,600.00,0.00")
	assert.Contains(t, csv, "4101,Sales,revenue,0.00,0.00,600.00,-600.00")
	assert.Contains(t, csv, ",Balance totals,,,600.00,600.00,")

	table := mustRun(t, "trial-balance", "--book", dir)
	assert.NotContains(t, table, "does not balance")
}

func TestExport_XLSX(t *testing.T) {
	dir := newBook(t)
	mustRun(t, "post", "sale", "--book", dir, "--party", "C001", "--amount", "15000", "--date", "2024-05-01")

	_, err := run(t, "statement", "customer", "C001", "--book", dir, "--format", "xlsx")
	assert.ErrorContains(t, err, "--out")
	_, err = run(t, "statement", "customer", "C001", "--book", dir, "--format", "pdf")
	assert.Error(t, err)

	path := filepath.Join(dir, "exports", "c001.xlsx")
	mustRun(t, "statement", "customer", "C001", "--book", dir, "--format", "xlsx", "--out", path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	id, err := f.GetCellValue("Statement", "B3")
	require.NoError(t, err)
	assert.Equal(t, "SAL-2024-05-001", id)
}

const chaseCSV = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n" +
	"DEBIT,05/03/2024,GITHUB *PRO SUBSCRIPTION,-4.00,ACH_DEBIT,996.00,\n" +
	"CREDIT,05/06/2024,BLUE CRATE CO PAYMENT,250.00,ACH_CREDIT,1246.00,\n"

func TestImport(t *testing.T) {
	dir := newBook(t)
	out := mustRun(t, "import", "chase", "--book", dir)
	assert.Contains(t, out, "Nothing to import")

	bankFile := filepath.Join(dir, "import", "may.csv")
	require.NoError(t, os.WriteFile(bankFile, []byte(chaseCSV), 0o644))

	out = mustRun(t, "import", "chase", "--book", dir, "--dry-run")
	assert.Contains(t, out, "may.csv: 2 new, 0 already posted")
	_, err := os.Stat(bankFile)
	require.NoError(t, err, "dry run leaves the file in place")

	out = mustRun(t, "import", "chase", "--book", dir, "--account", "1102")
	assert.Contains(t, out, "Imported 2 vouchers from 1 files (0 already posted)")
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "may.csv"))
	require.NoError(t, err)

	csv := mustRun(t, "treasury", "ledger", "--book", dir, "--account", "1102", "--format", "csv")
	assert.Contains(t, csv, "PAY-2024-05-001")
	assert.Contains(t, csv, "RCV-2024-05-001")
	assert.Contains(t, csv, ",,,Closing balance,,250.00,4.00,246.00")

	// The same export dropped in again posts nothing new.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "again.csv"), []byte(chaseCSV), 0o644))
	out = mustRun(t, "import", "chase", "--book", dir, "--account", "1102")
	assert.Contains(t, out, "Imported 0 vouchers from 1 files (2 already posted)")

	_, err = run(t, "import", "ofx", "--book", dir)
	assert.ErrorContains(t, err, "unknown import format")
}

func TestAmounts_Format(t *testing.T) {
	tests := []struct {
		locale string
		in     string
		want   string
	}{
		{"en-US", "1234567.895", "1,234,567.90"},
		{"en-US", "12345678901234567.01", "12,345,678,901,234,567.01"},
		{"en-US", "-0.5", "-0.50"},
		{"en-US", "0", "0.00"},
		{"de-DE", "1234.5", "1.234,50"},
		{"not a locale", "1000", "1,000.00"},
	}
	for _, tt := range tests {
		got := newAmounts(tt.locale).format(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.want, got, "%s %s", tt.locale, tt.in)
	}
}
