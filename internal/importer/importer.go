// Package importer turns bank CSV exports into treasury voucher drafts.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/config"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// BankLine is one parsed row of a bank export.
type BankLine struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out, positive = money in
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
}

// Parser converts a bank CSV file into BankLines.
type Parser interface {
	Parse(r io.Reader) ([]BankLine, error)
	Format() string
}

// ErrUnknownBank is returned when no configured bank account matches.
var ErrUnknownBank = errors.New("unknown bank account")

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists registered parser names in order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	return r
}

const (
	importDir    = "import"
	processedDir = "import/processed"
)

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}
	if err := os.Rename(src, filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// BankAccountCode finds the chart code for a configured bank account,
// matched by name or last four digits. An empty key picks the only
// configured account, if there is exactly one.
func BankAccountCode(banks []config.BankAccount, key string) (string, error) {
	if key == "" {
		if len(banks) == 1 {
			return banks[0].AccountCode, nil
		}
		return "", fmt.Errorf("%w: %d configured, name one", ErrUnknownBank, len(banks))
	}
	for _, b := range banks {
		if strings.EqualFold(b.Name, key) || b.LastFour == key {
			return b.AccountCode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBank, key)
}

// Drafts converts bank lines into unassigned vouchers on accountID.
// Money in becomes a receipt and money out a payment. IDs are left for
// the book to assign; zero-amount lines are dropped.
func Drafts(lines []BankLine, accountID int) []model.TreasuryTransaction {
	out := make([]model.TreasuryTransaction, 0, len(lines))
	for _, l := range lines {
		if l.Amount.IsZero() {
			continue
		}
		typ := model.VoucherReceipt
		if l.Amount.IsNegative() {
			typ = model.VoucherPayment
		}
		out = append(out, model.TreasuryTransaction{
			Date:        l.Date,
			Type:        typ,
			AccountID:   accountID,
			Amount:      l.Amount,
			Description: l.Description,
		})
	}
	return out
}

type draftKey struct {
	day     string
	account int
	amount  string
	desc    string
}

func keyOf(tx model.TreasuryTransaction) draftKey {
	return draftKey{
		day:     tx.Date.Format(model.DateFormat),
		account: tx.AccountID,
		amount:  tx.Amount.StringFixed(2),
		desc:    strings.ToUpper(strings.TrimSpace(tx.Description)),
	}
}

// Dedupe drops drafts already present among existing vouchers, matching
// on day, account, amount and description. Archived vouchers do not
// count, so a line archived by mistake imports again. Repeats inside
// drafts are kept as long as existing holds fewer copies.
func Dedupe(existing, drafts []model.TreasuryTransaction) (fresh []model.TreasuryTransaction, skipped int) {
	seen := make(map[draftKey]int, len(existing))
	for _, tx := range existing {
		if !tx.Archived {
			seen[keyOf(tx)]++
		}
	}
	for _, d := range drafts {
		k := keyOf(d)
		if seen[k] > 0 {
			seen[k]--
			skipped++
			continue
		}
		fresh = append(fresh, d)
	}
	return fresh, skipped
}
