package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Service reads and writes the monthly journal files of a book.
type Service struct {
	root string
}

// NewService creates a journal Service rooted at a book directory.
func NewService(root string) *Service {
	return &Service{root: root}
}

// DoubleParams holds parameters for a two-line journal entry.
type DoubleParams struct {
	ID            string
	Date          time.Time
	Description   string
	DebitAccount  model.JournalLine // Debit/Credit amounts are ignored
	CreditAccount model.JournalLine
	Amount        decimal.Decimal
	Status        model.EntryStatus
	PartyID       string
	PartyKind     model.PartyKind
	NoteType      model.NoteType
}

// NewDouble builds a balanced entry: one debit line and one credit line of
// the same amount.
func NewDouble(p DoubleParams) model.JournalEntry {
	debit := p.DebitAccount
	debit.Debit, debit.Credit = p.Amount, decimal.Zero
	credit := p.CreditAccount
	credit.Debit, credit.Credit = decimal.Zero, p.Amount

	status := p.Status
	if status == "" {
		status = model.StatusPosted
	}
	return model.JournalEntry{
		ID:          p.ID,
		Date:        p.Date,
		Description: p.Description,
		Debit:       p.Amount,
		Credit:      p.Amount,
		Lines:       []model.JournalLine{debit, credit},
		Status:      status,
		PartyID:     p.PartyID,
		PartyKind:   p.PartyKind,
		NoteType:    p.NoteType,
	}
}

// ReadMonth reads all entries for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.JournalEntry, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return entries, nil
}

// ReadAll reads every monthly journal under journal/, oldest month first.
func (s *Service) ReadAll() ([]model.JournalEntry, error) {
	months, err := s.months()
	if err != nil {
		return nil, err
	}
	var all []model.JournalEntry
	for _, ym := range months {
		entries, err := s.ReadMonth(ym[0], ym[1])
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// WriteAll rewrites the monthly journal files from entries. Month files
// that no longer hold any entry are removed.
func (s *Service) WriteAll(entries []model.JournalEntry) error {
	existing, err := s.months()
	if err != nil {
		return err
	}
	byMonth := make(map[[2]int][]model.JournalEntry)
	var order [][2]int
	for _, e := range entries {
		key := [2]int{e.Date.Year(), int(e.Date.Month())}
		if _, ok := byMonth[key]; !ok {
			order = append(order, key)
		}
		byMonth[key] = append(byMonth[key], e)
	}
	for _, key := range order {
		if err := s.writeMonth(key[0], key[1], byMonth[key]); err != nil {
			return err
		}
	}
	for _, key := range existing {
		if _, ok := byMonth[key]; ok {
			continue
		}
		if err := os.Remove(s.monthPath(key[0], key[1])); err != nil {
			return fmt.Errorf("removing stale journal: %w", err)
		}
	}
	return nil
}

func (s *Service) writeMonth(year, month int, entries []model.JournalEntry) error {
	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating journal %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteEntries(f, entries); err != nil {
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	return nil
}

// months lists the year/month directories holding a journal, sorted.
func (s *Service) months() ([][2]int, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, "journal", "[0-9][0-9][0-9][0-9]", "[0-9][0-9]", "journal.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}
	var out [][2]int
	for _, m := range matches {
		monthDir := filepath.Dir(m)
		year, err1 := strconv.Atoi(filepath.Base(filepath.Dir(monthDir)))
		month, err2 := strconv.Atoi(filepath.Base(monthDir))
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, [2]int{year, month})
	}
	slices.SortFunc(out, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return out, nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.root, "journal", fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
