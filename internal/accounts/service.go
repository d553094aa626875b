package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
	"github.com/ledgerbook-dev/ledgerbook/internal/tree"
)

// UnknownName labels ids that resolve to no account.
const UnknownName = "unknown"

var (
	// ErrUnknownAccount indicates an account id that is not in the chart.
	ErrUnknownAccount = errors.New("accounts: unknown account")
	// ErrDuplicateAccount indicates two accounts sharing an id.
	ErrDuplicateAccount = errors.New("accounts: duplicate account id")
	// ErrNotLeaf indicates a balance operation on a parent account.
	ErrNotLeaf = errors.New("accounts: account is not a leaf")
)

// Service provides in-memory lookup over the chart of accounts tree.
type Service struct {
	roots  []*model.Account
	byID   map[int]*model.Account
	byCode map[string]*model.Account
}

// NewService indexes a chart of accounts tree.
func NewService(roots []*model.Account) *Service {
	s := &Service{
		roots:  roots,
		byID:   make(map[int]*model.Account),
		byCode: make(map[string]*model.Account),
	}
	tree.Walk(roots, children, func(a *model.Account, _ int) bool {
		s.byID[a.ID] = a
		if a.Code != "" {
			s.byCode[a.Code] = a
		}
		return true
	})
	return s
}

// Path returns the chart-of-accounts file under a book root.
func Path(root string) string {
	return filepath.Join(root, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a book root and returns a Service.
func Load(root string) (*Service, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	roots, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(roots), nil
}

// All returns every account in pre-order.
func (s *Service) All() []*model.Account {
	return tree.Flatten(s.roots, children)
}

// Leaves returns the accounts that can carry postings, in pre-order.
func (s *Service) Leaves() []*model.Account {
	return tree.Leaves(s.roots, children)
}

// Get returns an account by ID.
func (s *Service) Get(id int) (*model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// GetByCode returns an account by its code.
func (s *Service) GetByCode(code string) (*model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// IsLeaf reports whether id names an existing leaf account.
func (s *Service) IsLeaf(id int) bool {
	a, ok := s.byID[id]
	return ok && a.IsLeaf()
}

// NameOf returns the account name, or "unknown" for a dangling id.
func (s *Service) NameOf(id int) string {
	if a, ok := s.byID[id]; ok {
		return a.Name
	}
	return UnknownName
}

// ByType returns the leaf accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []*model.Account {
	return tree.Filter(s.roots, children, func(a *model.Account) bool {
		return a.IsLeaf() && a.Type == accountType
	})
}

// PathTo returns the accounts from the root down to id, inclusive.
func (s *Service) PathTo(id int) []*model.Account {
	return tree.Path(s.roots, children, func(a *model.Account) bool { return a.ID == id })
}

// Balance returns the cached balance of a leaf account.
func (s *Service) Balance(id int) (decimal.Decimal, error) {
	a, ok := s.byID[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrUnknownAccount, id)
	}
	if !a.IsLeaf() {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrNotLeaf, id)
	}
	return a.BalanceOrZero(), nil
}

// SetBalance replaces the cached balance of a leaf account.
func (s *Service) SetBalance(id int, balance decimal.Decimal) error {
	a, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAccount, id)
	}
	if !a.IsLeaf() {
		return fmt.Errorf("%w: %d", ErrNotLeaf, id)
	}
	a.Balance = &balance
	return nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(root string) error {
	dir := filepath.Join(root, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(Path(root))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.roots); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
