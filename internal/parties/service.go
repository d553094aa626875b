// Package parties keeps the customer and supplier registers together with
// their cached balances.
package parties

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// UnknownName labels ids that resolve to no party.
const UnknownName = "unknown"

var (
	// ErrUnknownParty indicates a party id missing from its register.
	ErrUnknownParty = errors.New("parties: unknown party")
	// ErrDuplicateParty indicates adding a party whose id is taken.
	ErrDuplicateParty = errors.New("parties: duplicate party id")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Service holds customers and suppliers in file order.
type Service struct {
	customers []model.Party
	suppliers []model.Party
}

// NewService validates and indexes both registers.
func NewService(customers, suppliers []model.Party) (*Service, error) {
	s := &Service{}
	for _, p := range customers {
		p.Kind = model.PartyCustomer
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	for _, p := range suppliers {
		p.Kind = model.PartySupplier
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Validate checks a party's struct tags.
func Validate(p model.Party) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%s %q: %w", p.Kind, p.ID, err)
	}
	return nil
}

func (s *Service) list(kind model.PartyKind) *[]model.Party {
	if kind == model.PartySupplier {
		return &s.suppliers
	}
	return &s.customers
}

func (s *Service) index(kind model.PartyKind, id string) int {
	for i, p := range *s.list(kind) {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a validated party to its register.
func (s *Service) Add(p model.Party) error {
	if err := Validate(p); err != nil {
		return err
	}
	if s.index(p.Kind, p.ID) >= 0 {
		return fmt.Errorf("%w: %s %q", ErrDuplicateParty, p.Kind, p.ID)
	}
	list := s.list(p.Kind)
	*list = append(*list, p)
	return nil
}

// Get returns a party by kind and id.
func (s *Service) Get(kind model.PartyKind, id string) (model.Party, bool) {
	i := s.index(kind, id)
	if i < 0 {
		return model.Party{}, false
	}
	return (*s.list(kind))[i], true
}

// NameOf returns the party name, or "unknown" for a dangling id.
func (s *Service) NameOf(kind model.PartyKind, id string) string {
	if p, ok := s.Get(kind, id); ok {
		return p.Name
	}
	return UnknownName
}

// Customers returns the customer register.
func (s *Service) Customers() []model.Party { return s.customers }

// Suppliers returns the supplier register.
func (s *Service) Suppliers() []model.Party { return s.suppliers }

// SetBalance replaces a party's cached balance.
func (s *Service) SetBalance(kind model.PartyKind, id string, balance decimal.Decimal) error {
	i := s.index(kind, id)
	if i < 0 {
		return fmt.Errorf("%w: %s %q", ErrUnknownParty, kind, id)
	}
	(*s.list(kind))[i].Balance = balance
	return nil
}

// Path returns the register file for kind under a book root.
func Path(root string, kind model.PartyKind) string {
	name := "customers.csv"
	if kind == model.PartySupplier {
		name = "suppliers.csv"
	}
	return filepath.Join(root, "parties", name)
}

// Load reads both registers from a book root. Missing files are empty
// registers.
func Load(root string) (*Service, error) {
	customers, err := readFile(Path(root, model.PartyCustomer), model.PartyCustomer)
	if err != nil {
		return nil, err
	}
	suppliers, err := readFile(Path(root, model.PartySupplier), model.PartySupplier)
	if err != nil {
		return nil, err
	}
	return NewService(customers, suppliers)
}

func readFile(path string, kind model.PartyKind) ([]model.Party, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	parties, err := ReadParties(f, kind)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parties, nil
}

// Save writes both registers under parties/.
func (s *Service) Save(root string) error {
	if err := os.MkdirAll(filepath.Join(root, "parties"), 0o755); err != nil {
		return fmt.Errorf("creating parties dir: %w", err)
	}
	for _, kind := range []model.PartyKind{model.PartyCustomer, model.PartySupplier} {
		if err := writeFile(Path(root, kind), *s.list(kind)); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, parties []model.Party) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteParties(f, parties); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
