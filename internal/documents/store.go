// Package documents persists trade documents and treasury vouchers.
package documents

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Kinds lists the trade document kinds in file order.
var Kinds = []model.DocumentKind{
	model.KindSale,
	model.KindSaleReturn,
	model.KindPurchase,
	model.KindPurchaseReturn,
}

var fileNames = map[model.DocumentKind]string{
	model.KindSale:           "sales.csv",
	model.KindSaleReturn:     "sale-returns.csv",
	model.KindPurchase:       "purchases.csv",
	model.KindPurchaseReturn: "purchase-returns.csv",
}

// ErrPartyMismatch indicates a voucher with a party id but no kind, or the reverse.
var ErrPartyMismatch = errors.New("documents: party_id and party_kind must be set together")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Store holds every document of a book in file order.
type Store struct {
	Docs     map[model.DocumentKind][]model.Document
	Treasury []model.TreasuryTransaction
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{Docs: make(map[model.DocumentKind][]model.Document)}
}

// ValidateDocument checks a document's struct tags.
func ValidateDocument(d model.Document) error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%s %q: %w", d.Kind, d.ID, err)
	}
	return nil
}

// ValidateTreasury checks a voucher's struct tags and party pairing.
func ValidateTreasury(tx model.TreasuryTransaction) error {
	if err := validate.Struct(tx); err != nil {
		return fmt.Errorf("voucher %q: %w", tx.ID, err)
	}
	if (tx.PartyID == "") != (tx.PartyKind == "") {
		return fmt.Errorf("voucher %q: %w", tx.ID, ErrPartyMismatch)
	}
	return nil
}

// Dir returns the documents directory under a book root.
func Dir(root string) string {
	return filepath.Join(root, "documents")
}

// Load reads every document file under documents/. Missing files are
// empty.
func Load(root string) (*Store, error) {
	s := NewStore()
	for _, kind := range Kinds {
		var docs []model.Document
		err := readFile(filepath.Join(Dir(root), fileNames[kind]), func(r io.Reader) error {
			var err error
			docs, err = ReadDocuments(r, kind)
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			if err := ValidateDocument(d); err != nil {
				return nil, err
			}
		}
		s.Docs[kind] = docs
	}

	err := readFile(filepath.Join(Dir(root), "treasury.csv"), func(r io.Reader) error {
		var err error
		s.Treasury, err = ReadTreasury(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, tx := range s.Treasury {
		if err := ValidateTreasury(tx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save writes every document file under documents/.
func (s *Store) Save(root string) error {
	if err := os.MkdirAll(Dir(root), 0o755); err != nil {
		return fmt.Errorf("creating documents dir: %w", err)
	}
	for _, kind := range Kinds {
		docs := s.Docs[kind]
		err := writeFile(filepath.Join(Dir(root), fileNames[kind]), func(w io.Writer) error {
			return WriteDocuments(w, docs)
		})
		if err != nil {
			return err
		}
	}
	return writeFile(filepath.Join(Dir(root), "treasury.csv"), func(w io.Writer) error {
		return WriteTreasury(w, s.Treasury)
	})
}

// IDs returns every document and voucher id, for numbering.
func (s *Store) IDs() []string {
	var ids []string
	for _, kind := range Kinds {
		for _, d := range s.Docs[kind] {
			ids = append(ids, d.ID)
		}
	}
	for _, tx := range s.Treasury {
		ids = append(ids, tx.ID)
	}
	return ids
}

// ByParty returns the documents issued to a party, across kinds.
func (s *Store) ByParty(kind model.PartyKind, partyID string) []model.Document {
	var out []model.Document
	for _, dk := range Kinds {
		if dk.PartyKind() != kind {
			continue
		}
		for _, d := range s.Docs[dk] {
			if d.PartyID == partyID {
				out = append(out, d)
			}
		}
	}
	return out
}

// VouchersByParty returns the vouchers settling a party.
func (s *Store) VouchersByParty(kind model.PartyKind, partyID string) []model.TreasuryTransaction {
	var out []model.TreasuryTransaction
	for _, tx := range s.Treasury {
		if tx.PartyKind == kind && tx.PartyID == partyID {
			out = append(out, tx)
		}
	}
	return out
}

// VouchersByAccount returns the vouchers posted to a cash account.
func (s *Store) VouchersByAccount(accountID int) []model.TreasuryTransaction {
	var out []model.TreasuryTransaction
	for _, tx := range s.Treasury {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

func readFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
