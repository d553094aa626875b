// Package book is the in-memory data layer of a ledgerbook directory. It
// loads every file, resolves references, and is the only place cached
// balances are written.
package book

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ledgerbook-dev/ledgerbook/internal/accounts"
	"github.com/ledgerbook-dev/ledgerbook/internal/config"
	"github.com/ledgerbook-dev/ledgerbook/internal/documents"
	"github.com/ledgerbook-dev/ledgerbook/internal/journal"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
	"github.com/ledgerbook-dev/ledgerbook/internal/parties"
)

var (
	// ErrNotFound indicates an id that matches no record.
	ErrNotFound = errors.New("book: record not found")
	// ErrUnknownParty indicates posting against a party that is not registered.
	ErrUnknownParty = errors.New("book: unknown party")
	// ErrUnknownAccount indicates an account code or id missing from the chart.
	ErrUnknownAccount = errors.New("book: unknown account")
	// ErrSameAccount indicates a voucher whose cash and counter sides are one account.
	ErrSameAccount = errors.New("book: voucher counter account is its cash account")
	// ErrArchived indicates an edit of an archived record.
	ErrArchived = errors.New("book: record is archived")
	// ErrNotEditable indicates an edit the record cannot take.
	ErrNotEditable = errors.New("book: record cannot be edited that way")
)

// Book is a loaded ledgerbook directory.
type Book struct {
	Root      string
	Config    *config.Config
	Accounts  *accounts.Service
	Parties   *parties.Service
	Documents *documents.Store
	Entries   []model.JournalEntry

	routes routes
	logger *slog.Logger
}

// routes are the account ids postings are generated against.
type routes struct {
	customers       int
	suppliers       int
	treasury        int
	sales           int
	salesReturns    int
	purchases       int
	purchaseReturns int
	suspense        int
}

// Create writes a new, empty book at root with the default chart of
// accounts and loads it.
func Create(root string, cfg *config.Config, logger *slog.Logger) (*Book, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating book dir: %w", err)
	}
	if err := config.Save(config.Path(root), cfg); err != nil {
		return nil, err
	}
	parts, err := parties.NewService(nil, nil)
	if err != nil {
		return nil, err
	}
	b := &Book{
		Root:      root,
		Config:    cfg,
		Accounts:  accounts.NewService(accounts.DefaultChart(cfg.Business.EntityType)),
		Parties:   parts,
		Documents: documents.NewStore(),
		logger:    logger,
	}
	if err := b.resolveRoutes(); err != nil {
		return nil, err
	}
	if err := b.Save(); err != nil {
		return nil, err
	}
	logger.Info("book created", "root", root, "business", cfg.Business.Name)
	return b, nil
}

// Load reads the book at root. Journal invariants and every party effect
// are checked; dangling party references are logged and kept.
func Load(root string, logger *slog.Logger) (*Book, error) {
	cfg, err := config.LoadBook(root)
	if err != nil {
		return nil, err
	}
	accts, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}
	parts, err := parties.Load(root)
	if err != nil {
		return nil, err
	}
	docs, err := documents.Load(root)
	if err != nil {
		return nil, err
	}
	entries, err := journal.NewService(root).ReadAll()
	if err != nil {
		return nil, err
	}

	b := &Book{
		Root:      root,
		Config:    cfg,
		Accounts:  accts,
		Parties:   parts,
		Documents: docs,
		Entries:   entries,
		logger:    logger,
	}
	if err := b.resolveRoutes(); err != nil {
		return nil, err
	}
	if err := journal.Join(journal.ValidateEntries(entries, accts)); err != nil {
		return nil, fmt.Errorf("loading journal: %w", err)
	}
	if err := b.checkReferences(); err != nil {
		return nil, err
	}

	logger.Debug("book loaded",
		"root", root,
		"accounts", len(accts.All()),
		"customers", len(parts.Customers()),
		"suppliers", len(parts.Suppliers()),
		"entries", len(entries),
		"vouchers", len(docs.Treasury),
	)
	return b, nil
}

// Save writes every file of the book.
func (b *Book) Save() error {
	if err := config.Save(config.Path(b.Root), b.Config); err != nil {
		return err
	}
	if err := b.Accounts.Save(b.Root); err != nil {
		return err
	}
	if err := b.Parties.Save(b.Root); err != nil {
		return err
	}
	if err := b.Documents.Save(b.Root); err != nil {
		return err
	}
	return journal.NewService(b.Root).WriteAll(b.Entries)
}

// Logger returns the book's logger.
func (b *Book) Logger() *slog.Logger {
	return b.logger
}

func (b *Book) resolveRoutes() error {
	codes := b.Config.Accounts
	for _, r := range []struct {
		code string
		dst  *int
	}{
		{codes.Customers, &b.routes.customers},
		{codes.Suppliers, &b.routes.suppliers},
		{codes.Treasury, &b.routes.treasury},
		{codes.Sales, &b.routes.sales},
		{codes.SalesReturns, &b.routes.salesReturns},
		{codes.Purchases, &b.routes.purchases},
		{codes.PurchaseReturns, &b.routes.purchaseReturns},
		{codes.Suspense, &b.routes.suspense},
	} {
		id, err := b.AccountIDByCode(r.code)
		if err != nil {
			return fmt.Errorf("resolving configured accounts: %w", err)
		}
		*r.dst = id
	}
	return nil
}

// AccountIDByCode resolves an account code to a leaf account id.
func (b *Book) AccountIDByCode(code string) (int, error) {
	a, ok := b.Accounts.GetByCode(code)
	if !ok {
		return 0, fmt.Errorf("%w: code %q", ErrUnknownAccount, code)
	}
	if !a.IsLeaf() {
		return 0, fmt.Errorf("%w: %s", accounts.ErrNotLeaf, code)
	}
	return a.ID, nil
}

// ControlAccount returns the receivable or payable control account id.
func (b *Book) ControlAccount(kind model.PartyKind) int {
	if kind == model.PartySupplier {
		return b.routes.suppliers
	}
	return b.routes.customers
}

// TreasuryAccount returns the default cash account id.
func (b *Book) TreasuryAccount() int {
	return b.routes.treasury
}

// SuspenseAccount returns the counter account for unclassified vouchers.
func (b *Book) SuspenseAccount() int {
	return b.routes.suspense
}

// checkReferences normalizes every party effect so that a broken record
// fails at load rather than mid-report, and logs dangling party ids.
func (b *Book) checkReferences() error {
	for _, kind := range []model.PartyKind{model.PartyCustomer, model.PartySupplier} {
		seen := make(map[string]bool)
		for _, id := range b.partyIDsReferenced(kind) {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, ok := b.Parties.Get(kind, id); !ok {
				b.logger.Warn("dangling party reference", "kind", kind, "party_id", id)
			}
			if _, err := b.PartyTransactions(kind, id); err != nil {
				return fmt.Errorf("checking %s %q: %w", kind, id, err)
			}
		}
	}
	for _, tx := range b.Documents.Treasury {
		if !b.Accounts.IsLeaf(tx.AccountID) {
			b.logger.Warn("voucher on unknown account", "id", tx.ID, "account_id", tx.AccountID)
		}
	}
	return nil
}

func (b *Book) partyIDsReferenced(kind model.PartyKind) []string {
	var ids []string
	for _, dk := range documents.Kinds {
		if dk.PartyKind() != kind {
			continue
		}
		for _, d := range b.Documents.Docs[dk] {
			ids = append(ids, d.PartyID)
		}
	}
	for _, tx := range b.Documents.Treasury {
		if tx.PartyKind == kind {
			ids = append(ids, tx.PartyID)
		}
	}
	for _, e := range b.Entries {
		if e.IsNote() && e.PartyKind == kind {
			ids = append(ids, e.PartyID)
		}
	}
	return ids
}

// AddParty registers a customer or supplier. A non-zero Balance is an
// opening balance carried over from before the book started; statements
// infer it back from the history.
func (b *Book) AddParty(p model.Party) error {
	if err := b.Parties.Add(p); err != nil {
		return err
	}
	b.logger.Info("party added", "kind", p.Kind, "id", p.ID, "opening_balance", p.Balance.StringFixed(2))
	return nil
}
