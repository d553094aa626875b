package book

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerbook-dev/ledgerbook/internal/id"
	"github.com/ledgerbook-dev/ledgerbook/internal/ledger"
	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// PartyEffects lists every record that moves a party's balance: trade
// documents, settling vouchers and manual notes.
func (b *Book) PartyEffects(kind model.PartyKind, partyID string) []ledger.Effect {
	var effects []ledger.Effect
	for _, d := range b.Documents.ByParty(kind, partyID) {
		if d.Kind.IsReturn() {
			effects = append(effects, ledger.ReturnEffect{Doc: d})
		} else {
			effects = append(effects, ledger.SaleEffect{Doc: d})
		}
	}
	for _, tx := range b.Documents.VouchersByParty(kind, partyID) {
		effects = append(effects, ledger.VoucherEffect{Tx: tx})
	}
	for _, e := range b.Entries {
		if e.IsNote() && e.PartyKind == kind && e.PartyID == partyID {
			effects = append(effects, ledger.NoteEffect{Entry: e, ControlAccountID: b.ControlAccount(kind)})
		}
	}
	return effects
}

// PartyTransactions normalizes a party's history, archived records included.
func (b *Book) PartyTransactions(kind model.PartyKind, partyID string) ([]ledger.Transaction, error) {
	return ledger.NormalizeAll(b.PartyEffects(kind, partyID))
}

// PartyBalance returns the cached balance, zero for an unregistered id.
func (b *Book) PartyBalance(kind model.PartyKind, partyID string) decimal.Decimal {
	p, ok := b.Parties.Get(kind, partyID)
	if !ok {
		return decimal.Zero
	}
	return p.Balance
}

// AccountTransactions normalizes every journal line posted to accountID.
func (b *Book) AccountTransactions(accountID int) ([]ledger.Transaction, error) {
	var effects []ledger.Effect
	for _, e := range b.Entries {
		for i, l := range e.Lines {
			if l.AccountID == accountID {
				effects = append(effects, ledger.LineEffect{Entry: e, Index: i})
			}
		}
	}
	return ledger.NormalizeAll(effects)
}

// TreasuryTransactions lists the movements of a cash account: its vouchers,
// plus any other journal lines posted to it so the history reconciles with
// the account balance.
func (b *Book) TreasuryTransactions(accountID int) ([]ledger.Transaction, error) {
	vouchers := b.Documents.VouchersByAccount(accountID)
	isVoucher := make(map[string]bool, len(vouchers))
	effects := make([]ledger.Effect, 0, len(vouchers))
	for _, tx := range vouchers {
		isVoucher[tx.ID] = true
		effects = append(effects, ledger.TreasuryEffect{Tx: tx})
	}
	for _, e := range b.Entries {
		if isVoucher[e.ID] {
			continue
		}
		for i, l := range e.Lines {
			if l.AccountID == accountID {
				effects = append(effects, ledger.LineEffect{Entry: e, Index: i})
			}
		}
	}
	return ledger.NormalizeAll(effects)
}

// AccountBalance returns the cached balance of a leaf account, zero for a
// dangling id.
func (b *Book) AccountBalance(accountID int) decimal.Decimal {
	bal, err := b.Accounts.Balance(accountID)
	if err != nil {
		return decimal.Zero
	}
	return bal
}

// accountState rebuilds the reducer state of a leaf account. Lines are
// keyed by line id so an entry touching the account twice stays distinct.
func (b *Book) accountState(accountID int) (ledger.State, error) {
	var txs []ledger.Transaction
	for _, e := range b.Entries {
		for i, l := range e.Lines {
			if l.AccountID != accountID {
				continue
			}
			tx, err := ledger.Normalize(ledger.LineEffect{Entry: e, Index: i})
			if err != nil {
				return ledger.State{}, err
			}
			tx.ID = id.FormatLegID(e.ID, i)
			txs = append(txs, tx)
		}
	}
	return ledger.State{Balance: b.AccountBalance(accountID), Transactions: txs}, nil
}

func (b *Book) partyState(kind model.PartyKind, partyID string) (ledger.State, error) {
	txs, err := b.PartyTransactions(kind, partyID)
	if err != nil {
		return ledger.State{}, err
	}
	return ledger.State{Balance: b.PartyBalance(kind, partyID), Transactions: txs}, nil
}

// ids lists every id issued in the book, for numbering.
func (b *Book) ids() []string {
	all := b.Documents.IDs()
	for _, e := range b.Entries {
		all = append(all, e.ID)
	}
	return all
}

func (b *Book) exists(recordID string) bool {
	for _, existing := range b.ids() {
		if existing == recordID {
			return true
		}
	}
	return false
}
