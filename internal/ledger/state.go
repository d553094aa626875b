package ledger

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// State is a cached balance together with the history that produced it.
// Reducers return a new State and never modify the one passed in.
type State struct {
	Balance      decimal.Decimal
	Transactions []Transaction
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.Transactions, func(t Transaction) bool { return t.ID == id })
}

func contribution(t Transaction) decimal.Decimal {
	if t.Archived {
		return decimal.Zero
	}
	return t.Amount
}

// ApplyTransaction appends tx and adds its effect to the balance.
// An archived tx is recorded without moving the balance.
func ApplyTransaction(s State, tx Transaction) (State, error) {
	if tx.ID == "" {
		return s, ErrMissingID
	}
	if s.index(tx.ID) >= 0 {
		return s, fmt.Errorf("%w: %q", ErrDuplicateTransaction, tx.ID)
	}
	txs := make([]Transaction, len(s.Transactions), len(s.Transactions)+1)
	copy(txs, s.Transactions)
	return State{
		Balance:      s.Balance.Add(contribution(tx)),
		Transactions: append(txs, tx),
	}, nil
}

// ArchiveTransaction flags the transaction with id as archived and removes
// its effect from the balance.
func ArchiveTransaction(s State, id string) (State, error) {
	i := s.index(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrTransactionNotFound, id)
	}
	old := s.Transactions[i]
	if old.Archived {
		return s, fmt.Errorf("%w: %q", ErrAlreadyArchived, id)
	}
	txs := slices.Clone(s.Transactions)
	txs[i].Archived = true
	return State{
		Balance:      s.Balance.Sub(old.Amount),
		Transactions: txs,
	}, nil
}

// ReplaceTransaction swaps the transaction sharing tx.ID for tx, moving the
// balance by the difference between the two effects.
func ReplaceTransaction(s State, tx Transaction) (State, error) {
	i := s.index(tx.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %q", ErrTransactionNotFound, tx.ID)
	}
	old := s.Transactions[i]
	txs := slices.Clone(s.Transactions)
	txs[i] = tx
	return State{
		Balance:      s.Balance.Sub(contribution(old)).Add(contribution(tx)),
		Transactions: txs,
	}, nil
}
