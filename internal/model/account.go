package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the five known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// Account is a node in the chart-of-accounts tree.
//
// Only leaf accounts carry a balance; parent nodes are aggregation labels
// and keep Balance nil.
type Account struct {
	ID       int
	Code     string
	Name     string
	Type     AccountType
	ParentID int // 0 for roots
	Balance  *decimal.Decimal
	Children []*Account
}

// IsLeaf reports whether the account has no children.
func (a *Account) IsLeaf() bool {
	return len(a.Children) == 0
}

// BalanceOrZero returns the cached balance, or zero for parent nodes.
func (a *Account) BalanceOrZero() decimal.Decimal {
	if a.Balance == nil {
		return decimal.Zero
	}
	return *a.Balance
}
