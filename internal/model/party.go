package model

import "github.com/shopspring/decimal"

// PartyKind distinguishes customers from suppliers.
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartySupplier PartyKind = "supplier"
)

// Valid reports whether k is customer or supplier.
func (k PartyKind) Valid() bool {
	return k == PartyCustomer || k == PartySupplier
}

// Party is a customer or supplier.
//
// Balance is the cached current net position. For customers a positive
// balance means they owe the business; for suppliers it means the
// business owes them.
type Party struct {
	ID      string          `validate:"required"`
	Kind    PartyKind       `validate:"required,oneof=customer supplier"`
	Name    string          `validate:"required"`
	Phone   string          `validate:"omitempty,max=32"`
	Email   string          `validate:"omitempty,email"`
	Address string
	Balance decimal.Decimal
}
