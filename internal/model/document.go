package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind identifies a trade document.
type DocumentKind string

const (
	KindSale           DocumentKind = "sale"
	KindSaleReturn     DocumentKind = "sale_return"
	KindPurchase       DocumentKind = "purchase"
	KindPurchaseReturn DocumentKind = "purchase_return"
)

// PartyKind returns the kind of party the document is issued to.
func (k DocumentKind) PartyKind() PartyKind {
	switch k {
	case KindPurchase, KindPurchaseReturn:
		return PartySupplier
	default:
		return PartyCustomer
	}
}

// IsReturn reports whether the document reverses a sale or purchase.
func (k DocumentKind) IsReturn() bool {
	return k == KindSaleReturn || k == KindPurchaseReturn
}

// Document is a sale, sale return, purchase or purchase return.
// Amount is the positive document total.
type Document struct {
	ID          string       `validate:"required"`
	Kind        DocumentKind `validate:"required,oneof=sale sale_return purchase purchase_return"`
	Date        time.Time    `validate:"required"`
	PartyID     string       `validate:"required"`
	Amount      decimal.Decimal
	Description string
	Reference   string
	Archived    bool
}

// VoucherType distinguishes treasury receipts from payments.
type VoucherType string

const (
	VoucherReceipt VoucherType = "receipt"
	VoucherPayment VoucherType = "payment"
)

// TreasuryTransaction is a receipt or payment voucher on a cash account.
// Amount is signed: receipts positive, payments negative.
type TreasuryTransaction struct {
	ID          string      `validate:"required"`
	Date        time.Time   `validate:"required"`
	Type        VoucherType `validate:"required,oneof=receipt payment"`
	AccountID   int         `validate:"required,gt=0"`
	Amount      decimal.Decimal
	PartyID     string
	PartyKind   PartyKind `validate:"omitempty,oneof=customer supplier"`
	Description string
	Archived    bool
}
