package accounts

import (
	"strconv"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

// Well-known account codes in the default chart.
const (
	CodeCashOnHand      = "1101"
	CodeBank            = "1102"
	CodeCustomers       = "1103"
	CodeInventory       = "1104"
	CodeSuppliers       = "2101"
	CodeSuspense        = "2103"
	CodeCapital         = "3101"
	CodeSales           = "4101"
	CodeSalesReturns    = "4102"
	CodePurchases       = "5101"
	CodePurchaseReturns = "5102"
)

// DefaultChart returns the default chart of accounts for an entity type.
// Every call builds a fresh tree.
func DefaultChart(entityType string) []*model.Account {
	switch entityType {
	case "sole_proprietor", "partnership", "llc":
		return tradingChart()
	default:
		return tradingChart()
	}
}

func tradingChart() []*model.Account {
	asset, liability, equity := model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity
	revenue, expense := model.AccountTypeRevenue, model.AccountTypeExpense

	return []*model.Account{
		group("1", "Assets", asset,
			group("11", "Current assets", asset,
				leaf(CodeCashOnHand, "Cash on hand", asset),
				leaf(CodeBank, "Bank", asset),
				leaf(CodeCustomers, "Customers", asset),
				leaf(CodeInventory, "Inventory", asset),
			),
			group("12", "Fixed assets", asset,
				leaf("1201", "Equipment", asset),
				leaf("1202", "Accumulated depreciation", asset),
			),
		),
		group("2", "Liabilities", liability,
			group("21", "Current liabilities", liability,
				leaf(CodeSuppliers, "Suppliers", liability),
				leaf("2102", "Accrued expenses", liability),
				leaf(CodeSuspense, "Suspense", liability),
			),
		),
		group("3", "Equity", equity,
			leaf(CodeCapital, "Capital", equity),
		),
		group("4", "Revenue", revenue,
			leaf(CodeSales, "Sales", revenue),
			leaf(CodeSalesReturns, "Sales returns", revenue),
		),
		group("5", "Expenses", expense,
			leaf(CodePurchases, "Purchases", expense),
			leaf(CodePurchaseReturns, "Purchase returns", expense),
			leaf("5103", "Rent", expense),
			leaf("5104", "Salaries", expense),
			leaf("5105", "Depreciation", expense),
		),
	}
}

func leaf(code, name string, typ model.AccountType) *model.Account {
	id, _ := strconv.Atoi(code)
	return &model.Account{ID: id, Code: code, Name: name, Type: typ, Balance: zeroBalance()}
}

func group(code, name string, typ model.AccountType, kids ...*model.Account) *model.Account {
	id, _ := strconv.Atoi(code)
	for _, k := range kids {
		k.ParentID = id
	}
	return &model.Account{ID: id, Code: code, Name: name, Type: typ, Children: kids}
}
