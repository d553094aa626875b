package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

func TestRoundTrip(t *testing.T) {
	bal := decimal.RequireFromString("481700.50")
	roots := []*model.Account{
		{ID: 1, Code: "1", Name: "Assets", Type: model.AccountTypeAsset, Children: []*model.Account{
			{ID: 1101, Code: "1101", Name: "Cash on hand", Type: model.AccountTypeAsset, ParentID: 1, Balance: &bal},
			{ID: 1102, Code: "1102", Name: "Bank", Type: model.AccountTypeAsset, ParentID: 1},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, roots))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assets := got[0]
	assert.Equal(t, "Assets", assets.Name)
	assert.Nil(t, assets.Balance, "parent nodes carry no balance")
	require.Len(t, assets.Children, 2)

	cash := assets.Children[0]
	assert.Equal(t, 1101, cash.ID)
	assert.Equal(t, "1101", cash.Code)
	assert.Equal(t, 1, cash.ParentID)
	require.NotNil(t, cash.Balance)
	assert.True(t, cash.Balance.Equal(bal))

	bank := assets.Children[1]
	require.NotNil(t, bank.Balance, "leaf without balance is written as zero")
	assert.True(t, bank.Balance.IsZero())
}

func TestReadAccounts_KeepsFileOrder(t *testing.T) {
	in := strings.Join([]string{
		"account_id,code,name,type,parent_id,balance",
		"5,5,Expenses,expense,,",
		"5104,5104,Salaries,expense,5,0.00",
		"5103,5103,Rent,expense,5,0.00",
	}, "\n")

	got, err := ReadAccounts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Children, 2)
	assert.Equal(t, "Salaries", got[0].Children[0].Name)
	assert.Equal(t, "Rent", got[0].Children[1].Name)
}

func TestReadAccounts_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"unknown parent", []string{"9,9,Orphan,asset,42,0"}},
		{"duplicate id", []string{"1,1,A,asset,,0", "1,1,B,asset,,0"}},
		{"bad type", []string{"1,1,A,cash,,0"}},
		{"bad balance", []string{"1,1,A,asset,,abc"}},
		{"nan balance", []string{"1,1,A,asset,,NaN"}},
		{"bad id", []string{"x,1,A,asset,,0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "account_id,code,name,type,parent_id,balance\n" + strings.Join(tt.rows, "\n")
			_, err := ReadAccounts(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart("sole_proprietor")
	require.Len(t, chart, 5)

	svc := NewService(chart)
	for _, code := range []string{CodeCashOnHand, CodeBank, CodeCustomers, CodeSuppliers, CodeSales, CodePurchases} {
		acct, ok := svc.GetByCode(code)
		require.True(t, ok, "expected account %s", code)
		assert.True(t, acct.IsLeaf(), "account %s should be a leaf", code)
		require.NotNil(t, acct.Balance)
	}

	// Verify all accounts have a name and a valid type.
	for _, acct := range svc.All() {
		assert.NotEmpty(t, acct.Name, "account %d missing name", acct.ID)
		assert.True(t, acct.Type.Valid(), "account %d has type %q", acct.ID, acct.Type)
	}
}

func TestDefaultChart_FreshTree(t *testing.T) {
	a := DefaultChart("llc")
	b := DefaultChart("unknown_type")
	a[0].Name = "changed"
	assert.Equal(t, "Assets", b[0].Name)
}

func TestDefaultChartRoundTrip(t *testing.T) {
	chart := DefaultChart("llc")

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, chart))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)

	want := NewService(chart).All()
	have := NewService(got).All()
	require.Len(t, have, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, have[i].ID)
		assert.Equal(t, want[i].Code, have[i].Code)
		assert.Equal(t, want[i].Name, have[i].Name)
		assert.Equal(t, want[i].Type, have[i].Type)
		assert.Equal(t, want[i].ParentID, have[i].ParentID)
		assert.Equal(t, want[i].IsLeaf(), have[i].IsLeaf())
	}
}
