package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

func TestNewService(t *testing.T) {
	svc := NewService(DefaultChart("llc"))

	all := svc.All()
	require.NotEmpty(t, all)
	assert.Equal(t, "Assets", all[0].Name)
	assert.Equal(t, "Current assets", all[1].Name)
	assert.Equal(t, "Cash on hand", all[2].Name)
	assert.Len(t, DefaultChart("llc"), 5)
}

func TestGetExists(t *testing.T) {
	svc := NewService(DefaultChart("llc"))

	acct, ok := svc.Get(1101)
	assert.True(t, ok)
	assert.Equal(t, "Cash on hand", acct.Name)

	_, ok = svc.Get(9999)
	assert.False(t, ok)

	assert.True(t, svc.Exists(11))
	assert.False(t, svc.Exists(9999))
	assert.True(t, svc.IsLeaf(1101))
	assert.False(t, svc.IsLeaf(11))
	assert.False(t, svc.IsLeaf(9999))
}

func TestNameOf(t *testing.T) {
	svc := NewService(DefaultChart("llc"))
	assert.Equal(t, "Suppliers", svc.NameOf(2101))
	assert.Equal(t, UnknownName, svc.NameOf(42))
}

func TestByTypeAndLeaves(t *testing.T) {
	svc := NewService(DefaultChart("llc"))

	revenue := svc.ByType(model.AccountTypeRevenue)
	require.Len(t, revenue, 2)
	assert.Equal(t, "4101", revenue[0].Code)
	assert.Equal(t, "4102", revenue[1].Code)

	for _, leaf := range svc.Leaves() {
		assert.True(t, leaf.IsLeaf())
	}
	assert.Len(t, svc.ByType(model.AccountTypeAsset), 6)
}

func TestPathTo(t *testing.T) {
	svc := NewService(DefaultChart("llc"))
	path := svc.PathTo(1202)
	require.Len(t, path, 3)
	assert.Equal(t, []string{"1", "12", "1202"}, []string{path[0].Code, path[1].Code, path[2].Code})
	assert.Nil(t, svc.PathTo(7))
}

func TestSetBalance(t *testing.T) {
	svc := NewService(DefaultChart("llc"))

	require.NoError(t, svc.SetBalance(1101, decimal.NewFromInt(500)))
	bal, err := svc.Balance(1101)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(500)))

	assert.ErrorIs(t, svc.SetBalance(11, decimal.NewFromInt(1)), ErrNotLeaf)
	assert.ErrorIs(t, svc.SetBalance(42, decimal.NewFromInt(1)), ErrUnknownAccount)
	_, err = svc.Balance(42)
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	svc := NewService(DefaultChart("llc"))
	require.NoError(t, svc.SetBalance(1103, decimal.RequireFromString("12500")))

	require.NoError(t, svc.Save(root))
	_, err := os.Stat(filepath.Join(root, "accounts", "chart-of-accounts.csv"))
	require.NoError(t, err)

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Len(t, loaded.All(), len(svc.All()))

	bal, err := loaded.Balance(1103)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(12500)))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
