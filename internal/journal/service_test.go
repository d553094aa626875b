package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-dev/ledgerbook/internal/model"
)

func TestWriteAll_SplitsByMonth(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir)

	feb := rent("JV-2025-02-001", "20")
	feb.Date = date(2025, 2, 3)
	entries := []model.JournalEntry{rent("JV-2025-01-001", "10"), feb}
	require.NoError(t, svc.WriteAll(entries))

	for _, month := range []string{"01", "02"} {
		_, err := os.Stat(filepath.Join(dir, "journal", "2025", month, "journal.csv"))
		require.NoError(t, err)
	}

	jan, err := svc.ReadMonth(2025, 1)
	require.NoError(t, err)
	require.Len(t, jan, 1)
	assert.Equal(t, "JV-2025-01-001", jan[0].ID)
}

func TestReadAll_OldestMonthFirst(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir)

	dec2024 := rent("JV-2024-12-001", "5")
	dec2024.Date = date(2024, 12, 31)
	require.NoError(t, svc.WriteAll([]model.JournalEntry{rent("JV-2025-01-001", "10"), dec2024}))

	all, err := svc.ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "JV-2024-12-001", all[0].ID)
	assert.Equal(t, "JV-2025-01-001", all[1].ID)
}

func TestWriteAll_RemovesEmptiedMonths(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir)

	feb := rent("JV-2025-02-001", "20")
	feb.Date = date(2025, 2, 3)
	require.NoError(t, svc.WriteAll([]model.JournalEntry{rent("JV-2025-01-001", "10"), feb}))

	feb.Date = date(2025, 1, 28)
	require.NoError(t, svc.WriteAll([]model.JournalEntry{rent("JV-2025-01-001", "10"), feb}))

	all, err := svc.ReadAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_, err = os.Stat(filepath.Join(dir, "journal", "2025", "02", "journal.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadMonth_Missing(t *testing.T) {
	svc := NewService(t.TempDir())
	entries, err := svc.ReadMonth(2025, 3)
	require.NoError(t, err)
	assert.Nil(t, entries)

	all, err := svc.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}
