package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPeriodStatement_PostPeriodTransaction(t *testing.T) {
	txs := []Transaction{
		tx("T1", date(2024, 5, 10), "100"),
		tx("T2", date(2024, 5, 20), "200"),
	}
	ps := BuildPeriodStatement(dec("1000"), txs, date(2024, 5, 1), date(2024, 5, 15))

	assert.True(t, ps.Closing.Equal(dec("800")), "closing = %s", ps.Closing)
	assert.True(t, ps.Opening.Equal(dec("700")), "opening = %s", ps.Opening)
	require.Len(t, ps.Rows, 1)
	assert.Equal(t, "T1", ps.Rows[0].ID)
	assert.True(t, ps.Rows[0].Balance.Equal(dec("800")))
}

func TestBuildPeriodStatement_TreasuryScenario(t *testing.T) {
	txs := []Transaction{
		tx("RCV-2024-05-017", date(2024, 5, 17), "3200"),
	}
	ps := BuildPeriodStatement(dec("481700"), txs, date(2024, 5, 1), date(2024, 5, 16))

	assert.True(t, ps.Closing.Equal(dec("478500")), "closing = %s", ps.Closing)
	assert.True(t, ps.Opening.Equal(dec("478500")))
	assert.Empty(t, ps.Rows)
	assert.True(t, ps.TotalIn.IsZero())
	assert.True(t, ps.TotalOut.IsZero())
}

func TestBuildPeriodStatement_Totals(t *testing.T) {
	txs := []Transaction{
		tx("T0", date(2024, 4, 30), "50"), // before the period
		tx("T1", date(2024, 5, 2), "400"),
		tx("T2", date(2024, 5, 3), "-150"),
		tx("T3", date(2024, 5, 31), "-50"),
		tx("T4", date(2024, 6, 1), "1000"), // after the period
	}
	ps := BuildPeriodStatement(dec("5000"), txs, date(2024, 5, 1), date(2024, 5, 31))

	assert.True(t, ps.Closing.Equal(dec("4000")))
	assert.True(t, ps.Opening.Equal(dec("3800")))
	assert.True(t, ps.TotalIn.Equal(dec("400")))
	assert.True(t, ps.TotalOut.Equal(dec("200")))
	assert.Equal(t, []string{"T1", "T2", "T3"}, ids(ps.Rows))
	assert.Equal(t, []string{"4200", "4050", "4000"}, balances(ps.Rows))
	assert.True(t, ps.Opening.Add(ps.TotalIn).Sub(ps.TotalOut).Equal(ps.Closing))
}

func TestBuildPeriodStatement_BoundariesInclusive(t *testing.T) {
	txs := []Transaction{
		tx("START", date(2024, 5, 1), "10"),
		tx("END", date(2024, 5, 31), "20"),
	}
	ps := BuildPeriodStatement(dec("30"), txs, date(2024, 5, 1), date(2024, 5, 31))
	assert.Equal(t, []string{"START", "END"}, ids(ps.Rows))
	assert.True(t, ps.Opening.IsZero())
}

func TestBuildPeriodStatement_InvertedPeriodIsEmpty(t *testing.T) {
	txs := []Transaction{
		tx("T1", date(2024, 5, 10), "100"),
		tx("T2", date(2024, 5, 20), "200"),
	}
	ps := BuildPeriodStatement(dec("1000"), txs, date(2024, 5, 15), date(2024, 5, 12))

	assert.Empty(t, ps.Rows)
	assert.True(t, ps.Closing.Equal(dec("800")))
	assert.True(t, ps.Opening.Equal(ps.Closing))
}

func TestBuildPeriodStatement_SkipsArchived(t *testing.T) {
	late := tx("T2", date(2024, 5, 20), "200")
	late.Archived = true
	inside := tx("T1", date(2024, 5, 10), "100")
	inside.Archived = true

	ps := BuildPeriodStatement(dec("1000"), []Transaction{inside, late}, date(2024, 5, 1), date(2024, 5, 15))
	assert.True(t, ps.Closing.Equal(dec("1000")))
	assert.True(t, ps.Opening.Equal(dec("1000")))
	assert.Empty(t, ps.Rows)
}
