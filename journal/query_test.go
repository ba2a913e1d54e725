package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTrades(t *testing.T, j *SQLite) []TradeRecord {
	t.Helper()

	base := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	recs := []TradeRecord{
		{TradeID: "A1", Symbol: "GIN", Side: "buy", Quantity: 10, Price: 30, Time: base},
		{TradeID: "A2", Symbol: "POP", Side: "sell", Quantity: 5, Price: 12.5, Time: base.Add(time.Minute)},
		{TradeID: "A3", Symbol: "GIN", Side: "sell", Quantity: 20, Price: 40, Time: base.Add(24 * time.Hour)},
	}
	for _, r := range recs {
		require.NoError(t, j.RecordTrade(r))
	}
	return recs
}

func TestGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	recs := seedTrades(t, j)

	got, err := j.GetTrade("A2")
	require.NoError(t, err)

	want := recs[1]
	assert.Equal(t, want.TradeID, got.TradeID)
	assert.Equal(t, want.Symbol, got.Symbol)
	assert.Equal(t, want.Side, got.Side)
	assert.Equal(t, want.Quantity, got.Quantity)
	assert.InDelta(t, want.Price, got.Price, 1e-9)
	assert.True(t, got.Time.Equal(want.Time))
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetTrade("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListTrades(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	seedTrades(t, j)

	all, err := j.ListTrades("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A1", all[0].TradeID)
	assert.Equal(t, "A3", all[2].TradeID)

	gin, err := j.ListTrades("GIN")
	require.NoError(t, err)
	require.Len(t, gin, 2)
	assert.Equal(t, "A1", gin[0].TradeID)
	assert.Equal(t, "A3", gin[1].TradeID)

	none, err := j.ListTrades("ALE")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListTradesBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	seedTrades(t, j)

	start := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	got, err := j.ListTradesBetween(start, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0].TradeID)
	assert.Equal(t, "A2", got[1].TradeID)
}
