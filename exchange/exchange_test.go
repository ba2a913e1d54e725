package exchange

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/gbce/journal"
	"github.com/rustyeddy/gbce/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type memJournal struct {
	recs   []journal.TradeRecord
	err    error
	closed bool
}

func (m *memJournal) RecordTrade(r journal.TradeRecord) error {
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, r)
	return nil
}

func (m *memJournal) Close() error {
	m.closed = true
	return nil
}

func newTestExchange(t *testing.T, opts ...Option) (*Exchange, *clock, *observer.ObservedLogs) {
	t.Helper()

	clk := &clock{t: time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)}
	core, logs := observer.New(zapcore.DebugLevel)

	opts = append([]Option{WithLogger(zap.New(core)), WithClock(clk.Now)}, opts...)
	ex := New(market.DefaultCatalog(), market.NewLedger(market.WithClock(clk.Now)), opts...)
	return ex, clk, logs
}

func TestExchangeValuation(t *testing.T) {
	t.Parallel()

	ex, _, logs := newTestExchange(t)

	y, err := ex.DividendYield("GIN", 500)
	require.NoError(t, err)
	assert.InDelta(t, 0.004, y, 1e-12)

	r, err := ex.PERatio("JOE", 26)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, r, 1e-12)

	_, err = ex.DividendYield("XXX", 1)
	assert.ErrorIs(t, err, market.ErrNotFound)

	_, err = ex.PERatio("TEA", 1)
	assert.ErrorIs(t, err, market.ErrInvalidArgument)

	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestExchangeRecordTrade(t *testing.T) {
	t.Parallel()

	j := &memJournal{}
	ex, clk, logs := newTestExchange(t, WithJournal(j))

	trades := []struct {
		qty   int64
		dir   string
		price float64
	}{
		{10, "buy", 30},
		{20, "buy", 40},
		{30, "sell", 50},
		{40, "buy", 60},
	}
	for _, tr := range trades {
		clk.Advance(time.Minute)
		_, err := ex.RecordTrade("GIN", tr.qty, tr.dir, tr.price)
		require.NoError(t, err)
	}

	vwp, err := ex.VolumeWeightedPrice("GIN")
	require.NoError(t, err)
	assert.InDelta(t, 47.0, vwp, 1e-12)
	assert.InDelta(t, math.Pow(30*40*50*60, 0.25), ex.AllShareIndex(), 1e-9)

	require.Len(t, j.recs, 4)
	assert.Equal(t, "sell", j.recs[2].Side)
	assert.Equal(t, int64(30), j.recs[2].Quantity)
	assert.Len(t, j.recs[0].TradeID, 26)
	assert.Less(t, j.recs[0].TradeID, j.recs[3].TradeID)

	assert.Equal(t, 4, logs.FilterMessage("trade recorded").Len())

	assert.NoError(t, ex.Close())
	assert.True(t, j.closed)
}

func TestExchangeRecordTradeRejectsDirection(t *testing.T) {
	t.Parallel()

	j := &memJournal{}
	ex, _, _ := newTestExchange(t, WithJournal(j))

	for _, dir := range []string{"BUY", "hold", ""} {
		_, err := ex.RecordTrade("POP", 1, dir, 1)
		assert.ErrorIs(t, err, market.ErrInvalidArgument, dir)
	}
	assert.Equal(t, 0, ex.Ledger().CountFor("POP"))
	assert.Empty(t, j.recs)

	_, err := ex.RecordTrade("POP", 0, "buy", 1)
	assert.ErrorIs(t, err, market.ErrInvalidArgument)
	assert.Equal(t, 0, ex.Ledger().Count())
}

func TestExchangeRecordTradeJournalFailure(t *testing.T) {
	t.Parallel()

	j := &memJournal{err: errors.New("disk full")}
	ex, _, logs := newTestExchange(t, WithJournal(j))

	tr, err := ex.RecordTrade("ALE", 5, "sell", 12)
	require.NoError(t, err)
	assert.Equal(t, "ALE", tr.Symbol)
	assert.Equal(t, 1, ex.Ledger().CountFor("ALE"))

	// the failure is only logged, so the caller has no reason to retry
	errLogs := logs.FilterLevelExact(zapcore.ErrorLevel)
	require.Equal(t, 1, errLogs.Len())
	assert.Equal(t, "journal trade", errLogs.All()[0].Message)
	assert.Equal(t, "disk full", errLogs.All()[0].ContextMap()["error"])

	// a second, independent trade is recorded exactly once more
	_, err = ex.RecordTrade("ALE", 5, "sell", 12)
	require.NoError(t, err)
	assert.Equal(t, 2, ex.Ledger().CountFor("ALE"))
	assert.Empty(t, j.recs)
}

func TestExchangeWindow(t *testing.T) {
	t.Parallel()

	ex, clk, _ := newTestExchange(t, WithWindow(time.Minute))

	_, err := ex.RecordTrade("JOE", 1, "buy", 10)
	require.NoError(t, err)
	clk.Advance(2 * time.Minute)

	_, err = ex.VolumeWeightedPrice("JOE")
	assert.ErrorIs(t, err, market.ErrInvalidArgument)
	assert.InDelta(t, 10.0, ex.AllShareIndex(), 1e-12)
}

func TestExchangeAllShareIndexEdgeCases(t *testing.T) {
	t.Parallel()

	ex, _, _ := newTestExchange(t)
	assert.Equal(t, 1.0, ex.AllShareIndex())

	_, err := ex.RecordTrade("TEA", 1, "buy", 25)
	require.NoError(t, err)
	_, err = ex.RecordTrade("POP", 1, "sell", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ex.AllShareIndex())
}

func TestExchangeSummary(t *testing.T) {
	t.Parallel()

	ex, clk, _ := newTestExchange(t)

	_, err := ex.RecordTrade("POP", 10, "buy", 20)
	require.NoError(t, err)
	clk.Advance(time.Second)
	_, err = ex.RecordTrade("POP", 30, "sell", 40)
	require.NoError(t, err)

	rows := ex.Summary()
	require.Len(t, rows, 5)

	byName := map[string]InstrumentSummary{}
	for _, r := range rows {
		byName[r.Instrument.Symbol] = r
	}

	pop := byName["POP"]
	assert.Equal(t, 2, pop.Trades)
	assert.Equal(t, 40.0, pop.LastPrice)
	assert.True(t, pop.HasVWP)
	assert.InDelta(t, 35.0, pop.VWP, 1e-12)

	assert.Equal(t, 0, byName["TEA"].Trades)
	assert.False(t, byName["TEA"].HasVWP)
	assert.Equal(t, "ALE", rows[0].Instrument.Symbol)
}

func TestExchangeSQLiteJournal(t *testing.T) {
	t.Parallel()

	j, err := journal.NewSQLite(filepath.Join(t.TempDir(), "gbce.sqlite"))
	require.NoError(t, err)

	ex, _, _ := newTestExchange(t, WithJournal(j))
	tr, err := ex.RecordTrade("GIN", 7, "buy", 101.5)
	require.NoError(t, err)

	recs, err := j.ListTrades("GIN")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(7), recs[0].Quantity)
	assert.True(t, recs[0].Time.Equal(tr.Time))

	assert.NoError(t, ex.Close())
}
