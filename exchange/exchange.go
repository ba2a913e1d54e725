// Package exchange is the entry point used by the command line tools. It
// ties the catalog, the ledger, the metric engines and the trade journal
// together behind string-typed operations.
package exchange

import (
	"time"

	"github.com/rustyeddy/gbce/analytics"
	"github.com/rustyeddy/gbce/internal/id"
	"github.com/rustyeddy/gbce/journal"
	"github.com/rustyeddy/gbce/market"
	"go.uber.org/zap"
)

type Exchange struct {
	catalog *market.Catalog
	ledger  *market.Ledger
	valuer  *analytics.Valuer
	agg     *analytics.Aggregator
	journal journal.Journal
	log     *zap.Logger
}

type options struct {
	journal journal.Journal
	log     *zap.Logger
	window  time.Duration
	now     func() time.Time
}

type Option func(*options)

func WithJournal(j journal.Journal) Option {
	return func(o *options) { o.journal = j }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithWindow sets the volume weighted price look-back.
func WithWindow(d time.Duration) Option {
	return func(o *options) { o.window = d }
}

// WithClock sets the evaluation clock for window checks. The ledger
// stamps trades with its own clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(c *market.Catalog, l *market.Ledger, opts ...Option) *Exchange {
	o := options{
		journal: journal.Nop{},
		log:     zap.NewNop(),
		window:  analytics.DefaultWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Exchange{
		catalog: c,
		ledger:  l,
		valuer:  analytics.NewValuer(c),
		agg:     analytics.NewAggregator(l, analytics.WithWindow(o.window), analytics.WithNow(o.now)),
		journal: o.journal,
		log:     o.log,
	}
}

func (e *Exchange) Catalog() *market.Catalog { return e.catalog }

func (e *Exchange) Ledger() *market.Ledger { return e.ledger }

func (e *Exchange) DividendYield(symbol string, price float64) (float64, error) {
	y, err := e.valuer.DividendYield(symbol, price)
	if err != nil {
		e.log.Warn("dividend yield failed", zap.String("symbol", symbol), zap.Float64("price", price), zap.Error(err))
		return 0, err
	}
	e.log.Debug("dividend yield", zap.String("symbol", symbol), zap.Float64("price", price), zap.Float64("yield", y))
	return y, nil
}

func (e *Exchange) PERatio(symbol string, price float64) (float64, error) {
	r, err := e.valuer.PERatio(symbol, price)
	if err != nil {
		e.log.Warn("p/e ratio failed", zap.String("symbol", symbol), zap.Float64("price", price), zap.Error(err))
		return 0, err
	}
	e.log.Debug("p/e ratio", zap.String("symbol", symbol), zap.Float64("price", price), zap.Float64("ratio", r))
	return r, nil
}

// RecordTrade appends a trade to the ledger and journals it. direction is
// "buy" or "sell". The symbol is not checked against the catalog. Once
// the ledger accepts the trade the call succeeds; a journal failure is
// only logged so a retry cannot record the trade twice.
func (e *Exchange) RecordTrade(symbol string, qty int64, direction string, price float64) (market.Trade, error) {
	side, err := market.ParseSide(direction)
	if err != nil {
		e.log.Warn("record trade rejected", zap.String("symbol", symbol), zap.String("direction", direction), zap.Error(err))
		return market.Trade{}, err
	}

	t, err := e.ledger.Record(symbol, qty, side, price)
	if err != nil {
		e.log.Warn("record trade rejected", zap.String("symbol", symbol), zap.Int64("quantity", qty), zap.Float64("price", price), zap.Error(err))
		return market.Trade{}, err
	}

	rec := journal.TradeRecord{
		TradeID:  id.At(t.Time),
		Symbol:   t.Symbol,
		Side:     t.Side.String(),
		Quantity: t.Quantity,
		Price:    t.Price,
		Time:     t.Time,
	}
	if err := e.journal.RecordTrade(rec); err != nil {
		e.log.Error("journal trade", zap.String("trade_id", rec.TradeID), zap.String("symbol", t.Symbol), zap.Error(err))
	}

	e.log.Info("trade recorded",
		zap.String("trade_id", rec.TradeID),
		zap.String("symbol", t.Symbol),
		zap.Stringer("side", t.Side),
		zap.Int64("quantity", t.Quantity),
		zap.Float64("price", t.Price),
	)
	return t, nil
}

func (e *Exchange) VolumeWeightedPrice(symbol string) (float64, error) {
	p, err := e.agg.VolumeWeightedPrice(symbol)
	if err != nil {
		e.log.Warn("volume weighted price failed", zap.String("symbol", symbol), zap.Error(err))
		return 0, err
	}
	e.log.Debug("volume weighted price", zap.String("symbol", symbol), zap.Float64("vwp", p))
	return p, nil
}

func (e *Exchange) AllShareIndex() float64 {
	idx := e.agg.AllShareIndex()
	e.log.Debug("all share index", zap.Int("trades", e.ledger.Count()), zap.Float64("index", idx))
	return idx
}

// InstrumentSummary is one row of the market overview.
type InstrumentSummary struct {
	Instrument market.Instrument
	Trades     int
	LastPrice  float64
	// VWP is only meaningful when HasVWP is set.
	VWP    float64
	HasVWP bool
}

// Summary reports every catalog instrument in symbol order.
func (e *Exchange) Summary() []InstrumentSummary {
	out := make([]InstrumentSummary, 0, e.catalog.Len())
	for _, sym := range e.catalog.Symbols() {
		inst, _ := e.catalog.Lookup(sym)
		s := InstrumentSummary{Instrument: inst}

		trades := e.ledger.TradesFor(sym)
		s.Trades = len(trades)
		if len(trades) > 0 {
			s.LastPrice = trades[0].Price
		}
		if p, err := e.agg.VolumeWeightedPrice(sym); err == nil {
			s.VWP, s.HasVWP = p, true
		}
		out = append(out, s)
	}
	return out
}

// Close flushes and closes the journal.
func (e *Exchange) Close() error {
	return e.journal.Close()
}
