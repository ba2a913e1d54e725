package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rustyeddy/gbce/market"
)

// DefaultWindow is the look-back used for the volume weighted price.
const DefaultWindow = 15 * time.Minute

// Aggregator derives market-wide metrics from the ledger.
type Aggregator struct {
	ledger *market.Ledger
	window time.Duration
	now    func() time.Time
}

type Option func(*Aggregator)

func WithWindow(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.window = d
		}
	}
}

// WithNow sets the clock used as the evaluation instant.
func WithNow(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

func NewAggregator(l *market.Ledger, opts ...Option) *Aggregator {
	a := &Aggregator{
		ledger: l,
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Window() time.Duration { return a.window }

// VolumeWeightedPrice is sum(q*p)/sum(q) over the symbol's trades inside
// the window. Trades exactly window old are included.
func (a *Aggregator) VolumeWeightedPrice(symbol string) (float64, error) {
	now := a.now()

	var num float64
	// float sum: quantities near MaxInt64 would overflow an integer total
	var den float64
	// newest first; the ledger is time ordered so the first stale trade ends the scan
	for _, t := range a.ledger.TradesFor(symbol) {
		if now.Sub(t.Time) > a.window {
			break
		}
		num += t.Notional()
		den += float64(t.Quantity)
	}

	if den == 0 {
		return 0, fmt.Errorf("cannot calculate volume weighted price for stock %s: no trades in the last %s: %w",
			symbol, a.window, market.ErrInvalidArgument)
	}
	return num / den, nil
}

// AllShareIndex is the geometric mean of every trade price in the ledger.
// One zero price makes the whole index zero; an empty ledger gives 1.
func (a *Aggregator) AllShareIndex() float64 {
	all := a.ledger.All()
	symbols := make([]string, 0, len(all))
	for sym := range all {
		symbols = append(symbols, sym)
	}
	// fixed order so repeated calls round identically
	sort.Strings(symbols)

	var prices []float64
	for _, sym := range symbols {
		for _, t := range all[sym] {
			if t.Price == 0 {
				return 0
			}
			prices = append(prices, t.Price)
		}
	}

	n := float64(len(prices))
	result := 1.0
	for _, p := range prices {
		// per factor root keeps the running product from overflowing
		result *= math.Pow(p, 1/n)
	}
	return result
}
