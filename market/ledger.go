package market

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// Ledger is an append-only, per-symbol trade store. Each symbol's trades
// are kept ascending by timestamp; trades sharing a timestamp keep their
// insertion order.
type Ledger struct {
	mu     sync.RWMutex
	trades map[string][]Trade
	count  int
	now    func() time.Time
}

type LedgerOption func(*Ledger)

// WithClock replaces the wall clock used to stamp new trades.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		trades: make(map[string][]Trade),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record stamps a trade with the current time and appends it to the
// symbol's sequence. A rejected trade leaves the ledger untouched.
func (l *Ledger) Record(symbol string, qty int64, side Side, price float64) (Trade, error) {
	if side != Buy && side != Sell {
		return Trade{}, fmt.Errorf("record trade: side %d: %w", int(side), ErrInvalidArgument)
	}
	if qty <= 0 {
		return Trade{}, fmt.Errorf("record trade: quantity %d must be positive: %w", qty, ErrInvalidArgument)
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return Trade{}, fmt.Errorf("record trade: price %v must be a non-negative number: %w", price, ErrInvalidArgument)
	}

	t := Trade{
		Symbol:   symbol,
		Time:     l.now().Truncate(time.Second),
		Quantity: qty,
		Side:     side,
		Price:    price,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.trades[symbol]
	// upper bound keeps ties in insertion order
	i := sort.Search(len(seq), func(i int) bool { return seq[i].Time.After(t.Time) })
	seq = append(seq, Trade{})
	copy(seq[i+1:], seq[i:])
	seq[i] = t
	l.trades[symbol] = seq
	l.count++

	return t, nil
}

// TradesFor returns a copy of the symbol's trades, most recent first.
func (l *Ledger) TradesFor(symbol string) []Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seq := l.trades[symbol]
	out := make([]Trade, len(seq))
	for i, t := range seq {
		out[len(seq)-1-i] = t
	}
	return out
}

// All returns a snapshot of every symbol's trades in ascending time order.
func (l *Ledger) All() map[string][]Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string][]Trade, len(l.trades))
	for sym, seq := range l.trades {
		cp := make([]Trade, len(seq))
		copy(cp, seq)
		out[sym] = cp
	}
	return out
}

// Count returns the number of trades across all symbols.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

func (l *Ledger) CountFor(symbol string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades[symbol])
}

// Symbols lists the symbols that have at least one trade, sorted.
func (l *Ledger) Symbols() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.trades))
	for s := range l.trades {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
