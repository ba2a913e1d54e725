package journal

import (
	"fmt"
	"time"
)

// TradeRecord is the audit form of a recorded trade.
type TradeRecord struct {
	TradeID  string
	Symbol   string
	Side     string
	Quantity int64
	Price    float64
	Time     time.Time
}

// Journal is a write-only audit trail of trades. It is never read back
// into the ledger.
type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error { return nil }
func (Nop) Close() error { return nil }

const (
	TypeNone   = "none"
	TypeCSV    = "csv"
	TypeSQLite = "sqlite"
)

// Open returns the journal named by kind. An empty kind means none.
func Open(kind, tradesFile, dbPath string) (Journal, error) {
	switch kind {
	case "", TypeNone:
		return Nop{}, nil
	case TypeCSV:
		return NewCSV(tradesFile)
	case TypeSQLite:
		return NewSQLite(dbPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", kind)
	}
}
