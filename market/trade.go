package market

import (
	"fmt"
	"time"
)

// Side is the direction of a trade.
type Side int

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide accepts exactly "buy" or "sell". The token is expected to be
// lower case already.
func ParseSide(s string) (Side, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("indicator: %s invalid, either buy or sell: %w", s, ErrInvalidArgument)
}

// Trade is immutable once recorded.
type Trade struct {
	Symbol   string
	Time     time.Time // second resolution
	Quantity int64
	Side     Side
	Price    float64
}

// Notional is quantity times price.
func (t Trade) Notional() float64 {
	return float64(t.Quantity) * t.Price
}
