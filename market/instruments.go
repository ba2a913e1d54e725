package market

import (
	"fmt"
	"sort"
	"strings"
)

// InstrumentType distinguishes the two dividend formulas.
type InstrumentType int

const (
	Common InstrumentType = iota + 1
	Preferred
)

func (t InstrumentType) String() string {
	switch t {
	case Common:
		return "common"
	case Preferred:
		return "preferred"
	default:
		return fmt.Sprintf("InstrumentType(%d)", int(t))
	}
}

// ParseInstrumentType accepts "common" or "preferred" in any case.
func ParseInstrumentType(s string) (InstrumentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common":
		return Common, nil
	case "preferred":
		return Preferred, nil
	}
	return 0, fmt.Errorf("instrument type %q: %w", s, ErrInvalidArgument)
}

func (t InstrumentType) MarshalText() ([]byte, error) {
	if t != Common && t != Preferred {
		return nil, fmt.Errorf("instrument type %d: %w", int(t), ErrInvalidArgument)
	}
	return []byte(t.String()), nil
}

func (t *InstrumentType) UnmarshalText(b []byte) error {
	v, err := ParseInstrumentType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Instrument is the static reference data for one stock.
// LastDividend is meaningful for Common stock, FixedDividend (a
// percentage of ParValue) for Preferred.
type Instrument struct {
	Symbol        string         `json:"symbol" yaml:"symbol"`
	Type          InstrumentType `json:"type" yaml:"type"`
	LastDividend  float64        `json:"last_dividend" yaml:"last_dividend"`
	FixedDividend float64        `json:"fixed_dividend,omitempty" yaml:"fixed_dividend,omitempty"`
	ParValue      float64        `json:"par_value" yaml:"par_value"`
}

func (i Instrument) Validate() error {
	if i.Symbol == "" {
		return fmt.Errorf("instrument symbol is required: %w", ErrInvalidArgument)
	}
	if i.Type != Common && i.Type != Preferred {
		return fmt.Errorf("instrument %s: unknown type: %w", i.Symbol, ErrInvalidArgument)
	}
	if i.LastDividend < 0 || i.FixedDividend < 0 {
		return fmt.Errorf("instrument %s: dividends must not be negative: %w", i.Symbol, ErrInvalidArgument)
	}
	if i.ParValue <= 0 {
		return fmt.Errorf("instrument %s: par value must be positive: %w", i.Symbol, ErrInvalidArgument)
	}
	return nil
}

// Catalog is read-only after construction.
type Catalog struct {
	instruments map[string]Instrument
}

func NewCatalog(instruments ...Instrument) (*Catalog, error) {
	c := &Catalog{instruments: make(map[string]Instrument, len(instruments))}
	for _, inst := range instruments {
		if err := inst.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.instruments[inst.Symbol]; dup {
			return nil, fmt.Errorf("instrument %s: duplicate symbol: %w", inst.Symbol, ErrInvalidArgument)
		}
		c.instruments[inst.Symbol] = inst
	}
	return c, nil
}

// Lookup matches the symbol exactly. Callers normalize case.
func (c *Catalog) Lookup(symbol string) (Instrument, error) {
	inst, ok := c.instruments[symbol]
	if !ok {
		return Instrument{}, fmt.Errorf("stock %s: %w", symbol, ErrNotFound)
	}
	return inst, nil
}

// Symbols returns the catalog symbols in sorted order.
func (c *Catalog) Symbols() []string {
	out := make([]string, 0, len(c.instruments))
	for s := range c.instruments {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Len() int { return len(c.instruments) }

// DefaultInstruments is the exchange's seed data.
func DefaultInstruments() []Instrument {
	return []Instrument{
		{Symbol: "TEA", Type: Common, LastDividend: 0, ParValue: 100},
		{Symbol: "POP", Type: Common, LastDividend: 8, ParValue: 100},
		{Symbol: "ALE", Type: Common, LastDividend: 23, ParValue: 60},
		{Symbol: "GIN", Type: Preferred, FixedDividend: 2, ParValue: 100},
		{Symbol: "JOE", Type: Common, LastDividend: 13, ParValue: 250},
	}
}

// DefaultCatalog builds a Catalog from DefaultInstruments.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultInstruments()...)
	if err != nil {
		// seed data is static
		panic(err)
	}
	return c
}
