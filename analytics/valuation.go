package analytics

import (
	"fmt"

	"github.com/rustyeddy/gbce/market"
)

// Valuer computes per-stock valuation metrics from catalog data and a
// supplied price. It never touches the ledger.
type Valuer struct {
	catalog *market.Catalog
}

func NewValuer(c *market.Catalog) *Valuer {
	return &Valuer{catalog: c}
}

// DividendYield is LastDividend/price for Common stock and
// FixedDividend% * ParValue / price for Preferred stock.
func (v *Valuer) DividendYield(symbol string, price float64) (float64, error) {
	inst, err := v.catalog.Lookup(symbol)
	if err != nil {
		return 0, err
	}
	if price == 0 {
		return 0, fmt.Errorf("cannot calculate dividend yield for stock %s: %w", symbol, market.ErrInvalidArgument)
	}

	switch inst.Type {
	case market.Common:
		return inst.LastDividend / price, nil
	case market.Preferred:
		return inst.FixedDividend * 0.01 * inst.ParValue / price, nil
	default:
		return 0, fmt.Errorf("stock %s has unknown type %v: %w", symbol, inst.Type, market.ErrInvalidArgument)
	}
}

// PERatio is price over the last dividend.
func (v *Valuer) PERatio(symbol string, price float64) (float64, error) {
	inst, err := v.catalog.Lookup(symbol)
	if err != nil {
		return 0, err
	}
	if inst.LastDividend == 0 {
		return 0, fmt.Errorf("cannot calculate p2e ratio for stock %s: %w", symbol, market.ErrInvalidArgument)
	}
	return price / inst.LastDividend, nil
}
