package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnits converts a backend decimal total (major currency units, e.g.
// "4.00") into the gateway's integer minor-unit amount using the currency's
// decimal exponent (2 for cent-based currencies: "4.00" → 400).
//
// Decimal arithmetic throughout; backend totals must never pass through
// floats. A total with more precision than the exponent allows is rejected
// rather than rounded.
func MinorUnits(total string, exp int) (int64, error) {
	d, err := decimal.NewFromString(total)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", total, err)
	}

	shifted := d.Shift(int32(exp))
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-minor-unit precision for exponent %d", total, exp)
	}

	return shifted.IntPart(), nil
}
