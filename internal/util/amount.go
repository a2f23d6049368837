package util

import (
	"github.com/shopspring/decimal"
)

// Amount formats an amount given in minor currency units as the decimal
// string the processors expect (e.g. 10000 -> "100.00"). Two-exponent
// currencies only; zero-decimal currencies are not in scope for either
// processor integration.
func Amount(minorUnits int64) string {
	return decimal.New(minorUnits, -2).StringFixed(2)
}
