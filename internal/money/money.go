// Package money holds the rounding rules for monetary amounts.
//
// All stored and user-facing amounts carry exactly 2 fraction digits.
// Intermediate products (unit price × quantity) keep full precision; rounding
// happens explicitly at the point of assignment, never deferred.
package money

import "github.com/shopspring/decimal"

// Round normalises an amount to 2 decimal places using half-up rounding.
// decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts this domain works with.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MulQty multiplies a unit amount by an integer quantity at full precision.
// Callers round the result when they assign it to a stored field.
func MulQty(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}
