// Package money holds the integer-peso arithmetic shared by the loan and report code.
// Amounts are whole pesos stored as int64; ratios go through shopspring/decimal.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ApplyFactor returns amount × factor rounded half away from zero to whole pesos.
func ApplyFactor(amount int64, factor decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(factor).Round(0).IntPart()
}

// Percent returns part/total × 100 rounded to two decimals; zero when total is zero.
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(part).Mul(hundred).
		DivRound(decimal.NewFromInt(total), 2).InexactFloat64()
}

// ClampedPercent is Percent bounded to [0, 100], for display values.
func ClampedPercent(part, total int64) float64 {
	p := Percent(part, total)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Growth returns the year-over-year growth percentage: 100 when the previous
// total is zero and the current is positive, 0 when both are zero.
func Growth(previous, current int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return Percent(current-previous, previous)
}
