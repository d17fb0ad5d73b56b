package core

import "github.com/shopspring/decimal"

const (
	TrendUp   = "up"
	TrendDown = "down"
)

// TrendData is a signed direction with an unsigned percentage magnitude.
type TrendData struct {
	Direction  string          `json:"direction"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Trend compares two period totals and derives the percentage change.
//
// A zero previous period is a degenerate but defined case, not an error:
// it always yields {up, 0} so a first month never divides by zero. The
// ratio is rounded half-up at four decimals before scaling to a
// percentage and taking the magnitude; direction is up when the change is
// non-negative.
func Trend(current, previous decimal.Decimal) TrendData {
	if previous.Sign() == 0 {
		return TrendData{Direction: TrendUp, Percentage: decimal.Zero}
	}
	pct := current.Sub(previous).DivRound(previous, 4).Mul(decimal.NewFromInt(100))
	direction := TrendUp
	if pct.Sign() < 0 {
		direction = TrendDown
	}
	return TrendData{Direction: direction, Percentage: pct.Abs()}
}
