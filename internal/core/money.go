// Package core holds the domain model: transactions, categories, weekly
// reports, and the pure computations over them (time windows, aggregation,
// trends). All monetary arithmetic goes through shopspring/decimal so that
// amounts keep exact scale-2 semantics end to end.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the upper bound for a single transaction amount.
var MaxAmount = decimal.NewFromInt(1_000_000)

// ParseAmount converts a decimal string to an exact amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// normalizes the result to scale 2 with half-up rounding on the third
// decimal place. Returns ErrInvalidAmount for malformed or non-positive
// input and ErrAmountTooLarge above MaxAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,34")  -> 12.34, nil
//	ParseAmount("12.345") -> 12.35, nil (rounds up)
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// ValidateAmount enforces the amount invariant: strictly positive and at
// most MaxAmount.
func ValidateAmount(d decimal.Decimal) error {
	if d.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if d.Cmp(MaxAmount) > 0 {
		return ErrAmountTooLarge
	}
	return nil
}

// SumAmounts adds a slice of amounts exactly. Returns zero for an empty
// slice.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
