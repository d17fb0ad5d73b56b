package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Transaction is an immutable monetary event. CategoryID is a
	// non-owning reference; CategoryName is denormalized at fetch time and
	// empty when the category has since been deleted.
	Transaction struct {
		ID           int64
		Amount       decimal.Decimal
		CategoryID   int64
		CategoryName string
		Note         string
		CreatedAt    time.Time
		UpdatedAt    time.Time // zero until the transaction is amended
	}

	// Category is a named grouping. Name uniqueness is case-insensitive
	// and enforced at the storage boundary.
	Category struct {
		ID          int64
		Name        string
		Description string
		CreatedAt   time.Time
	}

	// WeeklyReport is an idempotent snapshot of one Monday-aligned week.
	// It owns its breakdowns; deleting the report deletes them too.
	WeeklyReport struct {
		ID          int64
		WeekStart   time.Time // Monday, date precision
		WeekEnd     time.Time // WeekStart + 6 days
		TotalSpent  decimal.Decimal
		GeneratedAt time.Time
		Breakdowns  []CategorySpending
	}

	// CategorySpending is the per-category slice of a weekly report,
	// unique per (report, category) pair.
	CategorySpending struct {
		ID           int64
		ReportID     int64
		CategoryID   int64
		CategoryName string
		AmountSpent  decimal.Decimal
		TxCount      int
	}
)

func (t Transaction) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return &ValidationError{Field: "amount", Reason: err}
	}
	if len(t.Note) > 255 {
		return &ValidationError{Field: "note", Reason: ErrNoteTooLong}
	}
	return nil
}

// ValidateCategoryName trims the name and checks it against the length
// bounds, returning the normalized form.
func ValidateCategoryName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: "category", Reason: ErrEmptyCategoryName}
	}
	if len(trimmed) > 50 {
		return "", &ValidationError{Field: "category", Reason: ErrCategoryNameTooLong}
	}
	return trimmed, nil
}

// TotalFromBreakdowns sums the breakdown amounts. When every transaction of
// the week still has a live category this equals TotalSpent; orphaned
// transactions count toward TotalSpent only.
func (r WeeklyReport) TotalFromBreakdowns() decimal.Decimal {
	total := decimal.Zero
	for _, b := range r.Breakdowns {
		total = total.Add(b.AmountSpent)
	}
	return total
}

// AveragePerTransaction is the mean spent per transaction in this category,
// half-up at two decimals, zero when the category had no transactions.
func (cs CategorySpending) AveragePerTransaction() decimal.Decimal {
	if cs.TxCount == 0 {
		return decimal.Zero
	}
	return cs.AmountSpent.DivRound(decimal.NewFromInt(int64(cs.TxCount)), 2)
}

// PercentageOf returns this category's share of weekTotal as a percentage,
// ratio rounded half-up at four decimals before scaling. Zero when the week
// total is zero.
func (cs CategorySpending) PercentageOf(weekTotal decimal.Decimal) decimal.Decimal {
	if weekTotal.Sign() == 0 {
		return decimal.Zero
	}
	return cs.AmountSpent.DivRound(weekTotal, 4).Mul(decimal.NewFromInt(100))
}
