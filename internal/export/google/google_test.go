package google

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/core"
)

func TestBuildRows(t *testing.T) {
	report := core.WeeklyReport{
		ID:          3,
		WeekStart:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:     time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		TotalSpent:  decimal.RequireFromString("100.00"),
		GeneratedAt: time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC),
		Breakdowns: []core.CategorySpending{
			{CategoryName: "Food", AmountSpent: decimal.RequireFromString("75.00"), TxCount: 3},
			{CategoryName: "Transport", AmountSpent: decimal.RequireFromString("25.00"), TxCount: 1},
		},
	}

	rows := buildRows(report)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	summary := rows[0]
	if summary[0] != "2026-03-02" || summary[1] != "2026-03-08" {
		t.Errorf("summary week columns = %v, %v", summary[0], summary[1])
	}
	if summary[2] != "TOTAL" || summary[3] != "100.00" {
		t.Errorf("summary total columns = %v, %v", summary[2], summary[3])
	}

	food := rows[1]
	if food[2] != "Food" || food[3] != "75.00" || food[4] != 3 {
		t.Errorf("food row = %v", food)
	}
	if food[5] != "75.00" {
		t.Errorf("food percentage = %v, want 75.00", food[5])
	}
}

func TestBuildRowsEmptyWeek(t *testing.T) {
	report := core.WeeklyReport{
		WeekStart:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		WeekEnd:     time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		TotalSpent:  decimal.Zero,
		GeneratedAt: time.Now(),
	}
	rows := buildRows(report)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0][3] != "0.00" {
		t.Errorf("zero total rendered as %v", rows[0][3])
	}
}
