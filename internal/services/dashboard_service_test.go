package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/core"
)

func seedDashboard(t *testing.T, store *fakeStore) {
	t.Helper()
	ctx := context.Background()
	food, _ := store.CreateCategory(ctx, core.Category{Name: "Food"})
	rent, _ := store.CreateCategory(ctx, core.Category{Name: "Rent"})

	seed := []struct {
		amount string
		catID  int64
		at     time.Time
	}{
		// Previous month (February 2026).
		{"200.00", rent.ID, time.Date(2026, 2, 10, 12, 0, 0, 0, time.Local)},
		// Current month, current week (week of Monday 2026-03-09).
		{"60.00", food.ID, time.Date(2026, 3, 9, 9, 0, 0, 0, time.Local)},
		{"40.00", rent.ID, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)},
		// Current month, earlier week.
		{"100.00", food.ID, time.Date(2026, 3, 3, 9, 0, 0, 0, time.Local)},
	}
	for _, s := range seed {
		if _, err := store.CreateTransaction(ctx, core.Transaction{
			Amount:     decimal.RequireFromString(s.amount),
			CategoryID: s.catID,
			CreatedAt:  s.at,
		}); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
}

func TestGetSummary(t *testing.T) {
	store := newFakeStore()
	seedDashboard(t, store)
	svc := NewDashboardService(store, testLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 11, 15, 0, 0, 0, time.Local) }

	got, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if !got.TotalSpent.Equal(decimal.RequireFromString("400.00")) {
		t.Errorf("TotalSpent = %s, want 400.00", got.TotalSpent)
	}
	if !got.CurrentMonthSpent.Equal(decimal.RequireFromString("200.00")) {
		t.Errorf("CurrentMonthSpent = %s, want 200.00", got.CurrentMonthSpent)
	}
	if !got.PreviousMonthSpent.Equal(decimal.RequireFromString("200.00")) {
		t.Errorf("PreviousMonthSpent = %s, want 200.00", got.PreviousMonthSpent)
	}
	if got.MonthlyTrend.Direction != core.TrendUp || got.MonthlyTrend.Percentage.Sign() != 0 {
		t.Errorf("MonthlyTrend = %+v, want flat up 0", got.MonthlyTrend)
	}

	week := got.CurrentWeek
	if !week.WeekStart.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)) {
		t.Errorf("WeekStart = %v", week.WeekStart)
	}
	if !week.Total.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("week Total = %s, want 100.00", week.Total)
	}
	if week.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", week.TransactionCount)
	}
	if week.CategoryCount != 2 {
		t.Errorf("CategoryCount = %d, want 2", week.CategoryCount)
	}
	// 100 / 7 rounded half-up at two decimals.
	if !week.DailyAverage.Equal(decimal.RequireFromString("14.29")) {
		t.Errorf("DailyAverage = %s, want 14.29", week.DailyAverage)
	}

	if len(got.TopCategories) != 2 {
		t.Fatalf("got %d category shares, want 2", len(got.TopCategories))
	}
	sum := decimal.Zero
	for _, share := range got.TopCategories {
		sum = sum.Add(share.Percentage)
	}
	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(decimal.RequireFromString("0.01")) {
		t.Errorf("shares sum to %s, want about 100", sum)
	}

	if len(got.RecentTransactions) != 4 {
		t.Errorf("got %d recent transactions, want 4", len(got.RecentTransactions))
	}
}

func TestGetSummaryEmptyStore(t *testing.T) {
	store := newFakeStore()
	svc := NewDashboardService(store, testLogger())

	got, err := svc.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary on empty store: %v", err)
	}
	if got.TotalSpent.Sign() != 0 {
		t.Errorf("TotalSpent = %s, want 0", got.TotalSpent)
	}
	if got.MonthlyTrend.Direction != core.TrendUp {
		t.Errorf("empty trend direction = %q, want up", got.MonthlyTrend.Direction)
	}
	if len(got.TopCategories) != 0 {
		t.Errorf("empty store produced %d category shares", len(got.TopCategories))
	}
}

func TestGetWeeklyTrend(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	cat, _ := store.CreateCategory(ctx, core.Category{Name: "Food"})

	// Two weeks: 80 then 60+40, a 25% increase.
	store.CreateTransaction(ctx, core.Transaction{
		Amount: decimal.RequireFromString("80.00"), CategoryID: cat.ID,
		CreatedAt: time.Date(2026, 3, 3, 9, 0, 0, 0, time.Local),
	})
	store.CreateTransaction(ctx, core.Transaction{
		Amount: decimal.RequireFromString("60.00"), CategoryID: cat.ID,
		CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local),
	})
	store.CreateTransaction(ctx, core.Transaction{
		Amount: decimal.RequireFromString("40.00"), CategoryID: cat.ID,
		CreatedAt: time.Date(2026, 3, 12, 9, 0, 0, 0, time.Local),
	})

	svc := NewDashboardService(store, testLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 11, 15, 0, 0, 0, time.Local) }

	got, err := svc.GetWeeklyTrend(ctx, 4)
	if err != nil {
		t.Fatalf("GetWeeklyTrend: %v", err)
	}
	if len(got.Points) != 4 {
		t.Fatalf("got %d points, want 4", len(got.Points))
	}
	for i := 1; i < len(got.Points); i++ {
		if !got.Points[i].WeekStart.After(got.Points[i-1].WeekStart) {
			t.Errorf("points not oldest-first at index %d", i)
		}
	}
	last := got.Points[len(got.Points)-1]
	if last.Label != "Mar 09" {
		t.Errorf("last label = %q, want Mar 09", last.Label)
	}
	if !last.Total.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("last total = %s, want 100.00", last.Total)
	}
	if last.TransactionCount != 2 {
		t.Errorf("last TransactionCount = %d, want 2", last.TransactionCount)
	}
	if prev := got.Points[len(got.Points)-2]; prev.TransactionCount != 1 {
		t.Errorf("previous TransactionCount = %d, want 1", prev.TransactionCount)
	}
	if empty := got.Points[0]; empty.TransactionCount != 0 {
		t.Errorf("empty week TransactionCount = %d, want 0", empty.TransactionCount)
	}
	if got.Change.Direction != core.TrendUp {
		t.Errorf("Change.Direction = %q, want up", got.Change.Direction)
	}
	if !got.Change.Percentage.Equal(decimal.RequireFromString("25")) {
		t.Errorf("Change.Percentage = %s, want 25", got.Change.Percentage)
	}
}
