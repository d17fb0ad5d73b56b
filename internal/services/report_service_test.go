package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/core"
)

// seedWeek puts transactions into the week of Monday 2026-03-02.
func seedWeek(t *testing.T, store *fakeStore) {
	t.Helper()
	food, _ := store.CreateCategory(context.Background(), core.Category{Name: "Food"})
	rent, _ := store.CreateCategory(context.Background(), core.Category{Name: "Rent"})

	seed := []struct {
		amount string
		catID  int64
		at     time.Time
	}{
		{"25.00", food.ID, time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)},
		{"15.50", food.ID, time.Date(2026, 3, 4, 19, 0, 0, 0, time.Local)},
		{"800.00", rent.ID, time.Date(2026, 3, 5, 8, 0, 0, 0, time.Local)},
		// Outside the week, must not appear in the report.
		{"99.00", food.ID, time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)},
	}
	for _, s := range seed {
		if _, err := store.CreateTransaction(context.Background(), core.Transaction{
			Amount:     decimal.RequireFromString(s.amount),
			CategoryID: s.catID,
			CreatedAt:  s.at,
		}); err != nil {
			t.Fatalf("seed transaction: %v", err)
		}
	}
}

func TestGenerateWeeklyReport(t *testing.T) {
	store := newFakeStore()
	seedWeek(t, store)
	publisher := &fakePublisher{}
	svc := NewReportService(store, store, publisher, testLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 6, 0, 0, 0, time.Local) }

	// Any anchor inside the week names the same report.
	report, err := svc.GenerateWeeklyReport(context.Background(),
		time.Date(2026, 3, 4, 15, 30, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("GenerateWeeklyReport: %v", err)
	}

	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	if !report.WeekStart.Equal(wantStart) {
		t.Errorf("WeekStart = %v, want %v", report.WeekStart, wantStart)
	}
	if !report.WeekEnd.Equal(wantStart.AddDate(0, 0, 6)) {
		t.Errorf("WeekEnd = %v", report.WeekEnd)
	}
	if !report.TotalSpent.Equal(decimal.RequireFromString("840.50")) {
		t.Errorf("TotalSpent = %s, want 840.50", report.TotalSpent)
	}
	if len(report.Breakdowns) != 2 {
		t.Fatalf("got %d breakdowns, want 2", len(report.Breakdowns))
	}
	if !report.TotalFromBreakdowns().Equal(report.TotalSpent) {
		t.Errorf("breakdowns sum to %s, total is %s", report.TotalFromBreakdowns(), report.TotalSpent)
	}
	if len(publisher.published) != 1 {
		t.Errorf("published %d events, want 1", len(publisher.published))
	}
}

func TestGenerateWeeklyReportIdempotent(t *testing.T) {
	store := newFakeStore()
	seedWeek(t, store)
	svc := NewReportService(store, store, nil, testLogger())
	ctx := context.Background()

	anchor := time.Date(2026, 3, 3, 12, 0, 0, 0, time.Local)
	first, err := svc.GenerateWeeklyReport(ctx, anchor)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	// New spending after the snapshot must not change it.
	store.CreateTransaction(ctx, core.Transaction{
		Amount:    decimal.RequireFromString("500.00"),
		CreatedAt: time.Date(2026, 3, 6, 12, 0, 0, 0, time.Local),
	})

	second, err := svc.GenerateWeeklyReport(ctx, anchor)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second generate produced a new report: %d vs %d", second.ID, first.ID)
	}
	if !second.TotalSpent.Equal(first.TotalSpent) {
		t.Errorf("snapshot mutated: %s vs %s", second.TotalSpent, first.TotalSpent)
	}
}

func TestGenerateWeeklyReportConcurrentLoserRefetches(t *testing.T) {
	store := newFakeStore()
	seedWeek(t, store)
	svc := NewReportService(store, store, nil, testLogger())
	ctx := context.Background()

	anchor := time.Date(2026, 3, 3, 12, 0, 0, 0, time.Local)

	// Before our save lands, a concurrent generator wins the week.
	var winner core.WeeklyReport
	store.saveReportHook = func() {
		store.saveReportHook = nil
		var err error
		winner, err = store.SaveReport(ctx, core.WeeklyReport{
			WeekStart:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local),
			WeekEnd:     time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local),
			TotalSpent:  decimal.RequireFromString("840.50"),
			GeneratedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("winner SaveReport: %v", err)
		}
	}

	got, err := svc.GenerateWeeklyReport(ctx, anchor)
	if err != nil {
		t.Fatalf("GenerateWeeklyReport: %v", err)
	}
	if got.ID != winner.ID {
		t.Errorf("loser returned report %d, want winner's %d", got.ID, winner.ID)
	}
}

func TestGenerateWeeklyReportOrphanedSpending(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	food, _ := store.CreateCategory(ctx, core.Category{Name: "Food"})
	store.CreateTransaction(ctx, core.Transaction{
		Amount:     decimal.RequireFromString("10.00"),
		CategoryID: food.ID,
		CreatedAt:  time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local),
	})
	// Orphaned: its category no longer exists.
	store.CreateTransaction(ctx, core.Transaction{
		Amount:     decimal.RequireFromString("7.00"),
		CategoryID: 999,
		CreatedAt:  time.Date(2026, 3, 3, 9, 0, 0, 0, time.Local),
	})

	svc := NewReportService(store, store, nil, testLogger())
	report, err := svc.GenerateWeeklyReport(ctx, time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("GenerateWeeklyReport: %v", err)
	}

	if !report.TotalSpent.Equal(decimal.RequireFromString("17.00")) {
		t.Errorf("TotalSpent = %s, want 17.00 (orphans included)", report.TotalSpent)
	}
	if len(report.Breakdowns) != 1 {
		t.Fatalf("got %d breakdowns, want 1 (orphans excluded)", len(report.Breakdowns))
	}
	if !report.Breakdowns[0].AmountSpent.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("breakdown amount = %s, want 10.00", report.Breakdowns[0].AmountSpent)
	}
}

func TestGenerateWeeklyReportEmptyWeek(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, store, nil, testLogger())

	report, err := svc.GenerateWeeklyReport(context.Background(),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("GenerateWeeklyReport: %v", err)
	}
	if report.TotalSpent.Sign() != 0 {
		t.Errorf("TotalSpent = %s, want 0", report.TotalSpent)
	}
	if len(report.Breakdowns) != 0 {
		t.Errorf("empty week produced %d breakdowns", len(report.Breakdowns))
	}
}

func TestPublishFailureDoesNotFailGeneration(t *testing.T) {
	store := newFakeStore()
	seedWeek(t, store)
	publisher := &fakePublisher{err: context.DeadlineExceeded}
	svc := NewReportService(store, store, publisher, testLogger())

	if _, err := svc.GenerateWeeklyReport(context.Background(),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)); err != nil {
		t.Fatalf("generation must survive a publish failure: %v", err)
	}
}

func TestGetRecentReports(t *testing.T) {
	store := newFakeStore()
	svc := NewReportService(store, store, nil, testLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 12, 10, 0, 0, 0, time.Local) }
	ctx := context.Background()

	// Reports for this week and the three before it, plus one stale
	// report that falls outside the four-week window.
	for w := 0; w < 4; w++ {
		start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local).AddDate(0, 0, -7*w)
		if _, err := store.SaveReport(ctx, core.WeeklyReport{
			WeekStart: start, WeekEnd: start.AddDate(0, 0, 6),
			TotalSpent: decimal.Zero, GeneratedAt: time.Now(),
		}); err != nil {
			t.Fatalf("seed report: %v", err)
		}
	}
	stale := time.Date(2026, 1, 5, 0, 0, 0, 0, time.Local)
	store.SaveReport(ctx, core.WeeklyReport{
		WeekStart: stale, WeekEnd: stale.AddDate(0, 0, 6),
		TotalSpent: decimal.Zero, GeneratedAt: time.Now(),
	})

	got, err := svc.GetRecentReports(ctx, 4)
	if err != nil {
		t.Fatalf("GetRecentReports: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d reports, want 4", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].WeekStart.After(got[i-1].WeekStart) {
			t.Errorf("reports not newest-first at index %d", i)
		}
	}
}
