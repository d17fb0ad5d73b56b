package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.Local)
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday stays", date(2025, time.March, 10, 15, 30, 0), date(2025, time.March, 10, 0, 0, 0)},
		{"wednesday", date(2025, time.March, 12, 9, 0, 0), date(2025, time.March, 10, 0, 0, 0)},
		{"sunday maps back", date(2025, time.March, 16, 23, 59, 59), date(2025, time.March, 10, 0, 0, 0)},
		{"month boundary", date(2025, time.April, 2, 0, 0, 0), date(2025, time.March, 31, 0, 0, 0)},
		{"year boundary", date(2026, time.January, 1, 12, 0, 0), date(2025, time.December, 29, 0, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MondayOf(tc.in); !got.Equal(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCurrentWeek(t *testing.T) {
	w := CurrentWeek(date(2025, time.March, 12, 9, 0, 0))
	if !w.Start.Equal(date(2025, time.March, 10, 0, 0, 0)) {
		t.Fatalf("unexpected start %v", w.Start)
	}
	// Minute-level end, not end-of-day nanosecond.
	if !w.End.Equal(date(2025, time.March, 16, 23, 59, 0)) {
		t.Fatalf("unexpected end %v", w.End)
	}
}

func TestCurrentMonth(t *testing.T) {
	now := date(2025, time.March, 12, 9, 30, 0)
	w := CurrentMonth(now)
	if !w.Start.Equal(date(2025, time.March, 1, 0, 0, 0)) {
		t.Fatalf("unexpected start %v", w.Start)
	}
	if !w.End.Equal(now) {
		t.Fatalf("unexpected end %v", w.End)
	}
}

func TestPreviousMonth(t *testing.T) {
	w := PreviousMonth(date(2025, time.March, 12, 9, 30, 0))
	if !w.Start.Equal(date(2025, time.February, 1, 0, 0, 0)) {
		t.Fatalf("unexpected start %v", w.Start)
	}
	if !w.End.Equal(date(2025, time.February, 28, 23, 59, 59)) {
		t.Fatalf("unexpected end %v", w.End)
	}
}

func TestPreviousMonthAcrossYear(t *testing.T) {
	w := PreviousMonth(date(2025, time.January, 5, 0, 0, 0))
	if !w.Start.Equal(date(2024, time.December, 1, 0, 0, 0)) {
		t.Fatalf("unexpected start %v", w.Start)
	}
	if !w.End.Equal(date(2024, time.December, 31, 23, 59, 59)) {
		t.Fatalf("unexpected end %v", w.End)
	}
}

func TestLastNWeeks(t *testing.T) {
	now := date(2025, time.March, 12, 9, 0, 0)
	windows := LastNWeeks(now, 3)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	wantStarts := []time.Time{
		date(2025, time.February, 24, 0, 0, 0),
		date(2025, time.March, 3, 0, 0, 0),
		date(2025, time.March, 10, 0, 0, 0),
	}
	for i, w := range windows {
		if !w.Start.Equal(wantStarts[i]) {
			t.Fatalf("window %d: expected start %v, got %v", i, wantStarts[i], w.Start)
		}
		if !w.End.Equal(weekEnd(w.Start)) {
			t.Fatalf("window %d: unexpected end %v", i, w.End)
		}
	}
	if got := LastNWeeks(now, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
