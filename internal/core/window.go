package core

import "time"

// Window is an inclusive start/end timestamp pair. No timezone conversion
// happens anywhere in here: timestamps are treated as naive local time of
// the host, and the caller injects the reference time.
type Window struct {
	Start time.Time
	End   time.Time
}

// MondayOf maps any timestamp to the Monday of its containing week at
// 00:00:00, the canonical report key.
func MondayOf(t time.Time) time.Time {
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}

// CurrentWeek returns the Monday-start week containing now. The week ends
// on Sunday at 23:59:00, minute precision.
func CurrentWeek(now time.Time) Window {
	start := MondayOf(now)
	return Window{Start: start, End: weekEnd(start)}
}

// WeekOf returns the Monday-aligned week window containing t.
func WeekOf(t time.Time) Window {
	return CurrentWeek(t)
}

// CurrentMonth spans from the first of the month at 00:00 up to now.
func CurrentMonth(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: now}
}

// PreviousMonth spans the fully elapsed previous calendar month: its first
// day at 00:00 through one second before this month's start.
func PreviousMonth(now time.Time) Window {
	thisStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: thisStart.AddDate(0, -1, 0), End: thisStart.Add(-time.Second)}
}

// Day spans one calendar day from 00:00:00 to 23:59:59.
func Day(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.Add(24*time.Hour - time.Second)}
}

// LastNWeeks returns n Monday-aligned week windows ending with the week
// containing now, oldest first.
func LastNWeeks(now time.Time, n int) []Window {
	if n <= 0 {
		return nil
	}
	windows := make([]Window, 0, n)
	monday := MondayOf(now)
	for i := n - 1; i >= 0; i-- {
		start := monday.AddDate(0, 0, -7*i)
		windows = append(windows, Window{Start: start, End: weekEnd(start)})
	}
	return windows
}

func weekEnd(weekStart time.Time) time.Time {
	end := weekStart.AddDate(0, 0, 6)
	return time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 0, 0, end.Location())
}
