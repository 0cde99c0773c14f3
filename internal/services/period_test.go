package services

import (
	"testing"
	"time"
)

func TestPeriodValid(t *testing.T) {
	for _, p := range []Period{PeriodWeek, PeriodMonth, PeriodYear} {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if Period("quarter").Valid() {
		t.Error("quarter is not a supported period")
	}
}

func TestDateRangeMonth(t *testing.T) {
	now := time.Date(2026, time.August, 15, 13, 45, 0, 0, time.UTC)
	start, end := DateRange(PeriodMonth, now)

	if start.Day() != 1 || start.Month() != time.August || start.Hour() != 0 {
		t.Errorf("month should start on Aug 1 midnight, got %v", start)
	}
	if end.Before(time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("month should end on the last instant of Aug 31, got %v", end)
	}
	if !end.Before(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month end leaked into September: %v", end)
	}
}

func TestDateRangeWeekStartsSunday(t *testing.T) {
	// 2026-08-12 is a Wednesday.
	now := time.Date(2026, time.August, 12, 10, 0, 0, 0, time.UTC)
	start, end := DateRange(PeriodWeek, now)

	if start.Weekday() != time.Sunday {
		t.Errorf("week should start on Sunday, got %v", start.Weekday())
	}
	if start.Day() != 9 {
		t.Errorf("expected Aug 9, got %v", start)
	}
	if end.Sub(start) >= 7*24*time.Hour {
		t.Errorf("week window too long: %v to %v", start, end)
	}
}

func TestDateRangeYear(t *testing.T) {
	now := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	start, end := DateRange(PeriodYear, now)

	if start.Month() != time.January || start.Day() != 1 {
		t.Errorf("year should start Jan 1, got %v", start)
	}
	if end.Year() != 2026 {
		t.Errorf("year end should stay in 2026, got %v", end)
	}
}

func TestMonthWindowDecemberRollover(t *testing.T) {
	now := time.Date(2025, time.December, 20, 8, 0, 0, 0, time.UTC)
	start, end := MonthWindow(now)

	if start.Month() != time.December || start.Day() != 1 {
		t.Errorf("expected Dec 1, got %v", start)
	}
	if end.Year() != 2025 || end.Month() != time.December {
		t.Errorf("window end should be the last instant of December, got %v", end)
	}
}
