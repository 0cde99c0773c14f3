package services

import "time"

// Period is a reporting window for summaries.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// DateRange returns the inclusive [start, end] window of the period
// containing now. Weeks start on Sunday.
func DateRange(p Period, now time.Time) (time.Time, time.Time) {
	switch p {
	case PeriodWeek:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		start := day.AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	case PeriodYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	default:
		return MonthWindow(now)
	}
}

// MonthWindow returns the first through last instant of now's calendar month.
// Budget evaluation always aggregates over this window, whatever period a
// budget declares.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}
