package model

import (
	"math"
	"time"
)

// DateRange is a half-open interval [Start, End). A nil bound is unbounded.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// NewDateRange builds a bounded range.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: &start, End: &end}
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && !t.Before(*r.End) {
		return false
	}
	return true
}

// Days returns the number of calendar days the range spans, rounded up, at least 1.
// Unbounded ranges return 0.
func (r DateRange) Days() int {
	if r.Start == nil || r.End == nil {
		return 0
	}
	days := int(math.Ceil(r.End.Sub(*r.Start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// MonthRange returns [first of month, first of next month) in loc.
func MonthRange(year int, month time.Month, loc *time.Location) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return NewDateRange(start, PeriodMonthly.EndDate(start))
}

// YearRange returns [Jan 1, Jan 1 of next year) in loc.
func YearRange(year int, loc *time.Location) DateRange {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return NewDateRange(start, PeriodYearly.EndDate(start))
}

// DaysInMonth applies the Gregorian month-length rules, including leap-year February.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
