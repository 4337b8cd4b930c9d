package model

import (
	"strings"
	"time"
)

// Period is a budget's recurrence unit.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Periods lists every valid period.
var Periods = []Period{PeriodWeekly, PeriodMonthly, PeriodYearly}

// ParsePeriod converts user input into a Period.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", &MalformedInputError{Input: s, Message: "period must be weekly, monthly or yearly"}
	}
	return p, nil
}

// IsValid reports whether p is one of the known periods.
func (p Period) IsValid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

func (p Period) String() string {
	return string(p)
}

// EndDate returns the exclusive end of the first cycle starting at start.
// Callers must only pass valid periods; an unknown period returns start unchanged.
func (p Period) EndDate(start time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		return start.AddDate(0, 0, 7)
	case PeriodMonthly:
		return time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, start.Location())
	case PeriodYearly:
		return time.Date(start.Year()+1, time.January, 1, 0, 0, 0, 0, start.Location())
	}
	return start
}
