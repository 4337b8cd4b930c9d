package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod_EndDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		period Period
		want   time.Time
	}{
		{
			name:   "monthly mid month",
			start:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			period: PeriodMonthly,
			want:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly",
			start:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			period: PeriodWeekly,
			want:   time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "yearly",
			start:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			period: PeriodYearly,
			want:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly december rolls the year",
			start:  time.Date(2023, 12, 31, 18, 30, 0, 0, time.UTC),
			period: PeriodMonthly,
			want:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "weekly keeps clock time across month end",
			start:  time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC),
			period: PeriodWeekly,
			want:   time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		},
		{
			name:   "monthly from january 31",
			start:  time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			period: PeriodMonthly,
			want:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.period.EndDate(tt.start)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			assert.True(t, got.Equal(tt.period.EndDate(tt.start)), "must be deterministic")
		})
	}
}

func TestParsePeriod(t *testing.T) {
	for _, p := range Periods {
		got, err := ParsePeriod(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := ParsePeriod("daily")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 28, DaysInMonth(1900, time.February))
	assert.Equal(t, 29, DaysInMonth(2000, time.February))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
}

func TestDateRange(t *testing.T) {
	r := MonthRange(2024, time.March, time.UTC)

	assert.True(t, r.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), "start is inclusive")
	assert.True(t, r.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)), "end is exclusive")
	assert.Equal(t, 31, r.Days())

	assert.Equal(t, 366, YearRange(2024, time.UTC).Days())
	assert.Equal(t, 0, DateRange{}.Days())
	assert.True(t, DateRange{}.Contains(time.Now()))
}
