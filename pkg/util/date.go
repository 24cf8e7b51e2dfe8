package util

import (
	"fmt"
	"math"
	"time"
)

// DayFormat is the wire format for reporting dates.
const DayFormat = "2006-01-02"

// Day truncates a time to day resolution in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO date string into a day-resolution time.
// Full RFC3339 timestamps are accepted and truncated.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(DayFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want %q", s, DayFormat)
}

// FormatDay renders a time as an ISO day string.
func FormatDay(t time.Time) string {
	return Day(t).Format(DayFormat)
}

// DaysBetween returns the whole number of days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}

// MeanStepDays computes the mean gap in days between consecutive dates,
// rounded to the nearest whole day. Dates may be in any order; gaps are
// measured over the chronologically sorted sequence. Returns 0 for fewer
// than two dates.
func MeanStepDays(dates []time.Time) int {
	if len(dates) < 2 {
		return 0
	}
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Before(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	total := 0
	for i := 1; i < len(sorted); i++ {
		total += DaysBetween(sorted[i-1], sorted[i])
	}
	return int(math.Round(float64(total) / float64(len(sorted)-1)))
}
