package statement

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"FinCast/pkg/util"
)

// Stored records join their date index and metric series into single
// delimited text fields. A metric field always has exactly one entry per
// date; a metric with no data is a run of null markers of the same length,
// keeping the record width fixed.
const (
	fieldDelimiter = ":"
	nullMarker     = "null"
)

// joinDates renders a date index as a delimited field of ISO days.
func joinDates(dates []time.Time) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = util.FormatDay(d)
	}
	return strings.Join(parts, fieldDelimiter)
}

// splitDates parses a delimited date-index field.
func splitDates(field string) ([]time.Time, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: empty date index field", ErrDateConversion)
	}
	parts := strings.Split(field, fieldDelimiter)
	dates := make([]time.Time, len(parts))
	for i, p := range parts {
		d, err := util.ParseDay(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDateConversion, err)
		}
		dates[i] = d
	}
	return dates, nil
}

// joinValues renders a numeric series as a delimited field. The shortest
// exact representation is used so values survive a store round trip.
func joinValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, fieldDelimiter)
}

// nullField renders the placeholder field for an absent metric.
func nullField(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = nullMarker
	}
	return strings.Join(parts, fieldDelimiter)
}

// splitValues parses a delimited metric field. present is false when the
// field is the all-null placeholder. The entry count must equal want.
func splitValues(field string, want int) (values []float64, present bool, err error) {
	parts := strings.Split(field, fieldDelimiter)
	if len(parts) != want {
		return nil, false, fmt.Errorf("%w: metric field has %d entries, date index has %d", ErrLengthMismatch, len(parts), want)
	}

	allNull := true
	for _, p := range parts {
		if p != nullMarker {
			allNull = false
			break
		}
	}
	if allNull {
		return nil, false, nil
	}

	values = make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, false, fmt.Errorf("parse metric field entry %d: %w", i, err)
		}
		values[i] = v
	}
	return values, true, nil
}
