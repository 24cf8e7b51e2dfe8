package statement

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"FinCast/internal/forecast"
	"FinCast/pkg/util"
)

// Row is one named metric series of a financial statement, keyed by
// reporting date at day resolution and materialized most-recent-first.
type Row struct {
	name   string
	dates  []time.Time // descending
	values []float64   // parallel to dates
}

// NewRow builds a row from equal-length value and date sequences. Dates
// are normalized to day resolution; a duplicate date overwrites the value
// seen earlier in the input.
func NewRow(name string, values []float64, dates []time.Time) (*Row, error) {
	if len(values) != len(dates) {
		return nil, fmt.Errorf("%w: %d values against %d dates", ErrLengthMismatch, len(values), len(dates))
	}

	byDate := make(map[time.Time]float64, len(dates))
	for i, d := range dates {
		byDate[util.Day(d)] = values[i]
	}

	sorted := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	ordered := make([]float64, len(sorted))
	for i, d := range sorted {
		ordered[i] = byDate[d]
	}
	return &Row{name: name, dates: sorted, values: ordered}, nil
}

// NewRowFromStrings builds a row from ISO date strings, the shape raw
// tabular input arrives in.
func NewRowFromStrings(name string, values []float64, dates []string) (*Row, error) {
	if len(values) != len(dates) {
		return nil, fmt.Errorf("%w: %d values against %d dates", ErrLengthMismatch, len(values), len(dates))
	}
	parsed := make([]time.Time, len(dates))
	for i, s := range dates {
		d, err := util.ParseDay(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDateConversion, err)
		}
		parsed[i] = d
	}
	return NewRow(name, values, parsed)
}

// Name returns the row name.
func (r *Row) Name() string { return r.name }

// Len returns the number of stored reporting dates.
func (r *Row) Len() int { return len(r.dates) }

// Get returns the value for a reporting date.
func (r *Row) Get(date time.Time) (float64, error) {
	day := util.Day(date)
	for i, d := range r.dates {
		if d.Equal(day) {
			return r.values[i], nil
		}
	}
	return 0, fmt.Errorf("%w: no value for date %s in row %q", ErrKeyNotFound, util.FormatDay(day), r.name)
}

// Set replaces the value for an existing reporting date. The date must
// already be present: rows held by a statement share its date index, and
// an insert here would silently break that.
func (r *Row) Set(date time.Time, value float64) error {
	day := util.Day(date)
	for i, d := range r.dates {
		if d.Equal(day) {
			r.values[i] = value
			return nil
		}
	}
	return fmt.Errorf("%w: no value for date %s in row %q", ErrKeyNotFound, util.FormatDay(day), r.name)
}

// IGet returns the date/value pair at a position, 0 being the most recent
// date. Negative indices wrap around from the end.
func (r *Row) IGet(index int) (time.Time, float64, error) {
	i := index
	if i < 0 {
		i += len(r.dates)
	}
	if i < 0 || i >= len(r.dates) {
		return time.Time{}, 0, fmt.Errorf("%w: index %d with %d entries in row %q", ErrIndexOutOfRange, index, len(r.dates), r.name)
	}
	return r.dates[i], r.values[i], nil
}

// Values returns a copy of the stored values, most recent first.
func (r *Row) Values() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

// Dates returns a copy of the stored dates, most recent first.
func (r *Row) Dates() []time.Time {
	out := make([]time.Time, len(r.dates))
	copy(out, r.dates)
	return out
}

// Mean returns the population mean of the stored values, NaN when empty.
func (r *Row) Mean() float64 {
	if len(r.values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range r.values {
		sum += v
	}
	return sum / float64(len(r.values))
}

// Std returns the population standard deviation of the stored values,
// NaN when empty.
func (r *Row) Std() float64 {
	if len(r.values) == 0 {
		return math.NaN()
	}
	mean := r.Mean()
	var ss float64
	for _, v := range r.values {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(r.values)))
}

// Predict fits a named curve family to the series and extrapolates n
// future values at the series' mean reporting interval, nearest horizon
// first. family is one of "linear", "exponential" or "logarithmic".
func (r *Row) Predict(n int, family string) ([]float64, error) {
	model, ok := forecast.ModelFor(family)
	if !ok {
		return nil, fmt.Errorf("%w: unknown forecast family %q", ErrKeyNotFound, family)
	}
	ys := r.chronologicalValues()
	if len(ys) == 0 {
		return nil, fmt.Errorf("%w: row %q is empty", forecast.ErrFitFailure, r.name)
	}
	return r.extrapolate(n, model.Eval, model.Guess(ys), model.Name)
}

// PredictFunc is Predict with a caller-supplied curve. init seeds the
// optimizer and fixes the parameter count fn will be called with.
func (r *Row) PredictFunc(fn forecast.Func, init []float64, n int) ([]float64, error) {
	return r.extrapolate(n, fn, init, "custom")
}

func (r *Row) extrapolate(n int, fn forecast.Func, init []float64, family string) ([]float64, error) {
	ys := r.chronologicalValues()

	// Independent variable from day offsets: x_i = step*i over the
	// chronological values, step being the mean reporting gap.
	step := float64(util.MeanStepDays(r.dates))
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = step * float64(i+1)
	}

	res, err := forecast.Fit(xs, ys, fn, init)
	if err != nil {
		return nil, fmt.Errorf("fit %s curve to row %q: %w", family, r.name, err)
	}

	log.Debug().Str("row", r.name).Str("family", family).
		Floats64("params", res.Params).Msg("curve fitted")
	log.Info().Str("row", r.name).Str("family", family).
		Float64("r_squared", res.RSquared).Msg("goodness of fit")

	preds := make([]float64, n)
	last := xs[len(xs)-1]
	for k := 1; k <= n; k++ {
		preds[k-1] = fn(last+float64(k)*step, res.Params)
	}
	return preds, nil
}

// chronologicalValues returns the values oldest first, the order curves
// are fitted in.
func (r *Row) chronologicalValues() []float64 {
	out := make([]float64, len(r.values))
	for i, v := range r.values {
		out[len(r.values)-1-i] = v
	}
	return out
}

// String renders the row as a two-line table of dates over values.
func (r *Row) String() string {
	if len(r.dates) == 0 {
		return r.name + ": "
	}
	var head, body strings.Builder
	body.WriteString(r.name + ":")
	head.WriteString(strings.Repeat(" ", body.Len()))
	for i, d := range r.dates {
		ds := util.FormatDay(d)
		vs := strconv.FormatFloat(r.values[i], 'g', -1, 64)
		w := len(ds)
		if len(vs) > w {
			w = len(vs)
		}
		head.WriteString(" | " + center(ds, w))
		body.WriteString(" | " + center(vs, w))
	}
	return head.String() + " |\n" + body.String() + " |"
}

func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	left := (w - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-len(s)-left)
}
