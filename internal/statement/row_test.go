package statement

import (
	"errors"
	"math"
	"testing"
	"time"

	"FinCast/internal/forecast"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// consecutiveDays returns n dates at unit day spacing, oldest first.
func consecutiveDays(n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = day(2024, 1, 1+i)
	}
	return dates
}

func TestNewRowSortsDescending(t *testing.T) {
	dates := []time.Time{day(2022, 3, 1), day(2024, 3, 1), day(2023, 3, 1)}
	row, err := NewRow("totRevenue", []float64{10, 30, 20}, dates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gotDates := row.Dates()
	if !gotDates[0].Equal(day(2024, 3, 1)) || !gotDates[2].Equal(day(2022, 3, 1)) {
		t.Fatalf("dates not descending: %v", gotDates)
	}
	// pairing preserved through the reorder
	gotValues := row.Values()
	if gotValues[0] != 30 || gotValues[1] != 20 || gotValues[2] != 10 {
		t.Fatalf("values not paired with dates: %v", gotValues)
	}
}

func TestNewRowLengthMismatch(t *testing.T) {
	_, err := NewRow("totRevenue", []float64{1, 2}, consecutiveDays(3))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestNewRowFromStringsBadDate(t *testing.T) {
	_, err := NewRowFromStrings("totRevenue", []float64{1, 2}, []string{"2024-01-01", "not-a-date"})
	if !errors.Is(err, ErrDateConversion) {
		t.Fatalf("expected ErrDateConversion, got %v", err)
	}
}

func TestNewRowDuplicateDateLastWins(t *testing.T) {
	dates := []time.Time{day(2024, 1, 1), day(2024, 1, 1)}
	row, err := NewRow("totRevenue", []float64{1, 2}, dates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", row.Len())
	}
	v, err := row.Get(day(2024, 1, 1))
	if err != nil || v != 2 {
		t.Fatalf("expected last write 2, got %v (%v)", v, err)
	}
}

func TestGetNormalizesToDay(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{5}, []time.Time{day(2024, 1, 1)})
	v, err := row.Get(time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC))
	if err != nil || v != 5 {
		t.Fatalf("expected 5, got %v (%v)", v, err)
	}
}

func TestGetUnknownDate(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{5}, []time.Time{day(2024, 1, 1)})
	if _, err := row.Get(day(2024, 1, 2)); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSetRequiresExistingDate(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{5}, []time.Time{day(2024, 1, 1)})
	if err := row.Set(day(2024, 1, 1), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := row.Get(day(2024, 1, 1)); v != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
	if err := row.Set(day(2024, 1, 2), 9); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound for new date, got %v", err)
	}
	if row.Len() != 1 {
		t.Fatalf("rejected set must not insert, got %d entries", row.Len())
	}
}

func TestIGetPositionalAccess(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{1, 2, 3}, consecutiveDays(3))
	d, v, err := row.IGet(0)
	if err != nil || !d.Equal(day(2024, 1, 3)) || v != 3 {
		t.Fatalf("iget(0): got %v %v (%v)", d, v, err)
	}
	d, v, err = row.IGet(-1)
	if err != nil || !d.Equal(day(2024, 1, 1)) || v != 1 {
		t.Fatalf("iget(-1): got %v %v (%v)", d, v, err)
	}
	if _, _, err := row.IGet(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, _, err := row.IGet(-4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestValuesReturnsCopy(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{1, 2}, consecutiveDays(2))
	vals := row.Values()
	vals[0] = 99
	if again := row.Values(); again[0] == 99 {
		t.Fatalf("Values must return a defensive copy")
	}
}

func TestMeanAndStd(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{1, 2, 1, 2}, consecutiveDays(4))
	if got := row.Mean(); got != 1.5 {
		t.Fatalf("unexpected mean %v", got)
	}
	flat, _ := NewRow("totRevenue", []float64{1, 1, 1, 1}, consecutiveDays(4))
	if got := flat.Std(); got != 0 {
		t.Fatalf("unexpected std %v", got)
	}
}

func TestPredictLinear(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{1, 2, 3, 4}, consecutiveDays(4))
	preds, err := row.Predict(3, "linear")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{5, 6, 7}
	for i, w := range want {
		if math.Abs(preds[i]-w) > 1e-3 {
			t.Fatalf("prediction %d: got %v want %v", i, preds[i], w)
		}
	}
}

func TestPredictExponential(t *testing.T) {
	values := make([]float64, 4)
	for i := range values {
		values[i] = math.Exp(float64(i + 1))
	}
	row, _ := NewRow("totRevenue", values, consecutiveDays(4))
	preds, err := row.Predict(3, "exponential")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		want := math.Exp(float64(i + 5))
		if math.Abs(preds[i]-want) > 1e-3 {
			t.Fatalf("prediction %d: got %v want %v", i, preds[i], want)
		}
	}
}

func TestPredictLogarithmic(t *testing.T) {
	values := make([]float64, 4)
	for i := range values {
		values[i] = math.Log(float64(i + 1))
	}
	row, _ := NewRow("totRevenue", values, consecutiveDays(4))
	preds, err := row.Predict(3, "logarithmic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		want := math.Log(float64(i + 5))
		if math.Abs(preds[i]-want) > 1e-3 {
			t.Fatalf("prediction %d: got %v want %v", i, preds[i], want)
		}
	}
}

func TestPredictQuarterlySpacing(t *testing.T) {
	// 91-day reporting gaps; linear growth of 1 per period.
	dates := []time.Time{day(2023, 1, 1), day(2023, 4, 2), day(2023, 7, 2), day(2023, 10, 1)}
	row, _ := NewRow("totRevenue", []float64{1, 2, 3, 4}, dates)
	preds, err := row.Predict(2, "linear")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []float64{5, 6} {
		if math.Abs(preds[i]-want) > 1e-3 {
			t.Fatalf("prediction %d: got %v want %v", i, preds[i], want)
		}
	}
}

func TestPredictUnknownFamily(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{1, 2, 3}, consecutiveDays(3))
	if _, err := row.Predict(1, "cubic"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestPredictTooFewPoints(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{1}, consecutiveDays(1))
	if _, err := row.Predict(1, "linear"); !errors.Is(err, forecast.ErrFitFailure) {
		t.Fatalf("expected ErrFitFailure, got %v", err)
	}
}

func TestPredictFunc(t *testing.T) {
	row, _ := NewRow("totRevenue", []float64{1, 4, 9, 16}, consecutiveDays(4))
	square := func(x float64, p []float64) float64 { return p[0] * x * x }
	preds, err := row.PredictFunc(square, []float64{2}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []float64{25, 36} {
		if math.Abs(preds[i]-want) > 1e-3 {
			t.Fatalf("prediction %d: got %v want %v", i, preds[i], want)
		}
	}
}

func TestRowStringEmpty(t *testing.T) {
	row, _ := NewRow("totRevenue", nil, nil)
	if got := row.String(); got != "totRevenue: " {
		t.Fatalf("unexpected rendering %q", got)
	}
}
