package forecast

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestFitLinearRecoversParams(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 2.5*x - 3
	}
	res, err := Fit(xs, ys, Linear.Eval, Linear.Guess(ys))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(res.Params[0], 2.5, 1e-6) || !almostEqual(res.Params[1], -3, 1e-6) {
		t.Fatalf("unexpected params %v", res.Params)
	}
	if !almostEqual(res.RSquared, 1, 1e-9) {
		t.Fatalf("unexpected r-squared %v", res.RSquared)
	}
}

func TestFitExponentialRecoversParams(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Exp(x)
	}
	res, err := Fit(xs, ys, Exponential.Eval, Exponential.Guess(ys))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(res.Params[0], 1, 1e-5) || !almostEqual(res.Params[1], 1, 1e-5) {
		t.Fatalf("unexpected params %v", res.Params)
	}
}

func TestFitLogarithmicRecoversParams(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Log(x)
	}
	res, err := Fit(xs, ys, Logarithmic.Eval, Logarithmic.Guess(ys))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(res.Params[0], 1, 1e-6) || !almostEqual(res.Params[1], 1, 1e-6) {
		t.Fatalf("unexpected params %v", res.Params)
	}
}

func TestFitCustomFunc(t *testing.T) {
	quadratic := func(x float64, p []float64) float64 {
		return p[0]*x*x + p[1]*x + p[2]
	}
	xs := []float64{1, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 0.5*x*x - x + 2
	}
	res, err := Fit(xs, ys, quadratic, []float64{1, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0.5, -1, 2}
	for i, w := range want {
		if !almostEqual(res.Params[i], w, 1e-5) {
			t.Fatalf("param %d: got %v want %v", i, res.Params[i], w)
		}
	}
}

func TestFitTooFewPoints(t *testing.T) {
	quadratic := func(x float64, p []float64) float64 {
		return p[0]*x*x + p[1]*x + p[2]
	}
	_, err := Fit([]float64{1, 2}, []float64{1, 2}, quadratic, []float64{1, 1, 1})
	if !errors.Is(err, ErrFitFailure) {
		t.Fatalf("expected ErrFitFailure, got %v", err)
	}
}

func TestFitNonFiniteFunction(t *testing.T) {
	bad := func(float64, []float64) float64 { return math.NaN() }
	_, err := Fit([]float64{1, 2, 3}, []float64{1, 2, 3}, bad, []float64{1})
	if !errors.Is(err, ErrFitFailure) {
		t.Fatalf("expected ErrFitFailure, got %v", err)
	}
}

func TestFitLengthMismatch(t *testing.T) {
	_, err := Fit([]float64{1, 2, 3}, []float64{1, 2}, Linear.Eval, []float64{1, 1})
	if !errors.Is(err, ErrFitFailure) {
		t.Fatalf("expected ErrFitFailure, got %v", err)
	}
}

func TestModelFor(t *testing.T) {
	for _, name := range []string{"linear", "Exponential", "LOGARITHMIC"} {
		if _, ok := ModelFor(name); !ok {
			t.Fatalf("expected model for %q", name)
		}
	}
	if _, ok := ModelFor("cubic"); ok {
		t.Fatalf("did not expect model for cubic")
	}
}

func TestRSquaredConstantSeries(t *testing.T) {
	if got := RSquared([]float64{2, 2, 2}, []float64{2, 2, 2}); got != 1 {
		t.Fatalf("unexpected r-squared %v", got)
	}
	if got := RSquared([]float64{2, 2, 2}, []float64{2, 2, 3}); !math.IsInf(got, -1) {
		t.Fatalf("unexpected r-squared %v", got)
	}
}
