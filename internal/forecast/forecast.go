package forecast

import (
	"math"
	"strings"
)

// Func is a parametric curve evaluated at x with parameter vector p.
// Caller-supplied functions must accept exactly len(init) parameters.
type Func func(x float64, p []float64) float64

// Model is a named curve family with an initial-guess heuristic.
type Model struct {
	Name      string
	NumParams int
	Eval      Func
	// Guess seeds the optimizer from the chronological values.
	Guess func(ys []float64) []float64
}

// The three built-in families. Fitted to a generally increasing series they
// correspond to risk-averse (logarithmic), risk-neutral (linear) and
// risk-seeking (exponential) growth assumptions; the concave and convex
// families need a broadly monotonic trend to converge.
var (
	Linear = Model{
		Name:      "linear",
		NumParams: 2,
		Eval:      func(x float64, p []float64) float64 { return p[0]*x + p[1] },
		Guess:     func([]float64) []float64 { return []float64{1, 1} },
	}

	Exponential = Model{
		Name:      "exponential",
		NumParams: 2,
		Eval:      func(x float64, p []float64) float64 { return p[0] * math.Exp(p[1]*x) },
		Guess: func(ys []float64) []float64 {
			// Amplitude at the first value, rate near zero scaled to
			// the value's order of magnitude.
			return []float64{ys[0], math.Pow(10, -float64(orderOfMagnitude(ys[0])))}
		},
	}

	Logarithmic = Model{
		Name:      "logarithmic",
		NumParams: 2,
		Eval:      func(x float64, p []float64) float64 { return p[0] * math.Log(p[1]*x) },
		Guess:     func([]float64) []float64 { return []float64{1, 1} },
	}
)

// ModelFor resolves a family by name, case-insensitive.
func ModelFor(name string) (Model, bool) {
	switch strings.ToLower(name) {
	case Linear.Name:
		return Linear, true
	case Exponential.Name:
		return Exponential, true
	case Logarithmic.Name:
		return Logarithmic, true
	}
	return Model{}, false
}

// RSquared returns the coefficient of determination of fitted against
// observed values. A constant observed series yields 1 for a perfect fit
// and -Inf otherwise.
func RSquared(observed, fitted []float64) float64 {
	mean := 0.0
	for _, y := range observed {
		mean += y
	}
	mean /= float64(len(observed))

	var ssRes, ssTot float64
	for i, y := range observed {
		ssRes += (y - fitted[i]) * (y - fitted[i])
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return math.Inf(-1)
	}
	return 1 - ssRes/ssTot
}

// orderOfMagnitude returns the base-10 order of magnitude of v, 0 for 0.
func orderOfMagnitude(v float64) int {
	if v == 0 {
		return 0
	}
	return int(math.Floor(math.Log10(math.Abs(v))))
}
