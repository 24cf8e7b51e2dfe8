package forecast

import (
	"errors"
	"fmt"
	"math"
)

// ErrFitFailure indicates the least-squares optimizer did not converge.
var ErrFitFailure = errors.New("curve fit did not converge")

// Result holds the fitted parameters and the goodness of fit over the
// fitted points.
type Result struct {
	Params   []float64
	RSquared float64
}

const (
	maxIterations = 200
	gradientTol   = 1e-12
	sseTol        = 1e-14
	lambdaInit    = 1e-3
	lambdaMax     = 1e12
)

// Fit minimizes the squared residuals between fn(x, p) and ys over xs using
// Levenberg-Marquardt with a numeric Jacobian. init seeds the parameter
// vector and fixes its length. The data must contain at least as many
// points as there are parameters.
func Fit(xs, ys []float64, fn Func, init []float64) (Result, error) {
	n, m := len(xs), len(init)
	if n != len(ys) {
		return Result{}, fmt.Errorf("%w: %d x values against %d y values", ErrFitFailure, n, len(ys))
	}
	if m == 0 || n < m {
		return Result{}, fmt.Errorf("%w: %d points cannot constrain %d parameters", ErrFitFailure, n, m)
	}

	p := make([]float64, m)
	copy(p, init)

	sse, ok := sumSquares(xs, ys, fn, p)
	if !ok {
		return Result{}, fmt.Errorf("%w: non-finite residuals at initial guess", ErrFitFailure)
	}

	lambda := lambdaInit
	converged := false

	for iter := 0; iter < maxIterations && !converged; iter++ {
		jac, ok := jacobian(xs, fn, p)
		if !ok {
			return Result{}, fmt.Errorf("%w: non-finite jacobian", ErrFitFailure)
		}

		// Normal equations: (JtJ + lambda*diag(JtJ)) delta = -Jt r
		jtj := make([][]float64, m)
		for j := range jtj {
			jtj[j] = make([]float64, m)
		}
		grad := make([]float64, m)
		for i := 0; i < n; i++ {
			r := fn(xs[i], p) - ys[i]
			for j := 0; j < m; j++ {
				grad[j] += jac[i][j] * r
				for k := 0; k < m; k++ {
					jtj[j][k] += jac[i][j] * jac[i][k]
				}
			}
		}

		if maxAbs(grad) < gradientTol {
			converged = true
			break
		}

		accepted := false
		for lambda <= lambdaMax {
			damped := make([][]float64, m)
			rhs := make([]float64, m)
			for j := 0; j < m; j++ {
				damped[j] = make([]float64, m)
				copy(damped[j], jtj[j])
				d := jtj[j][j]
				if d == 0 {
					d = 1
				}
				damped[j][j] += lambda * d
				rhs[j] = -grad[j]
			}

			delta, ok := solve(damped, rhs)
			if !ok {
				lambda *= 10
				continue
			}

			trial := make([]float64, m)
			for j := range p {
				trial[j] = p[j] + delta[j]
			}
			trialSSE, ok := sumSquares(xs, ys, fn, trial)
			if !ok || trialSSE >= sse {
				lambda *= 10
				continue
			}

			improvement := sse - trialSSE
			copy(p, trial)
			if improvement <= sseTol*(sse+sseTol) {
				converged = true
			}
			sse = trialSSE
			lambda = math.Max(lambda/10, 1e-12)
			accepted = true
			break
		}
		if !accepted {
			// Damping exhausted without a better step: the current
			// parameters are a local minimum if the gradient is small.
			if maxAbs(grad) < 1e-6*(1+sse) {
				converged = true
				break
			}
			return Result{}, fmt.Errorf("%w: damping exhausted after %d iterations", ErrFitFailure, iter+1)
		}
	}

	if !converged {
		return Result{}, fmt.Errorf("%w: no convergence within %d iterations", ErrFitFailure, maxIterations)
	}

	fitted := make([]float64, n)
	for i, x := range xs {
		fitted[i] = fn(x, p)
		if !isFinite(fitted[i]) {
			return Result{}, fmt.Errorf("%w: non-finite fitted value", ErrFitFailure)
		}
	}
	return Result{Params: p, RSquared: RSquared(ys, fitted)}, nil
}

func sumSquares(xs, ys []float64, fn Func, p []float64) (float64, bool) {
	var sse float64
	for i, x := range xs {
		r := fn(x, p) - ys[i]
		if !isFinite(r) {
			return 0, false
		}
		sse += r * r
	}
	return sse, true
}

// jacobian estimates d fn/d p_j at every x by central differences.
func jacobian(xs []float64, fn Func, p []float64) ([][]float64, bool) {
	n, m := len(xs), len(p)
	jac := make([][]float64, n)
	for i := range jac {
		jac[i] = make([]float64, m)
	}
	work := make([]float64, m)
	copy(work, p)
	for j := 0; j < m; j++ {
		h := 1e-6 * math.Max(math.Abs(p[j]), 1)
		work[j] = p[j] + h
		for i, x := range xs {
			jac[i][j] = fn(x, work)
		}
		work[j] = p[j] - h
		for i, x := range xs {
			jac[i][j] = (jac[i][j] - fn(x, work)) / (2 * h)
			if !isFinite(jac[i][j]) {
				return nil, false
			}
		}
		work[j] = p[j]
	}
	return jac, true
}

// solve performs Gaussian elimination with partial pivoting on a copy of a.
func solve(a [][]float64, b []float64) ([]float64, bool) {
	m := len(b)
	aug := make([][]float64, m)
	for i := range aug {
		aug[i] = make([]float64, m+1)
		copy(aug[i], a[i])
		aug[i][m] = b[i]
	}

	for col := 0; col < m; col++ {
		pivot := col
		for row := col + 1; row < m; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(aug[pivot][col]) < 1e-300 {
			return nil, false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]
		for row := col + 1; row < m; row++ {
			f := aug[row][col] / aug[col][col]
			for k := col; k <= m; k++ {
				aug[row][k] -= f * aug[col][k]
			}
		}
	}

	x := make([]float64, m)
	for row := m - 1; row >= 0; row-- {
		sum := aug[row][m]
		for k := row + 1; k < m; k++ {
			sum -= aug[row][k] * x[k]
		}
		x[row] = sum / aug[row][row]
	}
	for _, v := range x {
		if !isFinite(v) {
			return nil, false
		}
	}
	return x, true
}

func maxAbs(v []float64) float64 {
	max := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > max {
			max = a
		}
	}
	return max
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
