/*package leastsq fits polynomials to data by least squares. The Vandermonde
system is solved with a QR factorization from gonum, and the R factor is kept
so callers can judge how well conditioned the fit was.
*/
package leastsq

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/gospline/math/interpolate"
)

// ConditionLimit is the smallest ratio min|R_ii| / max|R_ii| a fit may
// have.
const ConditionLimit = 1e-14

// LeastSquaresRegressionResult is a fitted polynomial. Coefficients run from
// the highest power down and Residuals[i] = ys[i] - p(xs[i]).
type LeastSquaresRegressionResult struct {
	Coefficients []float64
	Residuals    []float64
}

// Evaluate returns the fitted polynomial at x.
func (res *LeastSquaresRegressionResult) Evaluate(x float64) float64 {
	return horner(res.Coefficients, x)
}

// VerboseRegressionResult adds fit diagnostics to a
// LeastSquaresRegressionResult. If Normalized is set, the polynomial is in
// terms of (x - Mean) / Std rather than x.
type VerboseRegressionResult struct {
	LeastSquaresRegressionResult
	DegreesOfFreedom int
	R                *mat.Dense
	ResidualNorm     float64

	Normalized bool
	Mean, Std  float64
}

// Evaluate returns the fitted polynomial at x, normalizing x first if the
// fit was normalized.
func (res *VerboseRegressionResult) Evaluate(x float64) float64 {
	if res.Normalized {
		x = (x - res.Mean) / res.Std
	}
	return horner(res.Coefficients, x)
}

func horner(coeffs []float64, x float64) float64 {
	sum := 0.0
	for _, c := range coeffs {
		sum = sum*x + c
	}
	return sum
}

// PolynomialsLeastSquaresFitter fits polynomials of a given degree.
type PolynomialsLeastSquaresFitter struct{}

// Regress fits a polynomial of the given degree to (xs, ys).
func (f PolynomialsLeastSquaresFitter) Regress(
	xs, ys []float64, degree int,
) (*LeastSquaresRegressionResult, error) {
	res, err := f.RegressVerbose(xs, ys, degree, false)
	if err != nil {
		return nil, err
	}
	return &res.LeastSquaresRegressionResult, nil
}

// RegressVerbose fits a polynomial of the given degree to (xs, ys) and
// reports diagnostics. With normalize, xs are centred and scaled by their
// mean and sample standard deviation first, which helps fits over large or
// distant ranges. Identical xs are only centred.
func (PolynomialsLeastSquaresFitter) RegressVerbose(
	xs, ys []float64, degree int, normalize bool,
) (*VerboseRegressionResult, error) {
	if err := check(xs, ys, degree); err != nil {
		return nil, err
	}

	res := &VerboseRegressionResult{Normalized: normalize}
	us := xs
	if normalize {
		res.Mean, res.Std = stat.MeanStdDev(xs, nil)
		if !finite(res.Std) {
			return nil, invalidf("cannot normalize xs: spread is %g", res.Std)
		} else if res.Std == 0 {
			// Identical xs only admit a constant; centre them.
			res.Std = 1
		}
		us = make([]float64, len(xs))
		for i, x := range xs {
			us[i] = (x - res.Mean) / res.Std
		}
	}

	a := vandermonde(us, degree)
	qr := new(mat.QR)
	qr.Factorize(a)

	res.R = new(mat.Dense)
	qr.RTo(res.R)
	if err := checkCondition(res.R, degree, normalize); err != nil {
		return nil, err
	}

	c := mat.NewVecDense(degree+1, nil)
	if err := qr.SolveVecTo(c, false, mat.NewVecDense(len(ys), ys)); err != nil {
		return nil, fmt.Errorf("%w: could not solve QR system: %v",
			interpolate.ErrInvalidArgument, err)
	}

	res.Coefficients = make([]float64, degree+1)
	for j := range res.Coefficients {
		res.Coefficients[j] = c.AtVec(j)
	}
	res.Residuals = make([]float64, len(ys))
	for i := range ys {
		res.Residuals[i] = ys[i] - horner(res.Coefficients, us[i])
	}
	res.ResidualNorm = floats.Norm(res.Residuals, 2)
	res.DegreesOfFreedom = len(xs) - (degree + 1)
	return res, nil
}

func check(xs, ys []float64, degree int) error {
	if degree < 0 {
		return invalidf("degree must be non-negative, got %d", degree)
	} else if len(xs) != len(ys) {
		return invalidf("given %d xs but %d ys", len(xs), len(ys))
	} else if len(xs) <= degree+1 {
		return invalidf(
			"a degree %d fit needs more than %d points, got %d",
			degree, degree+1, len(xs),
		)
	}
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			return invalidf("point %d, (%g, %g), is not finite", i, xs[i], ys[i])
		}
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	distinct := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			distinct++
		}
	}
	if distinct <= degree {
		return invalidf(
			"too many repeated x values: a degree %d fit needs %d distinct "+
				"xs, got %d", degree, degree+1, distinct,
		)
	}
	return nil
}

// checkCondition fails when the diagonal of R spans too many orders of
// magnitude for the solve to be trusted.
func checkCondition(r *mat.Dense, degree int, normalize bool) error {
	lo, hi := math.Inf(1), 0.0
	for j := 0; j <= degree; j++ {
		d := math.Abs(r.At(j, j))
		lo, hi = math.Min(lo, d), math.Max(hi, d)
	}
	if hi == 0 || lo/hi < ConditionLimit {
		msg := "ill-conditioned fit: min|R_ii| / max|R_ii| = %g"
		if !normalize {
			msg += ", try normalizing"
		}
		return invalidf(msg, lo/hi)
	}
	return nil
}

// vandermonde returns the design matrix with columns x^degree, ..., x, 1.
func vandermonde(xs []float64, degree int) *mat.Dense {
	a := mat.NewDense(len(xs), degree+1, nil)
	for i, x := range xs {
		for j, p := degree, 1.0; j >= 0; j, p = j-1, p*x {
			a.Set(i, j, p)
		}
	}
	return a
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", interpolate.ErrInvalidArgument,
		fmt.Sprintf(format, args...))
}
