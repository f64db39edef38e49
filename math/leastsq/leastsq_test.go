package leastsq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/gospline/math/interpolate"
)

var cubicCoeffs = []float64{3.4, 5.6, 1, -4}

func sample(coeffs, xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = horner(coeffs, x)
	}
	return ys
}

func TestRegressExactCubic(t *testing.T) {
	xs := []float64{-1, -0.6, -0.2, 0, 0.3, 0.7, 1}
	ys := sample(cubicCoeffs, xs)

	res, err := PolynomialsLeastSquaresFitter{}.Regress(xs, ys, 3)
	require.NoError(t, err)
	assert.InEpsilonSlice(t, cubicCoeffs, res.Coefficients, 1e-14)
	assert.True(t, floats.Norm(res.Residuals, 2) < 1e-13)
	assert.InDelta(t, horner(cubicCoeffs, 0.45), res.Evaluate(0.45), 1e-13)
}

func TestRegressVerbose(t *testing.T) {
	xs := []float64{10, 11, 12, 13, 14, 15, 16, 17}
	ys := []float64{1.2, 1.9, 3.2, 3.8, 5.1, 6.3, 6.8, 8.2}

	res, err := PolynomialsLeastSquaresFitter{}.RegressVerbose(xs, ys, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 6, res.DegreesOfFreedom)

	mean, std := stat.MeanStdDev(xs, nil)
	assert.Equal(t, mean, res.Mean)
	assert.Equal(t, std, res.Std)

	rows, cols := res.R.Dims()
	assert.Equal(t, 2, cols)
	assert.True(t, rows >= 2)
	assert.Equal(t, 0.0, res.R.At(1, 0))

	// The normalized fit is the same line as the plain one.
	plain, err := PolynomialsLeastSquaresFitter{}.RegressVerbose(xs, ys, 1, false)
	require.NoError(t, err)
	for _, x := range []float64{9, 12.5, 20} {
		assert.InDelta(t, plain.Evaluate(x), res.Evaluate(x), 1e-10)
	}
	assert.InDelta(t, plain.ResidualNorm, res.ResidualNorm, 1e-10)
	assert.InDelta(t, floats.Norm(res.Residuals, 2), res.ResidualNorm, 1e-15)

	// Residuals are orthogonal to the columns of the design matrix.
	assert.InDelta(t, 0, floats.Sum(plain.Residuals), 1e-10)
	assert.InDelta(t, 0, floats.Dot(plain.Residuals, xs), 1e-9)
}

func TestRegressErrors(t *testing.T) {
	fit := PolynomialsLeastSquaresFitter{}
	table := []struct {
		xs, ys []float64
		degree int
		msg    string
	}{
		{[]float64{1, 2, 3}, []float64{1, 2, 3}, 2, "needs more than"},
		{[]float64{1, 2, 3, 4}, []float64{1, 2, 3}, 1, "given"},
		{[]float64{1, 2, math.NaN(), 4}, []float64{1, 2, 3, 4}, 1, "not finite"},
		{[]float64{1, 2, 3, 4}, []float64{1, math.Inf(-1), 3, 4}, 1, "not finite"},
		{[]float64{1, 1, 1, 2, 2}, []float64{1, 2, 3, 4, 5}, 2, "too many repeated x values"},
		{[]float64{1e6, 1e6 + 1, 1e6 + 2, 1e6 + 3, 1e6 + 4, 1e6 + 5},
			[]float64{1, 2, 3, 4, 5, 6}, 4, "ill-conditioned"},
	}
	for i, test := range table {
		_, err := fit.Regress(test.xs, test.ys, test.degree)
		assert.ErrorIs(t, err, interpolate.ErrInvalidArgument, "%d)", i+1)
		assert.ErrorContains(t, err, test.msg, "%d)", i+1)
	}

	// Normalizing rescues the ill-conditioned fit.
	last := table[len(table)-1]
	_, err := fit.RegressVerbose(last.xs, last.ys, last.degree, true)
	assert.NoError(t, err)
}

func TestRegressNormalizedConstant(t *testing.T) {
	xs := []float64{2, 2, 2, 2}
	ys := []float64{1, 2, 3, 6}

	res, err := PolynomialsLeastSquaresFitter{}.RegressVerbose(xs, ys, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Mean)
	assert.Equal(t, 1.0, res.Std)
	assert.InDelta(t, 3, res.Coefficients[0], 1e-14)
	for _, x := range []float64{-1, 2, 7} {
		v := res.Evaluate(x)
		assert.False(t, math.IsNaN(v))
		assert.InDelta(t, 3, v, 1e-14)
	}
}

func BenchmarkRegressDegree5(b *testing.B) {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(i) / 50
	}
	ys := sample([]float64{1, -2, 0.5, 3, 0, 1}, xs)
	fit := PolynomialsLeastSquaresFitter{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fit.Regress(xs, ys, 5)
	}
}
