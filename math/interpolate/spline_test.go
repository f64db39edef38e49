package interpolate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Central-difference step and tolerance used by the sensitivity tests.
const fdEps = 1e-6

func fdTol(v float64) float64 {
	return math.Max(math.Abs(v)*fdEps, fdEps) * 10
}

func linspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return xs
}

func eval1(t *testing.T, res *PiecewisePolynomialResult, x float64) float64 {
	v, err := PiecewisePolynomialFunction1D{}.Evaluate(res, x)
	require.NoError(t, err)
	return v[0]
}

type namedInterp struct {
	name string
	sp   PiecewisePolynomialInterpolator
}

// generalInterps are the interpolators which accept arbitrary data.
func generalInterps() []namedInterp {
	return []namedInterp{
		{"not-a-knot", NewCubicSplineInterpolator()},
		{"natural", NewNaturalSplineInterpolator()},
		{"clamped", NewClampedCubicSplineInterpolator(0.5, -1)},
		{"linear", NewLinearInterpolator()},
		{"constrained", NewConstrainedCubicSplineInterpolator()},
		{"semi-local", NewSemiLocalCubicSplineInterpolator()},
		{"monotone cubic", NewMonotonicityPreservingCubicSplineInterpolator(
			NewCubicSplineInterpolator())},
		{"monotone quintic", NewMonotonicityPreservingQuinticSplineInterpolator(
			NewNaturalSplineInterpolator())},
		{"nonnegative cubic", NewNonnegativityPreservingCubicSplineInterpolator(
			NewCubicSplineInterpolator())},
		{"nonnegative quintic", NewNonnegativityPreservingQuinticSplineInterpolator(
			NewCubicSplineInterpolator())},
	}
}

var (
	testXs = []float64{0.5, 1, 2.5, 3, 4.2, 5}
	testYs = []float64{1, 2, 1.5, 0.5, 0.8, 2}
)

func TestKnotReproduction(t *testing.T) {
	for _, ni := range generalInterps() {
		res, err := ni.sp.Interpolate(testXs, testYs)
		require.NoError(t, err, ni.name)
		assert.Equal(t, testXs, res.Knots(), ni.name)
		assert.Equal(t, 1, res.Dimension(), ni.name)

		for i, x := range testXs {
			assert.InDelta(t, testYs[i], eval1(t, res, x), 1e-12,
				"%s: knot %d", ni.name, i)
		}
	}
}

func TestReflectionSymmetry(t *testing.T) {
	n := len(testXs)
	rxs, rys := make([]float64, n), make([]float64, n)
	for i := range testXs {
		rxs[n-1-i], rys[n-1-i] = -testXs[i], testYs[i]
	}

	f := PiecewisePolynomialFunction1D{}
	for _, ni := range generalInterps() {
		mirror := ni.sp
		if ni.name == "clamped" {
			// End slopes swap ends and change sign.
			mirror = NewClampedCubicSplineInterpolator(1, -0.5)
		}
		res, err := ni.sp.Interpolate(testXs, testYs)
		require.NoError(t, err, ni.name)
		reflected, err := mirror.Interpolate(rxs, rys)
		require.NoError(t, err, ni.name)

		for _, x := range linspace(testXs[0], testXs[n-1], 23) {
			assert.InDelta(t, eval1(t, res, x), eval1(t, reflected, -x), 1e-10,
				"%s: x = %g", ni.name, x)

			d, err := f.DifferentiateAt(res, x)
			require.NoError(t, err)
			rd, err := f.DifferentiateAt(reflected, -x)
			require.NoError(t, err)
			assert.InDelta(t, d[0], -rd[0], 1e-9, "%s: slope at x = %g", ni.name, x)
		}
	}
}

func TestSensitivityMatchesFiniteDifferences(t *testing.T) {
	interps := append(generalInterps(), namedInterp{
		"monotone convex", NewMonotoneConvexSplineInterpolator(),
	})
	f := PiecewisePolynomialFunction1D{}
	keys := []float64{0.6, 1, 1.7, 2.9, 3.3, 4.9, 5}

	for _, ni := range interps {
		res, err := ni.sp.InterpolateWithSensitivity(testXs, testYs)
		require.NoError(t, err, ni.name)
		assert.Equal(t, len(testYs), res.NumberOfData(), ni.name)

		for j := range testYs {
			up := append([]float64(nil), testYs...)
			down := append([]float64(nil), testYs...)
			up[j] += fdEps
			down[j] -= fdEps
			resUp, err := ni.sp.Interpolate(testXs, up)
			require.NoError(t, err, ni.name)
			resDown, err := ni.sp.Interpolate(testXs, down)
			require.NoError(t, err, ni.name)

			for _, key := range keys {
				sense, err := f.NodeSensitivity(res, key)
				require.NoError(t, err)
				fd := (eval1(t, resUp, key) - eval1(t, resDown, key)) / (2 * fdEps)
				assert.InDelta(t, fd, sense[j], fdTol(fd),
					"%s: d/dy%d at %g", ni.name, j, key)
			}
		}
	}
}

func TestSensitivityUsesSortedOrder(t *testing.T) {
	sp := NewNaturalSplineInterpolator()
	sorted, err := sp.InterpolateWithSensitivity(testXs, testYs)
	require.NoError(t, err)

	// Swapping two points changes nothing once the input is sorted.
	xs := append([]float64(nil), testXs...)
	ys := append([]float64(nil), testYs...)
	xs[1], xs[4] = xs[4], xs[1]
	ys[1], ys[4] = ys[4], ys[1]
	shuffled, err := sp.InterpolateWithSensitivity(xs, ys)
	require.NoError(t, err)

	for i := 0; i < sorted.NumberOfIntervals(); i++ {
		assert.Equal(t, sorted.Sensitivity(i), shuffled.Sensitivity(i))
	}
}

func TestCubicSplineReproducesCubics(t *testing.T) {
	cubic := func(x float64) float64 { return 0.5*x*x*x - x*x + 2*x - 3 }
	xs := []float64{-1, 0, 0.5, 2, 3, 4.5}
	ys := make([]float64, len(xs))
	for i := range xs {
		ys[i] = cubic(xs[i])
	}

	res, err := NewCubicSplineInterpolator().Interpolate(xs, ys)
	require.NoError(t, err)
	for _, x := range linspace(-1, 4.5, 40) {
		assert.InDelta(t, cubic(x), eval1(t, res, x), 1e-10, "x = %g", x)
	}

	// With the exact end slopes, so does the clamped spline.
	dcubic := func(x float64) float64 { return 1.5*x*x - 2*x + 2 }
	clamped := NewClampedCubicSplineInterpolator(dcubic(-1), dcubic(4.5))
	res, err = clamped.Interpolate(xs, ys)
	require.NoError(t, err)
	for _, x := range linspace(-1, 4.5, 40) {
		assert.InDelta(t, cubic(x), eval1(t, res, x), 1e-10, "x = %g", x)
	}
	left, right := clamped.Derivatives()
	assert.Equal(t, dcubic(-1), left)
	assert.Equal(t, dcubic(4.5), right)
}

func TestNaturalSplineEnds(t *testing.T) {
	res, err := NewNaturalSplineInterpolator().Interpolate(testXs, testYs)
	require.NoError(t, err)

	f := PiecewisePolynomialFunction1D{}
	for _, x := range []float64{testXs[0], testXs[len(testXs)-1]} {
		s, err := f.DifferentiateTwiceAt(res, x)
		require.NoError(t, err)
		assert.InDelta(t, 0, s[0], 1e-12)
	}
}

func TestClampedOverload(t *testing.T) {
	// Endpoint slopes passed as the first and last values.
	ys := append(append([]float64{0.5}, testYs...), -1)
	f := PiecewisePolynomialFunction1D{}

	table := []PiecewisePolynomialInterpolator{
		NewCubicSplineInterpolator(), NewNaturalSplineInterpolator(),
	}
	for i, sp := range table {
		res, err := sp.Interpolate(testXs, ys)
		require.NoError(t, err)
		want, err := NewClampedCubicSplineInterpolator(0.5, -1).Interpolate(testXs, testYs)
		require.NoError(t, err)

		for _, x := range linspace(0.5, 5, 19) {
			assert.InDelta(t, eval1(t, want, x), eval1(t, res, x), 1e-12,
				"%d) x = %g", i, x)
		}
		d, err := f.DifferentiateAt(res, testXs[0])
		require.NoError(t, err)
		assert.InDelta(t, 0.5, d[0], 1e-12)
	}
}

func TestDegradation(t *testing.T) {
	table := []struct {
		sp         PiecewisePolynomialInterpolator
		two, three int
	}{
		{NewCubicSplineInterpolator(), 2, 3},
		{NewNaturalSplineInterpolator(), 2, 4},
		{NewConstrainedCubicSplineInterpolator(), 2, 4},
		{NewSemiLocalCubicSplineInterpolator(), 2, 4},
		{NewLinearInterpolator(), 2, 2},
		{NewMonotonicityPreservingCubicSplineInterpolator(
			NewCubicSplineInterpolator()), 4, 4},
		{NewNonnegativityPreservingCubicSplineInterpolator(
			NewCubicSplineInterpolator()), 4, 4},
	}

	for i, test := range table {
		res, err := test.sp.Interpolate([]float64{1, 3}, []float64{2, 6})
		require.NoError(t, err, "%d)", i)
		assert.Equal(t, test.two, res.Order(), "%d) two points", i)
		for _, x := range []float64{1, 1.5, 2, 3} {
			assert.InDelta(t, 2*x, eval1(t, res, x), 1e-12, "%d) x = %g", i, x)
		}

		xs, ys := []float64{0, 1, 3}, []float64{1, 2, 10}
		res, err = test.sp.Interpolate(xs, ys)
		require.NoError(t, err, "%d)", i)
		assert.Equal(t, test.three, res.Order(), "%d) three points", i)
		for j := range xs {
			assert.InDelta(t, ys[j], eval1(t, res, xs[j]), 1e-12)
		}
	}

	// The nonnegative quintic needs a third point.
	_, err := NewNonnegativityPreservingQuinticSplineInterpolator(
		NewCubicSplineInterpolator(),
	).Interpolate([]float64{1, 3}, []float64{2, 6})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Three points on the not-a-knot spline give the parabola through them.
	res, err := NewCubicSplineInterpolator().Interpolate(
		[]float64{0, 1, 3}, []float64{0, 1, 9},
	)
	require.NoError(t, err)
	for _, x := range linspace(0, 3, 13) {
		assert.InDelta(t, x*x, eval1(t, res, x), 1e-12)
	}
}

func TestInterpolateMulti(t *testing.T) {
	ys := [][]float64{testYs, {3, 1, 4, 1, 5, 9}}
	sp := NewCubicSplineInterpolator()
	res, err := sp.InterpolateMulti(testXs, ys)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Dimension())
	assert.Equal(t, 2*(len(testXs)-1), len(res.Coefs()))

	f := PiecewisePolynomialFunction1D{}
	for j := range ys {
		single, err := sp.Interpolate(testXs, ys[j])
		require.NoError(t, err)
		for i := 0; i < res.NumberOfIntervals(); i++ {
			assert.Equal(t, single.Coef(i, 0), res.Coef(i, j))
		}
		for _, x := range []float64{0.7, 2.2, 4.6} {
			v, err := f.Evaluate(res, x)
			require.NoError(t, err)
			assert.InDelta(t, eval1(t, single, x), v[j], 1e-14)
		}
	}
}

func TestInterpolatorErrors(t *testing.T) {
	sp := NewCubicSplineInterpolator()
	table := []struct {
		name   string
		xs, ys []float64
	}{
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
		{"one point", []float64{1}, []float64{1}},
		{"repeated key", []float64{1, 2, 2}, []float64{1, 2, 3}},
		{"nearly repeated key", []float64{1, 2, 2 + 1e-14}, []float64{1, 2, 3}},
		{"NaN key", []float64{1, math.NaN(), 3}, []float64{1, 2, 3}},
		{"infinite value", []float64{1, 2, 3}, []float64{1, math.Inf(1), 3}},
	}
	for _, test := range table {
		_, err := sp.Interpolate(test.xs, test.ys)
		assert.True(t, errors.Is(err, ErrInvalidArgument), test.name)
		_, err = sp.InterpolateWithSensitivity(test.xs, test.ys)
		assert.ErrorIs(t, err, ErrInvalidArgument, test.name)
	}

	_, err := sp.InterpolateMulti(testXs, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Values overflow the coefficients.
	_, err = sp.Interpolate([]float64{0, 1, 2}, []float64{0, 1e308, -1e308})
	assert.ErrorContains(t, err, "too large")

	// The clamped overload is only accepted where it is meaningful.
	_, err = NewLinearInterpolator().Interpolate([]float64{0, 1}, []float64{0, 1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewPiecewisePolynomialResult(t *testing.T) {
	res, err := NewPiecewisePolynomialResult(
		[]float64{0, 1, 2}, [][]float64{{1, 0}, {2, 1}}, 2, 1,
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NumberOfIntervals())
	assert.InDelta(t, 2, eval1(t, res, 1.5), 1e-15)

	_, err = NewPiecewisePolynomialResult([]float64{0, 1}, [][]float64{{1, 0}}, 3, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPiecewisePolynomialResult([]float64{1, 0}, [][]float64{{1, 0}}, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPiecewisePolynomialResult([]float64{0, 1}, [][]float64{{1, 0}}, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func BenchmarkCubicSpline100(b *testing.B) {
	xs := linspace(0, 10, 100)
	ys := make([]float64, len(xs))
	for i := range xs {
		ys[i] = math.Sin(xs[i])
	}
	sp := NewCubicSplineInterpolator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sp.Interpolate(xs, ys)
	}
}

func BenchmarkCubicSplineSensitivity100(b *testing.B) {
	xs := linspace(0, 10, 100)
	ys := make([]float64, len(xs))
	for i := range xs {
		ys[i] = math.Sin(xs[i])
	}
	sp := NewCubicSplineInterpolator()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sp.InterpolateWithSensitivity(xs, ys)
	}
}
