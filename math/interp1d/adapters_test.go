package interp1d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gospline/math/interpolate"
)

// interiorKeys avoid the data keys, where piecewise-linear curves have
// kinks.
var interiorKeys = []float64{1.3, 2.5, 3.2, 4.7}

func TestKnotReproduction(t *testing.T) {
	for _, name := range InterpolatorNames() {
		if name == "MonotoneConvex" {
			continue
		}
		in, err := NewInterpolator(name)
		require.NoError(t, err)
		data, err := in.DataBundle(testKeys, testValues)
		require.NoError(t, err, name)

		for i, x := range testKeys {
			v, err := in.Interpolate(data, x)
			require.NoError(t, err)
			assert.InDelta(t, testValues[i], v, 1e-12, "%s at %g", name, x)
		}
	}
}

func TestFirstDerivativeFiniteDifference(t *testing.T) {
	for _, name := range InterpolatorNames() {
		in, err := NewInterpolator(name)
		require.NoError(t, err)
		data, err := in.DataBundle(testKeys, testValues)
		require.NoError(t, err, name)

		for _, key := range interiorKeys {
			hi, err := in.Interpolate(data, key+fdEps)
			require.NoError(t, err)
			lo, err := in.Interpolate(data, key-fdEps)
			require.NoError(t, err)
			fd := (hi - lo) / (2 * fdEps)

			d, err := in.FirstDerivative(data, key)
			require.NoError(t, err)
			assert.InDelta(t, fd, d, fdTol(fd), "%s at %g", name, key)
		}
	}
}

func TestNodeSensitivitiesFiniteDifference(t *testing.T) {
	for _, name := range InterpolatorNames() {
		in, err := NewInterpolator(name)
		require.NoError(t, err)
		data, err := in.DataBundle(testKeys, testValues)
		require.NoError(t, err, name)

		for _, key := range interiorKeys {
			sense, err := in.NodeSensitivitiesForValue(data, key)
			require.NoError(t, err)
			require.Len(t, sense, len(testKeys))
			dSense, err := FirstDerivativeSensitivity(in, data, key)
			require.NoError(t, err)
			require.Len(t, dSense, len(testKeys))

			for j := range testValues {
				up, err := in.DataBundle(testKeys, bumped(testValues, j, fdEps))
				require.NoError(t, err)
				down, err := in.DataBundle(testKeys, bumped(testValues, j, -fdEps))
				require.NoError(t, err)

				vUp, _ := in.Interpolate(up, key)
				vDown, _ := in.Interpolate(down, key)
				fd := (vUp - vDown) / (2 * fdEps)
				assert.InDelta(t, fd, sense[j], fdTol(fd),
					"%s: value d/dy%d at %g", name, j, key)

				dUp, _ := in.FirstDerivative(up, key)
				dDown, _ := in.FirstDerivative(down, key)
				fd = (dUp - dDown) / (2 * fdEps)
				assert.InDelta(t, fd, dSense[j], fdTol(fd),
					"%s: slope d/dy%d at %g", name, j, key)
			}
		}
	}
}

func TestClampedBundles(t *testing.T) {
	names := []string{
		"NaturalCubicSpline", "NotAKnotCubicSpline",
		"MonotonicityPreservingCubicSpline", "LogNaturalCubicSpline",
	}
	for _, name := range names {
		in, err := NewInterpolator(name)
		require.NoError(t, err)
		data, err := in.DataBundleClamped(testKeys, testValues, 0.5, 0.25)
		require.NoError(t, err, name)

		left, err := in.FirstDerivative(data, testKeys[0])
		require.NoError(t, err)
		right, err := in.FirstDerivative(data, testKeys[4])
		require.NoError(t, err)
		assert.InDelta(t, 0.5, left, 1e-12, name)
		assert.InDelta(t, 0.25, right, 1e-12, name)

		// Sensitivities are only reported against the values.
		sense, err := in.NodeSensitivitiesForValue(data, 2.5)
		require.NoError(t, err)
		assert.Len(t, sense, len(testValues), name)
	}
}

func TestLinearInterpolator1D(t *testing.T) {
	in := NewLinearInterpolator1D()
	data, err := in.DataBundle(testKeys, testValues)
	require.NoError(t, err)

	table := []struct {
		key, v, d float64
	}{
		{1, 1, 1},
		{1.5, 1.5, 1},
		{2.25, 2.4, 1.6},
		{5, 4.4, 0.3},
		// Outside the data the boundary segments continue.
		{0, 0, 1},
		{6, 4.7, 0.3},
	}
	for i, test := range table {
		v, err := in.Interpolate(data, test.key)
		require.NoError(t, err)
		d, err := in.FirstDerivative(data, test.key)
		require.NoError(t, err)
		if math.Abs(v-test.v) > 1e-12 || math.Abs(d-test.d) > 1e-12 {
			t.Errorf("%d) Expected (%g, %g) at %g. Got (%g, %g).",
				i+1, test.v, test.d, test.key, v, d)
		}
	}

	sense, err := in.NodeSensitivitiesForValue(data, 2.25)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.75, 0.25, 0, 0}, sense, 1e-15)
}

func TestLogInterpolator1D(t *testing.T) {
	in, err := NewInterpolator("LogLinear")
	require.NoError(t, err)

	// Exponential data is linear in log space.
	xs := []float64{0, 1, 2, 4}
	ys := make([]float64, len(xs))
	for i := range xs {
		ys[i] = 3 * math.Exp(-0.5*xs[i])
	}
	data, err := in.DataBundle(xs, ys)
	require.NoError(t, err)
	for _, x := range []float64{0.3, 1.5, 3.9} {
		v, err := in.Interpolate(data, x)
		require.NoError(t, err)
		assert.InDelta(t, 3*math.Exp(-0.5*x), v, 1e-12)
		d, err := in.FirstDerivative(data, x)
		require.NoError(t, err)
		assert.InDelta(t, -1.5*math.Exp(-0.5*x), d, 1e-12)
	}

	for _, bad := range [][]float64{{1, 0, 2, 3}, {1, 2, -1, 3}} {
		_, err := in.DataBundle(xs, bad)
		assert.ErrorIs(t, err, interpolate.ErrInvalidArgument)
		assert.ErrorContains(t, err, "y should be positive")
	}
}

func TestProductInterpolator1D(t *testing.T) {
	// x*y = 2x + x^2 is reproduced exactly by a not-a-knot spline, so
	// y = 2 + x everywhere, including the limit at zero.
	in := NewProductInterpolator1D(NewPiecewisePolynomialInterpolator1D(
		interpolate.NewCubicSplineInterpolator()))
	ys := make([]float64, len(testKeys))
	for i, x := range testKeys {
		ys[i] = 2 + x
	}
	data, err := in.DataBundle(testKeys, ys)
	require.NoError(t, err)

	for _, x := range []float64{0, 1e-13, -1e-13, 1e-6, 0.5, 2.2, 4.9} {
		v, err := in.Interpolate(data, x)
		require.NoError(t, err)
		assert.InDelta(t, 2+x, v, 1e-9, "value at %g", x)

		d, err := in.FirstDerivative(data, x)
		require.NoError(t, err)
		assert.InDelta(t, 1, d, 1e-6, "slope at %g", x)
	}

	// The sensitivity at zero is the limit of the sensitivity near zero.
	at0, err := in.NodeSensitivitiesForValue(data, 0)
	require.NoError(t, err)
	near0, err := in.NodeSensitivitiesForValue(data, 1e-7)
	require.NoError(t, err)
	assert.InDeltaSlice(t, near0, at0, 1e-5)

	// Anchors may not collide with data.
	collide := NewProductInterpolator1D(NewLinearInterpolator1D(), Anchor{1, 0})
	_, err = collide.DataBundle(testKeys, ys)
	assert.ErrorIs(t, err, interpolate.ErrInvalidArgument)
}

func TestProductInterpolator1DAnchors(t *testing.T) {
	ys := make([]float64, len(testKeys))
	for i, x := range testKeys {
		ys[i] = 2 + x
	}
	spline := NewPiecewisePolynomialInterpolator1D(
		interpolate.NewCubicSplineInterpolator())

	tests := []struct {
		anchor    Anchor
		zeroValue float64
		zeroOK    bool
	}{
		{Anchor{0, 0}, 2, true},
		{Anchor{-1, -1}, 0, false},
		{Anchor{0, 1}, 0, false},
	}

	for i := range tests {
		in := NewProductInterpolator1D(spline, tests[i].anchor)
		data, err := in.DataBundle(testKeys, ys)
		require.NoError(t, err, "%d)", i)

		v, err := in.Interpolate(data, 2.5)
		require.NoError(t, err, "%d)", i)
		// x*y = 2x + x^2 is reproduced when the anchor lies on it.
		if a := tests[i].anchor; a.Value == 2*a.Key+a.Key*a.Key {
			assert.InDelta(t, 4.5, v, 1e-9, "%d)", i)
		}

		v, err = in.Interpolate(data, 0)
		_, dErr := in.FirstDerivative(data, 0)
		_, sErr := in.NodeSensitivitiesForValue(data, 0)
		if tests[i].zeroOK {
			require.NoError(t, err, "%d)", i)
			assert.NoError(t, dErr, "%d)", i)
			assert.NoError(t, sErr, "%d)", i)
			assert.InDelta(t, tests[i].zeroValue, v, 1e-9, "%d)", i)
		} else {
			assert.ErrorIs(t, err, interpolate.ErrInvalidArgument, "%d)", i)
			assert.ErrorIs(t, dErr, interpolate.ErrInvalidArgument, "%d)", i)
			assert.ErrorIs(t, sErr, interpolate.ErrInvalidArgument, "%d)", i)
		}
	}
}

func TestMonotoneConvexInterpolator1D(t *testing.T) {
	in := NewMonotoneConvexInterpolator1D()
	xs := []float64{1, 2, 3, 4}
	fds := []float64{0.01, 0.02, 0.025, 0.027}
	data, err := in.DataBundle(xs, fds)
	require.NoError(t, err)

	// Levels integrate the discrete forwards.
	level, prev := 0.0, 0.0
	for i, x := range xs {
		level += fds[i] * (x - prev)
		prev = x
		v, err := in.Interpolate(data, x)
		require.NoError(t, err)
		assert.InDelta(t, level, v, 1e-14)
	}

	_, err = in.DataBundle([]float64{0, 1}, []float64{0.01, 0.01})
	assert.ErrorIs(t, err, interpolate.ErrInvalidArgument)
}

func BenchmarkNaturalInterpolate(b *testing.B) {
	in, _ := NewInterpolator("NaturalCubicSpline")
	xs := make([]float64, 200)
	ys := make([]float64, 200)
	for i := range xs {
		xs[i] = float64(i) / 10
		ys[i] = math.Sin(xs[i])
	}
	data, _ := in.DataBundle(xs, ys)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in.Interpolate(data, float64(i%199)/10)
	}
}
