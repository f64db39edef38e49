package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// productGrid samples y = (x0 + 2)(x1 + 5).
func productGrid() (x0s, x1s []float64, ys [][]float64) {
	x0s = []float64{1, 2, 3, 4}
	x1s = []float64{-1, 0, 1, 2, 3}
	ys = make([][]float64, len(x0s))
	for i := range x0s {
		ys[i] = make([]float64, len(x1s))
		for j := range x1s {
			ys[i][j] = (x0s[i] + 2) * (x1s[j] + 5)
		}
	}
	return x0s, x1s, ys
}

func transpose(ys [][]float64) [][]float64 {
	out := make([][]float64, len(ys[0]))
	for j := range out {
		out[j] = make([]float64, len(ys))
		for i := range ys {
			out[j][i] = ys[i][j]
		}
	}
	return out
}

func TestBicubicCoefficients(t *testing.T) {
	x0s, x1s, ys := productGrid()
	bi := NewBicubicSplineInterpolator(
		NewNaturalSplineInterpolator(), NewNaturalSplineInterpolator(),
	)
	res, err := bi.Interpolate(x0s, x1s, ys)
	require.NoError(t, err)

	assert.Equal(t, [2]int{4, 4}, res.Order())
	assert.Equal(t, [2]int{3, 4}, res.NumberOfIntervals())
	assert.Equal(t, x0s, res.Knots0())
	assert.Equal(t, x1s, res.Knots1())

	for i := 0; i < len(x0s)-1; i++ {
		for j := 0; j < len(x1s)-1; j++ {
			want := [][]float64{
				{0, 0, 0, 0},
				{0, 0, 0, 0},
				{0, 0, 1, 5 + x1s[j]},
				{0, 0, 2 + x0s[i], (2 + x0s[i]) * (5 + x1s[j])},
			}
			got := res.Coefs(i, j)
			for k := range want {
				assert.InDeltaSlice(t, want[k], got[k], 1e-12,
					"cell (%d, %d) row %d", i, j, k)
			}
		}
	}
}

func TestBicubicDerivatives(t *testing.T) {
	x0s, x1s, ys := productGrid()
	bi := NewBicubicSplineInterpolator(
		NewCubicSplineInterpolator(), NewNaturalSplineInterpolator(),
	)
	res, err := bi.Interpolate(x0s, x1s, ys)
	require.NoError(t, err)

	f := PiecewisePolynomialFunction2D{}
	points := [][2]float64{{1, -1}, {1.5, 0.3}, {2.7, 2.9}, {4, 3}, {0, 5}}
	for _, p := range points {
		x0, x1 := p[0], p[1]
		table := []struct {
			name string
			eval func(*PiecewisePolynomialResult2D, float64, float64) (float64, error)
			want float64
		}{
			{"value", f.Evaluate, (x0 + 2) * (x1 + 5)},
			{"d/dx0", f.DifferentiateX0, x1 + 5},
			{"d/dx1", f.DifferentiateX1, x0 + 2},
			{"cross", f.DifferentiateCross, 1},
			{"d2/dx0^2", f.DifferentiateTwiceX0, 0},
			{"d2/dx1^2", f.DifferentiateTwiceX1, 0},
		}
		for _, test := range table {
			v, err := test.eval(res, x0, x1)
			require.NoError(t, err)
			assert.InDelta(t, test.want, v, 1e-10, "%s at (%g, %g)", test.name, x0, x1)
		}
	}

	keys0, keys1 := []float64{1.2, 3.3}, []float64{-0.5, 0, 2.5}
	mesh, err := f.EvaluateMesh(res, keys0, keys1)
	require.NoError(t, err)
	dx1, err := f.DifferentiateX1Mesh(res, keys0, keys1)
	require.NoError(t, err)
	require.Len(t, mesh, 2)
	for a := range keys0 {
		require.Len(t, mesh[a], 3)
		for b := range keys1 {
			assert.InDelta(t, (keys0[a]+2)*(keys1[b]+5), mesh[a][b], 1e-10)
			assert.InDelta(t, keys0[a]+2, dx1[a][b], 1e-10)
		}
	}
}

func TestBicubicKnotReproduction(t *testing.T) {
	x0s := []float64{0, 0.5, 2, 3}
	x1s := []float64{10, 11, 13}
	ys := [][]float64{{1, 4, 2}, {0, -1, 3}, {5, 5, 2}, {1, 0.5, 0.25}}

	interps := []*BicubicSplineInterpolator{
		NewBilinearSplineInterpolator(),
		NewBicubicSplineInterpolator(
			NewCubicSplineInterpolator(), NewConstrainedCubicSplineInterpolator()),
		NewBicubicSplineInterpolator(
			NewMonotonicityPreservingCubicSplineInterpolator(NewNaturalSplineInterpolator()),
			NewLinearInterpolator()),
	}
	f := PiecewisePolynomialFunction2D{}
	for n, bi := range interps {
		res, err := bi.Interpolate(x0s, x1s, ys)
		require.NoError(t, err, "%d)", n)
		for i := range x0s {
			for j := range x1s {
				v, err := f.Evaluate(res, x0s[i], x1s[j])
				require.NoError(t, err)
				assert.InDelta(t, ys[i][j], v, 1e-12, "%d) (%d, %d)", n, i, j)
			}
		}
	}

	res, err := NewBilinearSplineInterpolator().Interpolate(x0s, x1s, ys)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 2}, res.Order())
}

func TestBicubicTranspose(t *testing.T) {
	x0s := []float64{0, 0.5, 2, 3}
	x1s := []float64{10, 11, 13}
	ys := [][]float64{{1, 4, 2}, {0, -1, 3}, {5, 5, 2}, {1, 0.5, 0.25}}

	interps := []*BicubicSplineInterpolator{
		NewBilinearSplineInterpolator(),
		NewBicubicSplineInterpolator(
			NewNaturalSplineInterpolator(), NewNaturalSplineInterpolator()),
	}
	for n, bi := range interps {
		res, err := bi.Interpolate(x0s, x1s, ys)
		require.NoError(t, err)
		resT, err := bi.Interpolate(x1s, x0s, transpose(ys))
		require.NoError(t, err)

		for i := 0; i < len(x0s)-1; i++ {
			for j := 0; j < len(x1s)-1; j++ {
				cell, cellT := res.Coefs(i, j), transpose(resT.Coefs(j, i))
				for k := range cell {
					assert.InDeltaSlice(t, cell[k], cellT[k], 1e-12,
						"%d) cell (%d, %d) row %d", n, i, j, k)
				}
			}
		}
	}
}

func TestBicubicErrors(t *testing.T) {
	x0s, x1s, ys := productGrid()
	bi := NewBilinearSplineInterpolator()

	_, err := bi.Interpolate(x0s[:3], x1s, ys)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = bi.Interpolate(x0s, x1s[:4], ys)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBicubicSplineInterpolator(nil, NewLinearInterpolator()).Interpolate(x0s, x1s, ys)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	res, err := bi.Interpolate(x0s, x1s, ys)
	require.NoError(t, err)
	_, err = PiecewisePolynomialFunction2D{}.DifferentiateTwiceX0(res, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func BenchmarkBicubicEvaluate(b *testing.B) {
	x0s, x1s := linspace(0, 1, 30), linspace(0, 1, 30)
	ys := make([][]float64, len(x0s))
	for i := range ys {
		ys[i] = make([]float64, len(x1s))
		for j := range ys[i] {
			ys[i][j] = x0s[i]*x0s[i] - x1s[j]
		}
	}
	res, _ := NewBicubicSplineInterpolator(
		NewNaturalSplineInterpolator(), NewNaturalSplineInterpolator(),
	).Interpolate(x0s, x1s, ys)
	f := PiecewisePolynomialFunction2D{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Evaluate(res, float64(i%97)/97, float64(i%89)/89)
	}
}
