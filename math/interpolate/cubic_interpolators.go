package interpolate

// PiecewisePolynomialResult2D is a tensor-product piecewise polynomial.
// Cell (i, j) covers [knots0[i], knots0[i+1]] x [knots1[j], knots1[j+1]];
// its matrix entry [k][l] multiplies
// (x0 - knots0[i])^(order0-1-k) (x1 - knots1[j])^(order1-1-l).
type PiecewisePolynomialResult2D struct {
	knots0, knots1 []float64
	coefs          [][][][]float64
	order          [2]int
}

func (res *PiecewisePolynomialResult2D) Knots0() []float64 {
	return append([]float64(nil), res.knots0...)
}

func (res *PiecewisePolynomialResult2D) Knots1() []float64 {
	return append([]float64(nil), res.knots1...)
}

// Coefs returns a copy of the coefficient matrix of cell (i, j).
func (res *PiecewisePolynomialResult2D) Coefs(i, j int) [][]float64 {
	cell := res.coefs[i][j]
	out := make([][]float64, len(cell))
	for k := range cell {
		out[k] = append([]float64(nil), cell[k]...)
	}
	return out
}

func (res *PiecewisePolynomialResult2D) Order() [2]int { return res.order }

// NumberOfIntervals returns the number of cells along each axis.
func (res *PiecewisePolynomialResult2D) NumberOfIntervals() [2]int {
	return [2]int{len(res.knots0) - 1, len(res.knots1) - 1}
}

// BicubicSplineInterpolator builds a PiecewisePolynomialResult2D from
// gridded data by interpolating along axis 0 with one method and then
// interpolating the resulting coefficients along axis 1 with another.
type BicubicSplineInterpolator struct {
	method0, method1 PiecewisePolynomialInterpolator
}

func NewBicubicSplineInterpolator(
	method0, method1 PiecewisePolynomialInterpolator,
) *BicubicSplineInterpolator {
	return &BicubicSplineInterpolator{method0, method1}
}

// NewBilinearSplineInterpolator returns a 2D interpolator which is linear
// along both axes.
func NewBilinearSplineInterpolator() *BicubicSplineInterpolator {
	return NewBicubicSplineInterpolator(
		NewLinearInterpolator(), NewLinearInterpolator(),
	)
}

// Interpolate fits the grid ys, where ys[i][j] is the value at
// (x0s[i], x1s[j]).
func (bi *BicubicSplineInterpolator) Interpolate(
	x0s, x1s []float64, ys [][]float64,
) (*PiecewisePolynomialResult2D, error) {
	if bi.method0 == nil || bi.method1 == nil {
		return nil, invalidf("BicubicSplineInterpolator needs two methods")
	}
	if err := checkGrid(x0s, x1s, ys); err != nil {
		return nil, err
	}

	// Stage 1: one series per axis-1 knot, interpolated along axis 0.
	cols := make([][]float64, len(x1s))
	for j := range cols {
		cols[j] = make([]float64, len(x0s))
		for i := range x0s {
			cols[j][i] = ys[i][j]
		}
	}
	res0, err := bi.method0.InterpolateMulti(x0s, cols)
	if err != nil {
		return nil, err
	}

	// Stage 2: every coefficient of every axis-0 interval, as a function of
	// x1.
	n0, o0, dim0 := res0.NumberOfIntervals(), res0.order, res0.dim
	series := make([][]float64, n0*o0)
	for l := 0; l < n0; l++ {
		for k := 0; k < o0; k++ {
			s := make([]float64, dim0)
			for j := range s {
				s[j] = res0.coefs[dim0*l+j][k]
			}
			series[l*o0+k] = s
		}
	}
	res1, err := bi.method1.InterpolateMulti(x1s, series)
	if err != nil {
		return nil, err
	}

	n1, dim1 := res1.NumberOfIntervals(), res1.dim
	out := &PiecewisePolynomialResult2D{
		knots0: res0.knots, knots1: res1.knots,
		coefs: make([][][][]float64, n0),
		order: [2]int{o0, res1.order},
	}
	for l := range out.coefs {
		out.coefs[l] = make([][][]float64, n1)
		for m := range out.coefs[l] {
			cell := make([][]float64, o0)
			for k := range cell {
				cell[k] = res1.coefs[dim1*m+l*o0+k]
			}
			out.coefs[l][m] = cell
		}
	}
	return out, nil
}

// checkGrid validates that ys is a len(x0s) x len(x1s) grid of finite
// values.
func checkGrid(x0s, x1s []float64, ys [][]float64) error {
	if len(ys) != len(x0s) {
		return invalidf(
			"grid has %d rows, but there are %d axis-0 keys", len(ys), len(x0s),
		)
	}
	for i := range ys {
		if len(ys[i]) != len(x1s) {
			return invalidf(
				"grid row %d has length %d, but there are %d axis-1 keys",
				i, len(ys[i]), len(x1s),
			)
		}
		if err := checkFinite("ys", ys[i]); err != nil {
			return err
		}
	}
	return nil
}

// PiecewisePolynomialFunction2D evaluates PiecewisePolynomialResult2Ds and
// their partial derivatives. Keys outside the knots use the nearest cell.
type PiecewisePolynomialFunction2D struct{}

func (PiecewisePolynomialFunction2D) Evaluate(
	res *PiecewisePolynomialResult2D, x0, x1 float64,
) (float64, error) {
	return evalAt2D(res, x0, x1, 0, 0)
}

func (PiecewisePolynomialFunction2D) DifferentiateX0(
	res *PiecewisePolynomialResult2D, x0, x1 float64,
) (float64, error) {
	return evalAt2D(res, x0, x1, 1, 0)
}

func (PiecewisePolynomialFunction2D) DifferentiateX1(
	res *PiecewisePolynomialResult2D, x0, x1 float64,
) (float64, error) {
	return evalAt2D(res, x0, x1, 0, 1)
}

// DifferentiateCross returns the mixed partial derivative d^2/dx0 dx1.
func (PiecewisePolynomialFunction2D) DifferentiateCross(
	res *PiecewisePolynomialResult2D, x0, x1 float64,
) (float64, error) {
	return evalAt2D(res, x0, x1, 1, 1)
}

func (PiecewisePolynomialFunction2D) DifferentiateTwiceX0(
	res *PiecewisePolynomialResult2D, x0, x1 float64,
) (float64, error) {
	return evalAt2D(res, x0, x1, 2, 0)
}

func (PiecewisePolynomialFunction2D) DifferentiateTwiceX1(
	res *PiecewisePolynomialResult2D, x0, x1 float64,
) (float64, error) {
	return evalAt2D(res, x0, x1, 0, 2)
}

// EvaluateMesh evaluates res at every (x0s[a], x1s[b]); out[a][b] is the
// value there. The derivative variants below follow the same layout.
func (PiecewisePolynomialFunction2D) EvaluateMesh(
	res *PiecewisePolynomialResult2D, x0s, x1s []float64,
) ([][]float64, error) {
	return mesh2D(res, x0s, x1s, 0, 0)
}

func (PiecewisePolynomialFunction2D) DifferentiateX0Mesh(
	res *PiecewisePolynomialResult2D, x0s, x1s []float64,
) ([][]float64, error) {
	return mesh2D(res, x0s, x1s, 1, 0)
}

func (PiecewisePolynomialFunction2D) DifferentiateX1Mesh(
	res *PiecewisePolynomialResult2D, x0s, x1s []float64,
) ([][]float64, error) {
	return mesh2D(res, x0s, x1s, 0, 1)
}

func (PiecewisePolynomialFunction2D) DifferentiateCrossMesh(
	res *PiecewisePolynomialResult2D, x0s, x1s []float64,
) ([][]float64, error) {
	return mesh2D(res, x0s, x1s, 1, 1)
}

func (PiecewisePolynomialFunction2D) DifferentiateTwiceX0Mesh(
	res *PiecewisePolynomialResult2D, x0s, x1s []float64,
) ([][]float64, error) {
	return mesh2D(res, x0s, x1s, 2, 0)
}

func (PiecewisePolynomialFunction2D) DifferentiateTwiceX1Mesh(
	res *PiecewisePolynomialResult2D, x0s, x1s []float64,
) ([][]float64, error) {
	return mesh2D(res, x0s, x1s, 0, 2)
}

func mesh2D(
	res *PiecewisePolynomialResult2D, x0s, x1s []float64, m0, m1 int,
) ([][]float64, error) {
	out := make([][]float64, len(x0s))
	for a, x0 := range x0s {
		out[a] = make([]float64, len(x1s))
		for b, x1 := range x1s {
			v, err := evalAt2D(res, x0, x1, m0, m1)
			if err != nil {
				return nil, err
			}
			out[a][b] = v
		}
	}
	return out, nil
}

func evalAt2D(
	res *PiecewisePolynomialResult2D, x0, x1 float64, m0, m1 int,
) (float64, error) {
	if !isFinite(x0) || !isFinite(x1) {
		return 0, invalidf("key (%g, %g) is not finite", x0, x1)
	} else if res.order[0] < m0+1 || res.order[1] < m1+1 {
		return 0, invalidf(
			"cannot take derivative (%d, %d) of a result of order %v",
			m0, m1, res.order,
		)
	}

	i, j := bsearch(res.knots0, x0), bsearch(res.knots1, x1)
	b0 := powerBasis(res.order[0], x0-res.knots0[i], m0)
	b1 := powerBasis(res.order[1], x1-res.knots1[j], m1)

	sum := 0.0
	for k, row := range res.coefs[i][j] {
		if b0[k] == 0 {
			continue
		}
		rowSum := 0.0
		for l, c := range row {
			rowSum += c * b1[l]
		}
		sum += b0[k] * rowSum
	}
	return sum, nil
}
