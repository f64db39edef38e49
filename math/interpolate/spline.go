package interpolate

import (
	"github.com/phil-mansfield/gospline/math/mat"
)

// This file contains the splines which are found by solving for the second
// derivative at every knot. Each of them also accepts "clamped" input:
// if len(ys) == len(xs) + 2, ys[0] and ys[len(ys)-1] are the first
// derivatives at the left and right ends and the interior values are the
// data.

// CubicSplineInterpolator is a not-a-knot cubic spline: the third derivative
// is continuous across the second and second-to-last knots. With three
// points it is the interpolating parabola and with two it is a line.
type CubicSplineInterpolator struct{ splineBase }

// NaturalSplineInterpolator is a cubic spline whose second derivative
// vanishes at both ends. With two points it is a line.
type NaturalSplineInterpolator struct{ splineBase }

// ClampedCubicSplineInterpolator is a cubic spline with fixed first
// derivatives at both ends.
type ClampedCubicSplineInterpolator struct {
	splineBase
	left, right float64
}

func NewCubicSplineInterpolator() *CubicSplineInterpolator {
	return &CubicSplineInterpolator{splineBase{notAKnotSpline{}}}
}

func NewNaturalSplineInterpolator() *NaturalSplineInterpolator {
	return &NaturalSplineInterpolator{splineBase{naturalSpline{}}}
}

// NewClampedCubicSplineInterpolator returns a spline whose slopes at the
// first and last knots are left and right.
func NewClampedCubicSplineInterpolator(
	left, right float64,
) *ClampedCubicSplineInterpolator {
	return &ClampedCubicSplineInterpolator{
		splineBase{clampedSpline{cst(left), cst(right)}}, left, right,
	}
}

// Derivatives returns the endpoint slopes of the spline.
func (sp *ClampedCubicSplineInterpolator) Derivatives() (left, right float64) {
	return sp.left, sp.right
}

type naturalSpline struct{}

func (naturalSpline) name() string    { return "NaturalSplineInterpolator" }
func (naturalSpline) minPoints() int  { return 2 }
func (naturalSpline) clampable() bool { return true }

func (naturalSpline) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	if len(ys) == len(xs)+2 {
		return clampedBuild(xs, ys[1:len(ys)-1], ys[0], ys[len(ys)-1])
	}

	n := len(xs)
	if n == 2 {
		return xs, linearRows(xs, ys), nil
	}

	// Solve for everything but the boundaries, which are zero.
	as, bs := make([]float64, n-2), make([]float64, n-2)
	cs, rs := make([]float64, n-2), make([]fwd, n-2)
	deltas := secants(xs, ys)
	for i := range rs {
		// j indexes into xs and ys.
		j := i + 1

		as[i] = (xs[j] - xs[j-1]) / 6
		bs[i] = (xs[j+1] - xs[j-1]) / 3
		cs[i] = (xs[j+1] - xs[j]) / 6
		rs[i] = deltas[j].sub(deltas[j-1])
	}

	inner, err := solveSecondDerivs(as, bs, cs, rs)
	if err != nil {
		return nil, nil, err
	}
	ms := make([]fwd, n)
	ms[0], ms[n-1] = cst(0), cst(0)
	copy(ms[1:n-1], inner)

	return xs, cubicRows(xs, ys, ms), nil
}

type notAKnotSpline struct{}

func (notAKnotSpline) name() string    { return "CubicSplineInterpolator" }
func (notAKnotSpline) minPoints() int  { return 2 }
func (notAKnotSpline) clampable() bool { return true }

func (notAKnotSpline) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	if len(ys) == len(xs)+2 {
		return clampedBuild(xs, ys[1:len(ys)-1], ys[0], ys[len(ys)-1])
	}

	n := len(xs)
	switch n {
	case 2:
		return xs, linearRows(xs, ys), nil
	case 3:
		return xs, parabolaRows(xs, ys), nil
	}

	hs := widths(xs)
	deltas := secants(xs, ys)

	// Rows for m_1 ... m_{n-2}, scaled by 6.
	m := n - 2
	as, bs := make([]float64, m), make([]float64, m)
	cs, rs := make([]float64, m), make([]fwd, m)
	for i := range rs {
		j := i + 1
		as[i] = hs[j-1]
		bs[i] = 2 * (hs[j-1] + hs[j])
		cs[i] = hs[j]
		rs[i] = deltas[j].sub(deltas[j-1]).scale(6)
	}

	// Eliminate m_0 = ((h0 + h1) m_1 - h0 m_2) / h1 from the first row and
	// m_{n-1} = ((a + b) m_{n-2} - b m_{n-3}) / a, with a = h_{n-3} and
	// b = h_{n-2}, from the last.
	h0, h1 := hs[0], hs[1]
	bs[0] = (h0 + h1) * (h0 + 2*h1) / h1
	cs[0] = (h1*h1 - h0*h0) / h1
	a, b := hs[n-3], hs[n-2]
	as[m-1] = (a*a - b*b) / a
	bs[m-1] = (a + b) * (2*a + b) / a

	inner, err := solveSecondDerivs(as, bs, cs, rs)
	if err != nil {
		return nil, nil, err
	}

	ms := make([]fwd, n)
	copy(ms[1:n-1], inner)
	ms[0] = lin((h0+h1)/h1, ms[1], -h0/h1, ms[2])
	ms[n-1] = lin((a+b)/a, ms[n-2], -b/a, ms[n-3])

	return xs, cubicRows(xs, ys, ms), nil
}

// parabolaRows is the interpolating parabola through three points, split
// over their two intervals.
func parabolaRows(xs []float64, ys []fwd) [][]fwd {
	h0 := xs[1] - xs[0]
	deltas := secants(xs, ys)
	c2 := deltas[1].sub(deltas[0]).scale(1 / (xs[2] - xs[0]))
	c1 := deltas[0].sub(c2.scale(h0))
	return [][]fwd{
		{c2, c1, ys[0]},
		{c2, c1.add(c2.scale(2 * h0)), ys[1]},
	}
}

type clampedSpline struct{ left, right fwd }

func (clampedSpline) name() string    { return "ClampedCubicSplineInterpolator" }
func (clampedSpline) minPoints() int  { return 2 }
func (clampedSpline) clampable() bool { return false }

func (sp clampedSpline) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	return clampedBuild(xs, ys, sp.left, sp.right)
}

// clampedBuild folds the endpoint slopes into the first and last rows of
// the full second-derivative system.
func clampedBuild(
	xs []float64, ys []fwd, left, right fwd,
) ([]float64, [][]fwd, error) {
	n := len(xs)
	hs := widths(xs)
	deltas := secants(xs, ys)

	as, bs := make([]float64, n), make([]float64, n)
	cs, rs := make([]float64, n), make([]fwd, n)

	bs[0], cs[0] = 2*hs[0], hs[0]
	rs[0] = deltas[0].sub(left).scale(6)
	for i := 1; i < n-1; i++ {
		as[i] = hs[i-1]
		bs[i] = 2 * (hs[i-1] + hs[i])
		cs[i] = hs[i]
		rs[i] = deltas[i].sub(deltas[i-1]).scale(6)
	}
	as[n-1], bs[n-1] = hs[n-2], 2*hs[n-2]
	rs[n-1] = right.sub(deltas[n-2]).scale(6)

	ms, err := solveSecondDerivs(as, bs, cs, rs)
	if err != nil {
		return nil, nil, err
	}
	return xs, cubicRows(xs, ys, ms), nil
}

func solveSecondDerivs(as, bs, cs []float64, rs []fwd) ([]fwd, error) {
	td, err := mat.NewTriDiag(as, bs, cs)
	if err != nil {
		return nil, invalidf("spline system cannot be solved: %s", err.Error())
	}
	return solveFwd(td, rs)
}

// cubicRows converts knot second derivatives to coefficient rows.
func cubicRows(xs []float64, ys, ms []fwd) [][]fwd {
	rows := make([][]fwd, len(xs)-1)
	for i := range rows {
		h := xs[i+1] - xs[i]
		delta := secant(ys[i], ys[i+1], h)
		rows[i] = []fwd{
			ms[i+1].sub(ms[i]).scale(1 / (6 * h)),
			ms[i].scale(0.5),
			delta.sub(lin(2*h/6, ms[i], h/6, ms[i+1])),
			ys[i],
		}
	}
	return rows
}
