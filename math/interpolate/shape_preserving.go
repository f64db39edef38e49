package interpolate

import (
	"math"
)

// ShapePreservingCubicSplineInterpolator is a C2 cubic spline which
// follows the local monotonicity and convexity of the data. Every interval
// is split into three equal pieces and the second derivative vanishes at
// the data points, so the whole interval is determined by the slopes at its
// ends. The slopes are found by sweeping feasible slope intervals forward
// through the data and then choosing values on the way back.
//
// Some data admit no such spline; Interpolate then fails with "no spline
// found".
type ShapePreservingCubicSplineInterpolator struct{ splineBase }

func NewShapePreservingCubicSplineInterpolator() *ShapePreservingCubicSplineInterpolator {
	return &ShapePreservingCubicSplineInterpolator{splineBase{shapePreserving{}}}
}

// InterpolateMulti only accepts a single y-series.
func (sp *ShapePreservingCubicSplineInterpolator) InterpolateMulti(
	xs []float64, ys [][]float64,
) (*PiecewisePolynomialResult, error) {
	if len(ys) != 1 {
		return nil, invalidf(
			"ShapePreservingCubicSplineInterpolator does not support " +
				"multi-dimensional data",
		)
	}
	return sp.Interpolate(xs, ys[0])
}

// Relative size of a second difference below which the data are treated as
// locally linear, and of the overlap tolerated in the sweep.
const shapeTol = 1e-12

type shapePreserving struct{}

func (shapePreserving) name() string    { return "ShapePreservingCubicSplineInterpolator" }
func (shapePreserving) minPoints() int  { return 3 }
func (shapePreserving) clampable() bool { return false }

// span is a closed interval of slopes.
type span struct{ lo, hi fwd }

func (s span) intersect(o span) span {
	return span{fmax(s.lo, o.lo), fmin(s.hi, o.hi)}
}

func point(x fwd) span { return span{x, x} }

// signedBox is sigma*[0, bound].
func signedBox(sigma float64, bound fwd) span {
	if sigma > 0 {
		return span{cst(0), bound}
	}
	return span{bound.scale(-1), cst(0)}
}

func (shapePreserving) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	n := len(xs)
	deltas := secants(xs, ys)

	scale := 0.0
	for _, d := range deltas {
		scale = math.Max(scale, math.Abs(d.v))
	}

	// Sign of the second difference at each knot. The ends copy their
	// neighbours.
	betas := make([]float64, n)
	for i := 1; i < n-1; i++ {
		diff := deltas[i].v - deltas[i-1].v
		if math.Abs(diff) > shapeTol*scale {
			betas[i] = sign(diff)
		}
	}
	betas[0], betas[n-1] = betas[1], betas[n-2]

	// Intervals whose ends agree on a nonzero convexity are held convex (or
	// concave) throughout.
	convex := make([]bool, n-1)
	for k := range convex {
		convex[k] = betas[k] != 0 && betas[k] == betas[k+1]
	}

	boxes := make([]span, n)
	prefs := make([]fwd, n)
	for i := range boxes {
		boxes[i], prefs[i] = nodeBox(i, deltas, betas, convex)
	}

	// Forward sweep: feasible[i] is the set of slopes at knot i which can be
	// extended to every knot to its left.
	feasible := make([]span, n)
	feasible[0] = boxes[0]
	if empty(feasible[0], scale) {
		return nil, nil, noSplineFound(xs[0])
	}
	for k := 0; k < n-1; k++ {
		next := boxes[k+1]
		if convex[k] {
			next = next.intersect(pushForward(deltas[k], betas[k], feasible[k]))
		}
		if empty(next, scale) {
			return nil, nil, noSplineFound(xs[k+1])
		}
		feasible[k+1] = next
	}

	// Backward sweep: pick the slope closest to the preferred one which is
	// compatible with the slope already chosen to the right.
	ds := make([]fwd, n)
	ds[n-1] = clip(prefs[n-1], feasible[n-1].lo, feasible[n-1].hi)
	for k := n - 2; k >= 0; k-- {
		allowed := feasible[k]
		if convex[k] {
			allowed = allowed.intersect(pullBack(deltas[k], betas[k], ds[k+1]))
		}
		ds[k] = clip(prefs[k], allowed.lo, allowed.hi)
	}

	knots := make([]float64, 0, 3*(n-1)+1)
	rows := make([][]fwd, 0, 3*(n-1))
	for k := 0; k < n-1; k++ {
		h := xs[k+1] - xs[k]
		knots = append(knots, xs[k], xs[k]+h/3, xs[k]+2*h/3)
		rows = append(rows, thirdsRows(h, ys[k], deltas[k], ds[k], ds[k+1])...)
	}
	knots = append(knots, xs[n-1])

	return knots, rows, nil
}

func empty(s span, scale float64) bool {
	return s.lo.v-s.hi.v > shapeTol*math.Max(scale, 1)
}

func noSplineFound(x float64) error {
	return invalidf("no spline found: slope constraints at x = %g conflict", x)
}

// nodeBox returns the slopes allowed at knot i by local monotonicity and
// convexity, and the slope the spline would like to have there.
func nodeBox(
	i int, deltas []fwd, betas []float64, convex []bool,
) (span, fwd) {
	n := len(betas)

	if i == 0 || i == n-1 {
		delta, k := deltas[0], 0
		if i == n-1 {
			delta, k = deltas[n-2], n-2
		}
		switch {
		case delta.v == 0:
			return point(cst(0)), cst(0)
		case betas[i] == 0:
			return point(delta), delta
		case convex[k]:
			return signedBox(sign(delta.v), cst(math.Inf(+1))), delta
		}
		return signedBox(sign(delta.v), delta.abs().scale(1.5)), delta
	}

	left, right := deltas[i-1], deltas[i]
	if classify(left.v, right.v) != monotonePattern {
		return point(cst(0)), cst(0)
	}

	// Monotonicity only needs a cap next to an interval which may change
	// convexity.
	bound := cst(math.Inf(+1))
	if !convex[i-1] || !convex[i] {
		bound = fmin(left.abs(), right.abs()).scale(1.5)
	}
	box := signedBox(sign(left.v), bound)

	switch {
	case betas[i] > 0:
		box = box.intersect(span{left, right})
	case betas[i] < 0:
		box = box.intersect(span{right, left})
	default:
		mid := lin(0.5, left, 0.5, right)
		box = box.intersect(point(mid))
	}
	return box, harmonicSlope(left, right)
}

// Within an interval of width h = 3k with end slopes d0 and d1, the second
// derivative is piecewise linear through 0, A, B and 0, where
//
//     A = (3 delta - 2 d0 - d1) / k    B = (2 d1 + d0 - 3 delta) / k.
//
// A convex interval needs A, B >= 0 and a concave one A, B <= 0.

// pushForward returns every d1 for which some d0 in s keeps the interval
// convex (beta > 0) or concave (beta < 0).
func pushForward(delta fwd, beta float64, s span) span {
	if beta > 0 {
		return span{
			fmax(delta, lin(1.5, delta, -0.5, s.hi)),
			lin(3, delta, -2, s.lo),
		}
	}
	return span{
		lin(3, delta, -2, s.hi),
		fmin(delta, lin(1.5, delta, -0.5, s.lo)),
	}
}

// pullBack returns every d0 compatible with the slope d1 at the right end.
func pullBack(delta fwd, beta float64, d1 fwd) span {
	if beta > 0 {
		return span{lin(3, delta, -2, d1), lin(1.5, delta, -0.5, d1)}
	}
	return span{lin(1.5, delta, -0.5, d1), lin(3, delta, -2, d1)}
}

// thirdsRows returns the three cubic pieces of an interval.
func thirdsRows(h float64, y0, delta, d0, d1 fwd) [][]fwd {
	k := h / 3
	a := lin(3/k, delta, -2/k, d0).sub(d1.scale(1 / k))
	b := lin(2/k, d1, 1/k, d0).sub(delta.scale(3 / k))

	// Value and slope at the starts of the second and third pieces.
	ya := y0.add(d0.scale(k)).add(a.scale(k * k / 6))
	sa := d0.add(a.scale(k / 2))
	yb := ya.add(sa.scale(k)).add(lin(k*k/3, a, k*k/6, b))
	sb := sa.add(lin(k/2, a, k/2, b))

	return [][]fwd{
		{a.scale(1 / (6 * k)), cst(0), d0, y0},
		{b.sub(a).scale(1 / (6 * k)), a.scale(0.5), sa, ya},
		{b.scale(-1 / (6 * k)), b.scale(0.5), sb, yb},
	}
}
