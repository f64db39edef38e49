package interpolate

// MonotoneConvexSplineInterpolator is the Hagan-West monotone convex
// method. Its input is a set of discrete forwards: ys[i] is the average of
// the forward curve over [xs[i-1], xs[i]], with the curve starting at zero
// (so xs[0] must be positive and ys[0] covers [0, xs[0]]).
//
// Interpolate returns the level curve L(x), the integral of the forward
// curve from zero, and InterpolateFwds returns the forward curve itself.
// Extra knots are inserted inside intervals where the forward curve needs
// a flat section to stay monotone.
type MonotoneConvexSplineInterpolator struct{}

func NewMonotoneConvexSplineInterpolator() *MonotoneConvexSplineInterpolator {
	return &MonotoneConvexSplineInterpolator{}
}

const monotoneConvexName = "MonotoneConvexSplineInterpolator"

// Interpolate returns the level curve.
func (mc *MonotoneConvexSplineInterpolator) Interpolate(
	xs, ys []float64,
) (*PiecewisePolynomialResult, error) {
	res, err := mc.run(xs, ys, false, true)
	if err != nil {
		return nil, err
	}
	return &res.PiecewisePolynomialResult, nil
}

// InterpolateWithSensitivity returns the level curve and its sensitivity to
// the discrete forwards.
func (mc *MonotoneConvexSplineInterpolator) InterpolateWithSensitivity(
	xs, ys []float64,
) (*PiecewisePolynomialResultsWithSensitivity, error) {
	return mc.run(xs, ys, true, true)
}

// InterpolateMulti returns the level curves of several series of forwards.
// It fails unless every series needs the same inserted knots.
func (mc *MonotoneConvexSplineInterpolator) InterpolateMulti(
	xs []float64, ys [][]float64,
) (*PiecewisePolynomialResult, error) {
	return interpolateMulti(monotoneConvexName,
		func(xs, ys []float64, withSense bool) (*PiecewisePolynomialResultsWithSensitivity, error) {
			return mc.run(xs, ys, withSense, true)
		},
		xs, ys,
	)
}

// InterpolateFwds returns the forward curve.
func (mc *MonotoneConvexSplineInterpolator) InterpolateFwds(
	xs, ys []float64,
) (*PiecewisePolynomialResult, error) {
	res, err := mc.run(xs, ys, false, false)
	if err != nil {
		return nil, err
	}
	return &res.PiecewisePolynomialResult, nil
}

// InterpolateFwdsWithSensitivity returns the forward curve and its
// sensitivity to the discrete forwards.
func (mc *MonotoneConvexSplineInterpolator) InterpolateFwdsWithSensitivity(
	xs, ys []float64,
) (*PiecewisePolynomialResultsWithSensitivity, error) {
	return mc.run(xs, ys, true, false)
}

func (mc *MonotoneConvexSplineInterpolator) run(
	xs, ys []float64, withSense, levels bool,
) (*PiecewisePolynomialResultsWithSensitivity, error) {
	sx, sy, err := prepare(monotoneConvexName, xs, ys, 2, false)
	if err != nil {
		return nil, err
	}
	if sx[0] <= 0 {
		return nil, invalidf(
			"%s needs positive keys, but the first key is %g",
			monotoneConvexName, sx[0],
		)
	}

	knots, rows := forwardCurve(sx, seed(sy, withSense))
	if levels {
		rows = levelCurve(knots, rows)
	}
	return assemble(knots, rows, len(sy), withSense)
}

// mcPiece is one polynomial section of an interval, in the unit variable
// u = (t - t_start)/h. The row is descending in (u - u0).
type mcPiece struct {
	u0  fwd
	row []fwd
}

// The shortest section, as a fraction of its interval, that gets its own
// knot.
const minPieceFraction = 1e-12

// forwardCurve returns the knots and order-3 rows of the forward curve.
func forwardCurve(xs []float64, fds []fwd) ([]float64, [][]fwd) {
	n := len(xs)
	ts := make([]float64, n+1)
	copy(ts[1:], xs)

	// Instantaneous forwards at the knots.
	fs := make([]fwd, n+1)
	for i := 1; i < n; i++ {
		hl, hr := ts[i]-ts[i-1], ts[i+1]-ts[i]
		fs[i] = lin(hl/(hl+hr), fds[i], hr/(hl+hr), fds[i-1])
	}
	fs[0] = lin(1.5, fds[0], -0.5, fs[1])
	fs[n] = lin(1.5, fds[n-1], -0.5, fs[n-1])

	if allNonnegative(fds) {
		zero := cst(0)
		fs[0] = clip(fs[0], zero, fds[0].scale(2))
		for i := 1; i < n; i++ {
			fs[i] = clip(fs[i], zero, fmin(fds[i-1], fds[i]).scale(2))
		}
		fs[n] = clip(fs[n], zero, fds[n-1].scale(2))
	}

	knots := []float64{ts[0]}
	rows := [][]fwd{}
	for i := 1; i <= n; i++ {
		h := ts[i] - ts[i-1]
		fd := fds[i-1]
		pieces := haganWestPieces(fs[i-1].sub(fd), fs[i].sub(fd))

		for p, pc := range pieces {
			// Convert from u to t and add the discrete forward back.
			row := make([]fwd, len(pc.row))
			for k := range pc.row {
				pow := len(pc.row) - 1 - k
				scale := 1.0
				for q := 0; q < pow; q++ {
					scale /= h
				}
				row[k] = pc.row[k].scale(scale)
			}
			row[len(row)-1] = row[len(row)-1].add(fd)

			// Data-dependent knots are stored at their numeric position,
			// so the row is re-expanded around it.
			start := pc.u0.scale(h).addConst(ts[i-1])
			knot := ts[i-1]
			if p > 0 {
				knot = start.v
				knots = append(knots, knot)
			}
			rows = append(rows, shiftRow(row, cst(knot).sub(start)))
		}
		knots = append(knots, ts[i])
	}
	return knots, rows
}

func allNonnegative(xs []fwd) bool {
	for _, x := range xs {
		if x.v < 0 {
			return false
		}
	}
	return true
}

// haganWestPieces returns the sections of g(u) = f(u) - f_d on [0, 1]. g has
// zero mean, starts at g0 and ends at g1.
func haganWestPieces(g0, g1 fwd) []mcPiece {
	zero := cst(0)
	a, b := g0.v, g1.v

	var pieces []mcPiece
	switch {
	case a == 0 && b == 0:
		return []mcPiece{{zero, []fwd{zero, zero, zero}}}

	case a == 0 || b == 0 ||
		(a < 0 && -0.5*a <= b && b <= -2*a) ||
		(a > 0 && -0.5*a >= b && b >= -2*a):
		// g = g0 (1 - 4u + 3u^2) + g1 (3u^2 - 2u)
		return []mcPiece{{zero, []fwd{
			lin(3, g0, 3, g1), lin(-4, g0, -2, g1), g0,
		}}}

	case (a < 0 && b > -2*a) || (a > 0 && b < -2*a):
		// Flat, then a parabola rising to g1.
		eta := g1.add(g0.scale(2)).div(g1.sub(g0))
		w := cst(1).sub(eta)
		pieces = []mcPiece{
			{zero, []fwd{zero, zero, g0}},
			{eta, []fwd{g1.sub(g0).div(w.mul(w)), zero, g0}},
		}

	case (a > 0 && 0 > b && b > -0.5*a) || (a < 0 && 0 < b && b < -0.5*a):
		// A parabola falling to g1, then flat.
		eta := g1.scale(3).div(g1.sub(g0))
		dg := g0.sub(g1)
		pieces = []mcPiece{
			{zero, []fwd{dg.div(eta.mul(eta)), dg.div(eta).scale(-2), g0}},
			{eta, []fwd{zero, zero, g1}},
		}

	default:
		// g0 and g1 have the same sign: two parabolas meeting at a
		// turning point with value A.
		eta := g1.div(g1.add(g0))
		turn := g0.mul(g1).div(g0.add(g1)).scale(-1)
		w := cst(1).sub(eta)
		dl, dr := g0.sub(turn), g1.sub(turn)
		pieces = []mcPiece{
			{zero, []fwd{dl.div(eta.mul(eta)), dl.div(eta).scale(-2), g0}},
			{eta, []fwd{dr.div(w.mul(w)), zero, turn}},
		}
	}

	eta := pieces[1].u0.v
	switch {
	case eta < minPieceFraction:
		return pieces[1:]
	case eta > 1-minPieceFraction:
		return pieces[:1]
	}
	return pieces
}

// levelCurve integrates order-3 forward rows into order-4 level rows which
// start at zero.
func levelCurve(knots []float64, rows [][]fwd) [][]fwd {
	out := make([][]fwd, len(rows))
	level := cst(0)
	for i, row := range rows {
		out[i] = []fwd{row[0].scale(1.0 / 3), row[1].scale(0.5), row[2], level}
		level = evalRow(out[i], knots[i+1]-knots[i], 0)
	}
	return out
}
