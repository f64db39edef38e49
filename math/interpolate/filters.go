package interpolate

import (
	"math"
)

// The interpolators in this file decorate a primary interpolator: the
// primary supplies slopes (and second derivatives) at every knot, which are
// then filtered and fed to a Hermite construction that keeps the knot
// values.

// MonotonicityPreservingCubicSplineInterpolator clips the slopes of a
// primary spline with the extended Hyman filter, so the result is monotone
// wherever the data are. At a local extremum of the data the slope is not
// forced to zero; it follows the parabola through the neighbouring points.
type MonotonicityPreservingCubicSplineInterpolator struct {
	splineBase
	primary PiecewisePolynomialInterpolator
}

// MonotonicityPreservingQuinticSplineInterpolator is the quintic version
// of MonotonicityPreservingCubicSplineInterpolator. Slopes are clipped into
// a tighter interval and second derivatives are clipped into the range
// which keeps every interval monotone.
type MonotonicityPreservingQuinticSplineInterpolator struct {
	splineBase
	primary PiecewisePolynomialInterpolator
}

// NonnegativityPreservingCubicSplineInterpolator bounds the slopes of a
// primary spline so that it stays nonnegative wherever the data are.
type NonnegativityPreservingCubicSplineInterpolator struct {
	splineBase
	primary PiecewisePolynomialInterpolator
}

// NonnegativityPreservingQuinticSplineInterpolator bounds the slopes and
// second derivatives of a primary spline so that the quintic Hermite spline
// through them stays nonnegative wherever the data are.
type NonnegativityPreservingQuinticSplineInterpolator struct {
	splineBase
	primary PiecewisePolynomialInterpolator
}

func NewMonotonicityPreservingCubicSplineInterpolator(
	primary PiecewisePolynomialInterpolator,
) *MonotonicityPreservingCubicSplineInterpolator {
	return &MonotonicityPreservingCubicSplineInterpolator{
		splineBase{monotoneFilter{primary, false}}, primary,
	}
}

func NewMonotonicityPreservingQuinticSplineInterpolator(
	primary PiecewisePolynomialInterpolator,
) *MonotonicityPreservingQuinticSplineInterpolator {
	return &MonotonicityPreservingQuinticSplineInterpolator{
		splineBase{monotoneFilter{primary, true}}, primary,
	}
}

func NewNonnegativityPreservingCubicSplineInterpolator(
	primary PiecewisePolynomialInterpolator,
) *NonnegativityPreservingCubicSplineInterpolator {
	return &NonnegativityPreservingCubicSplineInterpolator{
		splineBase{nonnegFilter{primary, false}}, primary,
	}
}

func NewNonnegativityPreservingQuinticSplineInterpolator(
	primary PiecewisePolynomialInterpolator,
) *NonnegativityPreservingQuinticSplineInterpolator {
	return &NonnegativityPreservingQuinticSplineInterpolator{
		splineBase{nonnegFilter{primary, true}}, primary,
	}
}

// Primary returns the decorated interpolator.
func (sp *MonotonicityPreservingCubicSplineInterpolator) Primary() PiecewisePolynomialInterpolator {
	return sp.primary
}

// Primary returns the decorated interpolator.
func (sp *MonotonicityPreservingQuinticSplineInterpolator) Primary() PiecewisePolynomialInterpolator {
	return sp.primary
}

// Primary returns the decorated interpolator.
func (sp *NonnegativityPreservingCubicSplineInterpolator) Primary() PiecewisePolynomialInterpolator {
	return sp.primary
}

// Primary returns the decorated interpolator.
func (sp *NonnegativityPreservingQuinticSplineInterpolator) Primary() PiecewisePolynomialInterpolator {
	return sp.primary
}

// primaryRows runs the primary interpolator over sorted data. If the data
// carry gradients, so do the returned rows. vals are the data values with
// any clamped endpoint slopes removed.
func primaryRows(
	name string, primary PiecewisePolynomialInterpolator,
	xs []float64, ys []fwd, minOrder int,
) (rows [][]fwd, vals []fwd, err error) {
	if primary == nil {
		return nil, nil, invalidf("%s has no primary interpolator", name)
	}

	var (
		res   *PiecewisePolynomialResult
		sense [][][]float64
	)
	if ys[0].d != nil {
		rs, err := primary.InterpolateWithSensitivity(xs, values(ys))
		if err != nil {
			return nil, nil, err
		}
		res, sense = &rs.PiecewisePolynomialResult, rs.sense
	} else {
		res, err = primary.Interpolate(xs, values(ys))
		if err != nil {
			return nil, nil, err
		}
	}

	// Two and three points legitimately give lower-order primaries, which
	// are raised to minOrder below.
	if res.order < minOrder && len(xs) > 3 {
		return nil, nil, invalidf(
			"%s needs a primary interpolator of order %d or more, "+
				"but the primary result has order %d", name, minOrder, res.order,
		)
	} else if !equalFloats(res.knots, xs) {
		return nil, nil, invalidf(
			"%s needs a primary interpolator with knots at the data", name,
		)
	}

	rows = make([][]fwd, len(res.coefs))
	for i := range rows {
		row := make([]fwd, res.order)
		for k := range row {
			row[k].v = res.coefs[i][k]
			if sense != nil {
				row[k].d = sense[i][k]
			}
		}
		rows[i] = padRow(row, minOrder)
	}

	vals = ys
	if len(ys) == len(xs)+2 {
		vals = ys[1 : len(ys)-1]
	}
	return rows, vals, nil
}

// secantPattern classifies the secants on either side of a knot.
type secantPattern int

const (
	// Both secants have the same strict sign.
	monotonePattern secantPattern = iota
	// The secants have opposite strict signs.
	extremumPattern
	// At least one secant is zero.
	touchingPattern
)

func classify(left, right float64) secantPattern {
	switch {
	case left*right > 0:
		return monotonePattern
	case left*right < 0:
		return extremumPattern
	}
	return touchingPattern
}

// clipSigned clips d into [0, bound] after flipping it into the increasing
// frame given by sigma.
func clipSigned(d fwd, sigma float64, bound fwd) fwd {
	return clip(d.scale(sigma), cst(0), bound).scale(sigma)
}

// hymanSlopes applies the extended Hyman filter of Dougherty, Edelman and
// Hyman to cubic slopes. An interior slope keeps the sign of the parabola
// through the knot and its neighbours, and is bounded by
// 3*min(|left|, |right|, |parabola|). Where the data curve the same way on
// one side, the bound may grow to 1.5 times the smaller of the central and
// that side's parabola slopes. End slopes use their only secant.
func hymanSlopes(xs []float64, deltas, ds []fwd) []fwd {
	n := len(ds)
	hs := widths(xs)
	out := make([]fwd, n)
	out[0] = clipEnd(ds[0], deltas[0], 3)
	out[n-1] = clipEnd(ds[n-1], deltas[n-2], 3)

	for i := 1; i < n-1; i++ {
		hl, hr := hs[i-1], hs[i]
		p := lin(hr/(hl+hr), deltas[i-1], hl/(hl+hr), deltas[i])
		bound := fmin(fmin(deltas[i-1].abs(), deltas[i].abs()), p.abs()).scale(3)
		curv := deltas[i].v - deltas[i-1].v

		if i > 1 {
			hll := hs[i-2]
			pl := lin(
				(hll+2*hl)/(hll+hl), deltas[i-1], -hl/(hll+hl), deltas[i-2],
			)
			if sameSign(pl.v, p.v, deltas[i-1].v-deltas[i-2].v, curv) {
				bound = fmax(bound, fmin(p.abs(), pl.abs()).scale(1.5))
			}
		}
		if i < n-2 {
			hrr := hs[i+1]
			pr := lin(
				(2*hr+hrr)/(hr+hrr), deltas[i], -hr/(hr+hrr), deltas[i+1],
			)
			if sameSign(-pr.v, -p.v, deltas[i+1].v-deltas[i].v, curv) {
				bound = fmax(bound, fmin(p.abs(), pr.abs()).scale(1.5))
			}
		}

		out[i] = clipSigned(ds[i], sign(p.v), bound)
	}
	return out
}

func sameSign(a, b, c, d float64) bool {
	s := sign(a)
	return sign(b) == s && sign(c) == s && sign(d) == s
}

// filterSlopes is the plain monotonicity filter used by the quintic.
// Interior slopes are clipped into [0, factor*min(|left|, |right|)] when the
// neighbouring secants agree in sign and set to zero at extrema and flat
// spots, which boundCurvatures relies on. End slopes use their only
// secant.
func filterSlopes(deltas, ds []fwd, factor float64) []fwd {
	n := len(ds)
	out := make([]fwd, n)
	out[0] = clipEnd(ds[0], deltas[0], factor)
	out[n-1] = clipEnd(ds[n-1], deltas[n-2], factor)

	for i := 1; i < n-1; i++ {
		left, right := deltas[i-1], deltas[i]
		switch classify(left.v, right.v) {
		case monotonePattern:
			bound := fmin(left.abs(), right.abs()).scale(factor)
			out[i] = clipSigned(ds[i], sign(left.v), bound)
		case extremumPattern, touchingPattern:
			out[i] = cst(0)
		}
	}
	return out
}

func clipEnd(d, delta fwd, factor float64) fwd {
	if delta.v == 0 {
		return cst(0)
	}
	return clipSigned(d, sign(delta.v), delta.abs().scale(factor))
}

// boundCurvatures clips second derivatives into the range where every
// quintic Hermite interval is monotone. With u = (x - x_k)/h, the derivative
// of the quintic on an increasing interval is a quartic in u whose
// Bernstein coefficients are
//
//	d_k, d_k + h s_k/4, 5 delta - 2 d_k - 2 d_{k+1} - h (s_k - s_{k+1})/4,
//	d_{k+1} - h s_{k+1}/4, d_{k+1}.
//
// They are all nonnegative when the slopes are in [0, 5/4 delta] and the
// third coefficient's budget is split evenly between the two knots.
func boundCurvatures(xs []float64, deltas, ds, ss []fwd) []fwd {
	n := len(ss)
	lo, hi := make([]fwd, n), make([]fwd, n)
	for i := range lo {
		lo[i], hi[i] = cst(math.Inf(-1)), cst(math.Inf(+1))
	}
	tighten := func(i int, l, h fwd) {
		lo[i], hi[i] = fmax(lo[i], l), fmin(hi[i], h)
	}

	for k := 0; k < n-1; k++ {
		h := xs[k+1] - xs[k]
		sigma := sign(deltas[k].v)
		if sigma == 0 {
			tighten(k, cst(0), cst(0))
			tighten(k+1, cst(0), cst(0))
			continue
		}

		// Bounds on sigma*s in the increasing frame.
		r := lin(5*sigma, deltas[k], -2*sigma, ds[k]).sub(ds[k+1].scale(2 * sigma))
		loL, hiL := ds[k].scale(-4*sigma/h), r.scale(2/h)
		loR, hiR := r.scale(-2/h), ds[k+1].scale(4*sigma/h)
		if sigma > 0 {
			tighten(k, loL, hiL)
			tighten(k+1, loR, hiR)
		} else {
			tighten(k, hiL.scale(-1), loL.scale(-1))
			tighten(k+1, hiR.scale(-1), loR.scale(-1))
		}
	}

	out := make([]fwd, n)
	for i := range out {
		out[i] = clip(ss[i], lo[i], hi[i])
	}
	return out
}

type monotoneFilter struct {
	primary PiecewisePolynomialInterpolator
	quintic bool
}

func (f monotoneFilter) name() string {
	if f.quintic {
		return "MonotonicityPreservingQuinticSplineInterpolator"
	}
	return "MonotonicityPreservingCubicSplineInterpolator"
}

func (monotoneFilter) minPoints() int { return 2 }
func (f monotoneFilter) clampable() bool {
	return AcceptsBoundaryDerivatives(f.primary)
}

func (f monotoneFilter) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	rows, vals, err := primaryRows(f.name(), f.primary, xs, ys, 4)
	if err != nil {
		return nil, nil, err
	}

	_, ds, ss := nodeDerivs(xs, rows)
	deltas := secants(xs, vals)
	if !f.quintic {
		ds = hymanSlopes(xs, deltas, ds)
		return xs, hermiteRows(xs, vals, ds), nil
	}

	ds = filterSlopes(deltas, ds, 1.25)
	ss = boundCurvatures(xs, deltas, ds, ss)
	return xs, quinticRows(xs, vals, ds, ss), nil
}

const (
	// Values smaller than this are treated as zero by the nonnegativity
	// filter, where it stops being differentiable.
	nonnegSmall = 1e-14
	// Relative step used for finite-difference sensitivities, absolute for
	// values smaller than nonnegSmall.
	nonnegEps = 1e-6
)

type nonnegFilter struct {
	primary PiecewisePolynomialInterpolator
	quintic bool
}

func (f nonnegFilter) name() string {
	if f.quintic {
		return "NonnegativityPreservingQuinticSplineInterpolator"
	}
	return "NonnegativityPreservingCubicSplineInterpolator"
}

func (f nonnegFilter) minPoints() int {
	if f.quintic {
		return 3
	}
	return 2
}

func (f nonnegFilter) clampable() bool {
	return AcceptsBoundaryDerivatives(f.primary)
}

func (f nonnegFilter) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	if ys[0].d == nil || !hasSmallValue(xs, ys) {
		return f.filter(xs, ys)
	}

	// The filter has a kink wherever a value is zero, so sensitivities are
	// taken by central differences instead.
	knots, rows, err := f.filter(xs, seed(values(ys), false))
	if err != nil {
		return nil, nil, err
	}
	for i := range rows {
		for k := range rows[i] {
			rows[i][k].d = make([]float64, len(ys))
		}
	}

	bumped := values(ys)
	for j := range ys {
		y := ys[j].v
		up, down, step := y*(1+nonnegEps), y*(1-nonnegEps), y*nonnegEps
		if math.Abs(y) < nonnegSmall {
			up, down, step = nonnegEps, -nonnegEps, nonnegEps
		}

		bumped[j] = up
		_, rowsUp, err := f.filter(xs, seed(bumped, false))
		if err != nil {
			return nil, nil, err
		}
		bumped[j] = down
		_, rowsDown, err := f.filter(xs, seed(bumped, false))
		if err != nil {
			return nil, nil, err
		}
		bumped[j] = y

		for i := range rows {
			for k := range rows[i] {
				rows[i][k].d[j] = (rowsUp[i][k].v - rowsDown[i][k].v) / (2 * step)
			}
		}
	}
	return knots, rows, nil
}

func hasSmallValue(xs []float64, ys []fwd) bool {
	vals := ys
	if len(ys) == len(xs)+2 {
		vals = ys[1 : len(ys)-1]
	}
	for _, y := range vals {
		if math.Abs(y.v) < nonnegSmall {
			return true
		}
	}
	return false
}

func (f nonnegFilter) filter(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	minOrder, factor := 3, 3.0
	if f.quintic {
		factor = 5
	}
	rows, vals, err := primaryRows(f.name(), f.primary, xs, ys, minOrder)
	if err != nil {
		return nil, nil, err
	}

	n := len(xs)
	hs := widths(xs)
	_, ds, ss := nodeDerivs(xs, rows)
	for i := range ds {
		// Widths to the left and right of knot i. The ends only have one.
		var hl, hr float64
		switch i {
		case 0:
			hl, hr = hs[0], hs[0]
		case n - 1:
			hl, hr = hs[n-2], hs[n-2]
		default:
			hl, hr = hs[i-1], hs[i]
		}

		// A zero value keeps the primary's derivatives.
		tau := sign(vals[i].v)
		if tau == 0 {
			continue
		}

		upper := vals[i].scale(factor * tau / hl)
		lower := vals[i].scale(-factor * tau / hr)
		ds[i] = fmin(upper, fmax(lower, ds[i].scale(tau))).scale(tau)

		if f.quintic {
			r1 := lin(8/hl, ds[i], -20/(hl*hl), vals[i])
			r2 := lin(-8/hr, ds[i], -20/(hr*hr), vals[i])
			ss[i] = fmax(ss[i].scale(tau), fmax(r1, r2).scale(tau)).scale(tau)
		}
	}

	if f.quintic {
		return xs, quinticRows(xs, vals, ds, ss), nil
	}
	return xs, hermiteRows(xs, vals, ds), nil
}
