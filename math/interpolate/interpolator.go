package interpolate

import (
	"math"
	"sort"
)

// PiecewisePolynomialInterpolator is implemented by every spline in this
// package. Input does not need to be sorted, but keys must be distinct. The
// Results are always expressed in increasing knot order, and sensitivity
// columns follow the sorted order of the input.
type PiecewisePolynomialInterpolator interface {
	Interpolate(xs, ys []float64) (*PiecewisePolynomialResult, error)
	InterpolateMulti(xs []float64, ys [][]float64) (*PiecewisePolynomialResult, error)
	InterpolateWithSensitivity(xs, ys []float64) (*PiecewisePolynomialResultsWithSensitivity, error)
}

var (
	_ PiecewisePolynomialInterpolator = &CubicSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &NaturalSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &ClampedCubicSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &LinearInterpolator{}
	_ PiecewisePolynomialInterpolator = &ConstrainedCubicSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &SemiLocalCubicSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &MonotonicityPreservingCubicSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &MonotonicityPreservingQuinticSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &NonnegativityPreservingCubicSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &NonnegativityPreservingQuinticSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &ShapePreservingCubicSplineInterpolator{}
	_ PiecewisePolynomialInterpolator = &MonotoneConvexSplineInterpolator{}
)

// DistinctTolerance is the relative separation below which two keys are
// treated as the same point.
const DistinctTolerance = 1e-12

// builder is the part of a spline which differs between methods. build
// receives sorted, validated keys and returns knots and one descending
// coefficient row per interval. Every row must have the same length.
type builder interface {
	name() string
	minPoints() int
	// clampable reports whether len(ys) == len(xs)+2 is accepted, in which
	// case the first and last values are endpoint slopes.
	clampable() bool
	build(xs []float64, ys []fwd) ([]float64, [][]fwd, error)
}

// splineBase implements PiecewisePolynomialInterpolator on top of a builder.
type splineBase struct {
	b builder
}

// AcceptsBoundaryDerivatives reports whether Interpolate takes
// len(ys) == len(xs)+2, with the first and last values read as the slopes at
// the two ends.
func (sp splineBase) AcceptsBoundaryDerivatives() bool { return sp.b.clampable() }

// AcceptsBoundaryDerivatives reports whether sp supports the clamped input
// convention described on splineBase.AcceptsBoundaryDerivatives.
func AcceptsBoundaryDerivatives(sp PiecewisePolynomialInterpolator) bool {
	c, ok := sp.(interface{ AcceptsBoundaryDerivatives() bool })
	return ok && c.AcceptsBoundaryDerivatives()
}

func (sp splineBase) Interpolate(
	xs, ys []float64,
) (*PiecewisePolynomialResult, error) {
	res, err := sp.run(xs, ys, false)
	if err != nil {
		return nil, err
	}
	return &res.PiecewisePolynomialResult, nil
}

func (sp splineBase) InterpolateWithSensitivity(
	xs, ys []float64,
) (*PiecewisePolynomialResultsWithSensitivity, error) {
	return sp.run(xs, ys, true)
}

func (sp splineBase) InterpolateMulti(
	xs []float64, ys [][]float64,
) (*PiecewisePolynomialResult, error) {
	return interpolateMulti(sp.b.name(), sp.run, xs, ys)
}

// interpolateMulti runs a one-dimensional construction on every series and
// stacks the rows. All series must produce the same knots and order.
func interpolateMulti(
	name string,
	run func(xs, ys []float64, withSense bool) (*PiecewisePolynomialResultsWithSensitivity, error),
	xs []float64, ys [][]float64,
) (*PiecewisePolynomialResult, error) {
	if len(ys) == 0 {
		return nil, invalidf("%s was given no y-series", name)
	}

	results := make([]*PiecewisePolynomialResultsWithSensitivity, len(ys))
	for j := range ys {
		res, err := run(xs, ys[j], false)
		if err != nil {
			return nil, err
		}
		if j > 0 && (res.order != results[0].order ||
			!equalFloats(res.knots, results[0].knots)) {
			return nil, invalidf(
				"%s produced different knots for different y-series; "+
					"multi-dimensional data is not supported", name,
			)
		}
		results[j] = res
	}

	first := results[0]
	out := &PiecewisePolynomialResult{
		knots: first.knots,
		coefs: make([][]float64, len(first.coefs)*len(ys)),
		order: first.order, dim: len(ys),
	}
	for i := range first.coefs {
		for j := range results {
			out.coefs[i*len(ys)+j] = results[j].coefs[i]
		}
	}
	return out, nil
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (sp splineBase) run(
	xs, ys []float64, withSense bool,
) (*PiecewisePolynomialResultsWithSensitivity, error) {
	b := sp.b
	sx, sy, err := prepare(b.name(), xs, ys, b.minPoints(), b.clampable())
	if err != nil {
		return nil, err
	}

	knots, rows, err := b.build(sx, seed(sy, withSense))
	if err != nil {
		return nil, err
	}
	return assemble(knots, rows, len(sy), withSense)
}

// prepare validates input and returns sorted copies of it.
func prepare(
	name string, xs, ys []float64, minPoints int, clampable bool,
) ([]float64, []float64, error) {
	n := len(xs)
	clamped := clampable && len(ys) == n+2
	if len(ys) != n && !clamped {
		return nil, nil, invalidf(
			"%s given len(xs) = %d but len(ys) = %d", name, n, len(ys),
		)
	} else if n < minPoints {
		return nil, nil, invalidf(
			"%s needs at least %d points, got %d", name, minPoints, n,
		)
	}
	if err := checkFinite("xs", xs); err != nil {
		return nil, nil, err
	}
	if err := checkFinite("ys", ys); err != nil {
		return nil, nil, err
	}

	sx := append([]float64(nil), xs...)
	sy := append([]float64(nil), ys...)
	if clamped {
		sortParallel(sx, sy[1:n+1])
	} else {
		sortParallel(sx, sy)
	}

	if err := checkDistinct(sx); err != nil {
		return nil, nil, err
	}
	return sx, sy, nil
}

// checkDistinct requires sorted keys to be separated by more than
// DistinctTolerance.
func checkDistinct(xs []float64) error {
	for i := 0; i < len(xs)-1; i++ {
		scale := math.Max(1, math.Max(math.Abs(xs[i]), math.Abs(xs[i+1])))
		if xs[i+1]-xs[i] <= DistinctTolerance*scale {
			return invalidf(
				"keys %g and %g are not distinct", xs[i], xs[i+1],
			)
		}
	}
	return nil
}

type parallel struct{ xs, ys []float64 }

func (p parallel) Len() int           { return len(p.xs) }
func (p parallel) Less(i, j int) bool { return p.xs[i] < p.xs[j] }
func (p parallel) Swap(i, j int) {
	p.xs[i], p.xs[j] = p.xs[j], p.xs[i]
	p.ys[i], p.ys[j] = p.ys[j], p.ys[i]
}

// sortParallel sorts xs in place, applying the same permutation to ys.
func sortParallel(xs, ys []float64) {
	if sort.Float64sAreSorted(xs) {
		return
	}
	sort.Stable(parallel{xs, ys})
}

// widths returns the interval widths of sorted keys.
func widths(xs []float64) []float64 {
	hs := make([]float64, len(xs)-1)
	for i := range hs {
		hs[i] = xs[i+1] - xs[i]
	}
	return hs
}

// secants returns the slopes of the chords between consecutive points.
func secants(xs []float64, ys []fwd) []fwd {
	ds := make([]fwd, len(xs)-1)
	for i := range ds {
		ds[i] = secant(ys[i], ys[i+1], xs[i+1]-xs[i])
	}
	return ds
}

// linearRows is the fallback for data with too few points for a method.
func linearRows(xs []float64, ys []fwd) [][]fwd {
	rows := make([][]fwd, len(xs)-1)
	for i := range rows {
		rows[i] = linearRow(xs[i+1]-xs[i], ys[i], ys[i+1])
	}
	return rows
}
