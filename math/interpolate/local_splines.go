package interpolate

// ConstrainedCubicSplineInterpolator is Kruger's constrained cubic spline.
// Slopes are the harmonic mean of the neighbouring secants and vanish
// wherever the secants change sign, so the spline does not overshoot.
type ConstrainedCubicSplineInterpolator struct{ splineBase }

// SemiLocalCubicSplineInterpolator is Akima's spline: each slope is a blend
// of the neighbouring secants weighted by how quickly the secants change on
// the far side.
type SemiLocalCubicSplineInterpolator struct{ splineBase }

func NewConstrainedCubicSplineInterpolator() *ConstrainedCubicSplineInterpolator {
	return &ConstrainedCubicSplineInterpolator{splineBase{constrained{}}}
}

func NewSemiLocalCubicSplineInterpolator() *SemiLocalCubicSplineInterpolator {
	return &SemiLocalCubicSplineInterpolator{splineBase{semiLocal{}}}
}

type constrained struct{}

func (constrained) name() string    { return "ConstrainedCubicSplineInterpolator" }
func (constrained) minPoints() int  { return 2 }
func (constrained) clampable() bool { return false }

func (constrained) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	n := len(xs)
	if n == 2 {
		return xs, linearRows(xs, ys), nil
	}

	deltas := secants(xs, ys)
	ds := make([]fwd, n)
	for i := 1; i < n-1; i++ {
		ds[i] = harmonicSlope(deltas[i-1], deltas[i])
	}
	ds[0] = lin(1.5, deltas[0], -0.5, ds[1])
	ds[n-1] = lin(1.5, deltas[n-2], -0.5, ds[n-2])

	return xs, hermiteRows(xs, ys, ds), nil
}

// harmonicSlope is 2 / (1/a + 1/b) when a and b have the same sign and zero
// otherwise.
func harmonicSlope(a, b fwd) fwd {
	if a.v*b.v <= 0 {
		return cst(0)
	}
	return a.mul(b).div(a.add(b)).scale(2)
}

type semiLocal struct{}

func (semiLocal) name() string    { return "SemiLocalCubicSplineInterpolator" }
func (semiLocal) minPoints() int  { return 2 }
func (semiLocal) clampable() bool { return false }

func (semiLocal) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	n := len(xs)
	if n == 2 {
		return xs, linearRows(xs, ys), nil
	}

	// ext[k+2] is the secant of interval k, with two secants extrapolated
	// linearly past each end.
	deltas := secants(xs, ys)
	ext := make([]fwd, n+3)
	copy(ext[2:], deltas)
	ext[1] = lin(2, ext[2], -1, ext[3])
	ext[0] = lin(2, ext[1], -1, ext[2])
	ext[n+1] = lin(2, ext[n], -1, ext[n-1])
	ext[n+2] = lin(2, ext[n+1], -1, ext[n])

	ds := make([]fwd, n)
	for i := range ds {
		// The secants to the left and right of knot i.
		left, right := ext[i+1], ext[i+2]
		w1 := ext[i+3].sub(right).abs()
		w2 := left.sub(ext[i]).abs()
		if w1.v+w2.v == 0 {
			ds[i] = lin(0.5, left, 0.5, right)
			continue
		}
		ds[i] = w1.mul(left).add(w2.mul(right)).div(w1.add(w2))
	}

	return xs, hermiteRows(xs, ys, ds), nil
}

// hermiteRows builds cubic Hermite rows from knot values and slopes.
func hermiteRows(xs []float64, ys, ds []fwd) [][]fwd {
	rows := make([][]fwd, len(xs)-1)
	for i := range rows {
		rows[i] = hermiteCubic(xs[i+1]-xs[i], ys[i], ys[i+1], ds[i], ds[i+1])
	}
	return rows
}

// quinticRows builds quintic Hermite rows from knot values, slopes and
// second derivatives.
func quinticRows(xs []float64, ys, ds, ss []fwd) [][]fwd {
	rows := make([][]fwd, len(xs)-1)
	for i := range rows {
		rows[i] = hermiteQuintic(
			xs[i+1]-xs[i], ys[i], ys[i+1], ds[i], ds[i+1], ss[i], ss[i+1],
		)
	}
	return rows
}
