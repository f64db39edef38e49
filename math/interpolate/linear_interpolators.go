package interpolate

// LinearInterpolator is a piecewise linear interpolator. It is also the
// building block of the bilinear interpolator.
type LinearInterpolator struct{ splineBase }

// NewLinearInterpolator creates a linear interpolator.
func NewLinearInterpolator() *LinearInterpolator {
	return &LinearInterpolator{splineBase{linear{}}}
}

type linear struct{}

func (linear) name() string    { return "LinearInterpolator" }
func (linear) minPoints() int  { return 2 }
func (linear) clampable() bool { return false }

func (linear) build(xs []float64, ys []fwd) ([]float64, [][]fwd, error) {
	return xs, linearRows(xs, ys), nil
}
