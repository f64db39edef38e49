package interp1d

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/gospline/math/interpolate"
)

var function = interpolate.PiecewisePolynomialFunction1D{}

// PiecewisePolynomialInterpolator1D adapts any spline from math/interpolate.
// Its bundles cache the spline and its sensitivities, so evaluation never
// rebuilds anything.
type PiecewisePolynomialInterpolator1D struct {
	bundler
	base interpolate.PiecewisePolynomialInterpolator
	name string
}

func NewPiecewisePolynomialInterpolator1D(
	base interpolate.PiecewisePolynomialInterpolator,
) *PiecewisePolynomialInterpolator1D {
	name := strings.TrimPrefix(fmt.Sprintf("%T", base), "*interpolate.")
	in := &PiecewisePolynomialInterpolator1D{base: base, name: name}
	in.bundler = bundler{in.bundle}
	return in
}

// Base returns the wrapped spline.
func (in *PiecewisePolynomialInterpolator1D) Base() interpolate.PiecewisePolynomialInterpolator {
	return in.base
}

func (in *PiecewisePolynomialInterpolator1D) bundle(
	xs, ys []float64, sorted bool, ends *endSlopes,
) (*DataBundle, error) {
	return newBundle(in.name, xs, ys, sorted, ends, 2, func(b *DataBundle) error {
		vals := b.values
		if b.clamped {
			if !interpolate.AcceptsBoundaryDerivatives(in.base) {
				return unsupportedEnds(in.name)
			}
			vals = make([]float64, 0, len(b.values)+2)
			vals = append(vals, b.left)
			vals = append(vals, b.values...)
			vals = append(vals, b.right)
		}

		res, err := in.base.InterpolateWithSensitivity(b.keys, vals)
		if err != nil {
			return err
		}
		b.res = res
		return nil
	})
}

func (in *PiecewisePolynomialInterpolator1D) Interpolate(
	data *DataBundle, key float64,
) (float64, error) {
	if err := checkBundle(in.name, data, key); err != nil {
		return 0, err
	}
	v, err := function.Evaluate(&data.res.PiecewisePolynomialResult, key)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (in *PiecewisePolynomialInterpolator1D) FirstDerivative(
	data *DataBundle, key float64,
) (float64, error) {
	if err := checkBundle(in.name, data, key); err != nil {
		return 0, err
	}
	d, err := function.DifferentiateAt(&data.res.PiecewisePolynomialResult, key)
	if err != nil {
		return 0, err
	}
	return d[0], nil
}

func (in *PiecewisePolynomialInterpolator1D) SecondDerivative(
	data *DataBundle, key float64,
) (float64, error) {
	if err := checkBundle(in.name, data, key); err != nil {
		return 0, err
	} else if data.res.Order() < 3 {
		// Piecewise linear.
		return 0, nil
	}
	d, err := function.DifferentiateTwiceAt(&data.res.PiecewisePolynomialResult, key)
	if err != nil {
		return 0, err
	}
	return d[0], nil
}

func (in *PiecewisePolynomialInterpolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64,
) ([]float64, error) {
	if err := checkBundle(in.name, data, key); err != nil {
		return nil, err
	}
	sense, err := function.NodeSensitivity(data.res, key)
	if err != nil {
		return nil, err
	}
	return dropEnds(data, sense), nil
}

func (in *PiecewisePolynomialInterpolator1D) NodeSensitivitiesForFirstDerivative(
	data *DataBundle, key float64,
) ([]float64, error) {
	if err := checkBundle(in.name, data, key); err != nil {
		return nil, err
	}
	sense, err := function.DifferentiateNodeSensitivity(data.res, key)
	if err != nil {
		return nil, err
	}
	return dropEnds(data, sense), nil
}

// dropEnds removes the columns belonging to the boundary derivatives of a
// clamped bundle.
func dropEnds(data *DataBundle, sense []float64) []float64 {
	if !data.clamped {
		return sense
	}
	return sense[1 : len(sense)-1]
}

// LinearInterpolator1D joins neighbouring points with straight lines. It
// needs no cached state and works directly from the bundle's keys.
type LinearInterpolator1D struct {
	bundler
}

const linearName = "LinearInterpolator1D"

func NewLinearInterpolator1D() *LinearInterpolator1D {
	in := &LinearInterpolator1D{}
	in.bundler = bundler{in.bundle}
	return in
}

func (in *LinearInterpolator1D) bundle(
	xs, ys []float64, sorted bool, ends *endSlopes,
) (*DataBundle, error) {
	return newBundle(linearName, xs, ys, sorted, ends, 2, func(b *DataBundle) error {
		if b.clamped {
			return unsupportedEnds(linearName)
		}
		return nil
	})
}

// weights returns the interval containing key and the weight of its upper
// point.
func (in *LinearInterpolator1D) weights(data *DataBundle, key float64) (int, float64) {
	i := data.LowerBoundIndex(key)
	return i, (key - data.keys[i]) / (data.keys[i+1] - data.keys[i])
}

func (in *LinearInterpolator1D) Interpolate(
	data *DataBundle, key float64,
) (float64, error) {
	if err := checkBundle(linearName, data, key); err != nil {
		return 0, err
	}
	i, t := in.weights(data, key)
	return (1-t)*data.values[i] + t*data.values[i+1], nil
}

func (in *LinearInterpolator1D) FirstDerivative(
	data *DataBundle, key float64,
) (float64, error) {
	if err := checkBundle(linearName, data, key); err != nil {
		return 0, err
	}
	i := data.LowerBoundIndex(key)
	return (data.values[i+1] - data.values[i]) /
		(data.keys[i+1] - data.keys[i]), nil
}

func (in *LinearInterpolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64,
) ([]float64, error) {
	if err := checkBundle(linearName, data, key); err != nil {
		return nil, err
	}
	i, t := in.weights(data, key)
	sense := make([]float64, data.Size())
	sense[i], sense[i+1] = 1-t, t
	return sense, nil
}

func (in *LinearInterpolator1D) NodeSensitivitiesForFirstDerivative(
	data *DataBundle, key float64,
) ([]float64, error) {
	if err := checkBundle(linearName, data, key); err != nil {
		return nil, err
	}
	i := data.LowerBoundIndex(key)
	h := data.keys[i+1] - data.keys[i]
	sense := make([]float64, data.Size())
	sense[i], sense[i+1] = -1/h, 1/h
	return sense, nil
}

// MonotoneConvexInterpolator1D treats its values as discrete forwards and
// interpolates the level curve they integrate to: Interpolate returns the
// level and FirstDerivative returns the forward curve.
type MonotoneConvexInterpolator1D struct {
	bundler
	mc *interpolate.MonotoneConvexSplineInterpolator
}

const monotoneConvexName = "MonotoneConvexInterpolator1D"

func NewMonotoneConvexInterpolator1D() *MonotoneConvexInterpolator1D {
	in := &MonotoneConvexInterpolator1D{
		mc: interpolate.NewMonotoneConvexSplineInterpolator(),
	}
	in.bundler = bundler{in.bundle}
	return in
}

func (in *MonotoneConvexInterpolator1D) bundle(
	xs, ys []float64, sorted bool, ends *endSlopes,
) (*DataBundle, error) {
	return newBundle(monotoneConvexName, xs, ys, sorted, ends, 2,
		func(b *DataBundle) error {
			if b.clamped {
				return unsupportedEnds(monotoneConvexName)
			}
			levels, err := in.mc.InterpolateWithSensitivity(b.keys, b.values)
			if err != nil {
				return err
			}
			fwds, err := in.mc.InterpolateFwdsWithSensitivity(b.keys, b.values)
			if err != nil {
				return err
			}
			b.res, b.aux = levels, fwds
			return nil
		},
	)
}

func (in *MonotoneConvexInterpolator1D) Interpolate(
	data *DataBundle, key float64,
) (float64, error) {
	if err := checkBundle(monotoneConvexName, data, key); err != nil {
		return 0, err
	}
	v, err := function.Evaluate(&data.res.PiecewisePolynomialResult, key)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (in *MonotoneConvexInterpolator1D) FirstDerivative(
	data *DataBundle, key float64,
) (float64, error) {
	if err := checkBundle(monotoneConvexName, data, key); err != nil {
		return 0, err
	}
	v, err := function.Evaluate(&data.aux.PiecewisePolynomialResult, key)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (in *MonotoneConvexInterpolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64,
) ([]float64, error) {
	if err := checkBundle(monotoneConvexName, data, key); err != nil {
		return nil, err
	}
	return function.NodeSensitivity(data.res, key)
}

func (in *MonotoneConvexInterpolator1D) NodeSensitivitiesForFirstDerivative(
	data *DataBundle, key float64,
) ([]float64, error) {
	if err := checkBundle(monotoneConvexName, data, key); err != nil {
		return nil, err
	}
	return function.NodeSensitivity(data.aux, key)
}
