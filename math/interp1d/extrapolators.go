package interp1d

import (
	"math"
)

// Extrapolator1D continues an interpolated curve past its data. Every
// method fails for keys inside [data.FirstKey(), data.LastKey()].
type Extrapolator1D interface {
	Extrapolate(data *DataBundle, key float64, interp Interpolator1D) (float64, error)
	FirstDerivative(data *DataBundle, key float64, interp Interpolator1D) (float64, error)
	NodeSensitivitiesForValue(data *DataBundle, key float64, interp Interpolator1D) ([]float64, error)
}

var (
	_ Extrapolator1D = FlatExtrapolator1D{}
	_ Extrapolator1D = LinearExtrapolator1D{}
	_ Extrapolator1D = ExponentialExtrapolator1D{}
	_ Extrapolator1D = ReciprocalExtrapolator1D{}
)

// boundary describes the curve at the data end nearest to a key.
type boundary struct {
	x, v, d float64
}

// outside checks that key is past the data and returns the nearest end.
func outside(
	name string, data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	if data == nil || interp == nil {
		return 0, invalidf("%s needs a DataBundle and an interpolator", name)
	} else if !finite(key) {
		return 0, invalidf("%s given non-finite key %g", name, key)
	} else if data.inRange(key) {
		return 0, invalidf(
			"%s: key is inside the data range: %g is in [%g, %g]",
			name, key, data.FirstKey(), data.LastKey(),
		)
	}
	if key < data.FirstKey() {
		return data.FirstKey(), nil
	}
	return data.LastKey(), nil
}

func boundaryAt(
	name string, data *DataBundle, key float64, interp Interpolator1D,
) (boundary, error) {
	x, err := outside(name, data, key, interp)
	if err != nil {
		return boundary{}, err
	}
	v, err := interp.Interpolate(data, x)
	if err != nil {
		return boundary{}, err
	}
	d, err := interp.FirstDerivative(data, x)
	if err != nil {
		return boundary{}, err
	}
	return boundary{x, v, d}, nil
}

// boundarySense returns the value and slope sensitivities at the end
// nearest key.
func boundarySense(
	name string, data *DataBundle, key float64, interp Interpolator1D,
) (x float64, s, ds []float64, err error) {
	if x, err = outside(name, data, key, interp); err != nil {
		return 0, nil, nil, err
	}
	if s, err = interp.NodeSensitivitiesForValue(data, x); err != nil {
		return 0, nil, nil, err
	}
	if ds, err = FirstDerivativeSensitivity(interp, data, x); err != nil {
		return 0, nil, nil, err
	}
	return x, s, ds, nil
}

// FlatExtrapolator1D holds the boundary value constant.
type FlatExtrapolator1D struct{}

func (FlatExtrapolator1D) Extrapolate(
	data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	x, err := outside("FlatExtrapolator1D", data, key, interp)
	if err != nil {
		return 0, err
	}
	return interp.Interpolate(data, x)
}

func (FlatExtrapolator1D) FirstDerivative(
	data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	if _, err := outside("FlatExtrapolator1D", data, key, interp); err != nil {
		return 0, err
	}
	return 0, nil
}

func (FlatExtrapolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64, interp Interpolator1D,
) ([]float64, error) {
	x, err := outside("FlatExtrapolator1D", data, key, interp)
	if err != nil {
		return nil, err
	}
	return interp.NodeSensitivitiesForValue(data, x)
}

// LinearExtrapolator1D continues the curve along its boundary tangent.
type LinearExtrapolator1D struct{}

func (LinearExtrapolator1D) Extrapolate(
	data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	b, err := boundaryAt("LinearExtrapolator1D", data, key, interp)
	if err != nil {
		return 0, err
	}
	return b.v + b.d*(key-b.x), nil
}

func (LinearExtrapolator1D) FirstDerivative(
	data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	b, err := boundaryAt("LinearExtrapolator1D", data, key, interp)
	if err != nil {
		return 0, err
	}
	return b.d, nil
}

func (LinearExtrapolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64, interp Interpolator1D,
) ([]float64, error) {
	x, s, ds, err := boundarySense("LinearExtrapolator1D", data, key, interp)
	if err != nil {
		return nil, err
	}
	for j := range s {
		s[j] += (key - x) * ds[j]
	}
	return s, nil
}

// ExponentialExtrapolator1D is linear extrapolation of the log of the curve:
// v exp((d/v)(key - x)) for boundary value v and slope d. The boundary value
// must be positive.
type ExponentialExtrapolator1D struct{}

func (ExponentialExtrapolator1D) boundary(
	data *DataBundle, key float64, interp Interpolator1D,
) (boundary, error) {
	b, err := boundaryAt("ExponentialExtrapolator1D", data, key, interp)
	if err != nil {
		return b, err
	} else if b.v <= 0 {
		return b, invalidf(
			"ExponentialExtrapolator1D: y should be positive, but the "+
				"boundary value at %g is %g", b.x, b.v,
		)
	}
	return b, nil
}

func (e ExponentialExtrapolator1D) Extrapolate(
	data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	b, err := e.boundary(data, key, interp)
	if err != nil {
		return 0, err
	}
	return b.v * math.Exp(b.d/b.v*(key-b.x)), nil
}

func (e ExponentialExtrapolator1D) FirstDerivative(
	data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	b, err := e.boundary(data, key, interp)
	if err != nil {
		return 0, err
	}
	return b.d * math.Exp(b.d/b.v*(key-b.x)), nil
}

func (e ExponentialExtrapolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64, interp Interpolator1D,
) ([]float64, error) {
	b, err := e.boundary(data, key, interp)
	if err != nil {
		return nil, err
	}
	_, s, ds, err := boundarySense("ExponentialExtrapolator1D", data, key, interp)
	if err != nil {
		return nil, err
	}

	dx, r := key-b.x, b.d/b.v
	scale := math.Exp(r * dx)
	for j := range s {
		s[j] = scale * (s[j]*(1-r*dx) + dx*ds[j])
	}
	return s, nil
}

// ReciprocalExtrapolator1D linearly extrapolates x*y from the boundary and
// divides by the key.
type ReciprocalExtrapolator1D struct{}

// product returns x*y and its slope at the boundary.
func (ReciprocalExtrapolator1D) product(
	data *DataBundle, key float64, interp Interpolator1D,
) (boundary, error) {
	b, err := boundaryAt("ReciprocalExtrapolator1D", data, key, interp)
	if err != nil {
		return b, err
	} else if key == 0 {
		return b, invalidf("ReciprocalExtrapolator1D cannot extrapolate to 0")
	}
	return boundary{b.x, b.x * b.v, b.v + b.x*b.d}, nil
}

func (r ReciprocalExtrapolator1D) Extrapolate(
	data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	g, err := r.product(data, key, interp)
	if err != nil {
		return 0, err
	}
	return (g.v + g.d*(key-g.x)) / key, nil
}

func (r ReciprocalExtrapolator1D) FirstDerivative(
	data *DataBundle, key float64, interp Interpolator1D,
) (float64, error) {
	g, err := r.product(data, key, interp)
	if err != nil {
		return 0, err
	}
	v := (g.v + g.d*(key-g.x)) / key
	return (g.d - v) / key, nil
}

func (r ReciprocalExtrapolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64, interp Interpolator1D,
) ([]float64, error) {
	if _, err := r.product(data, key, interp); err != nil {
		return nil, err
	}
	x, s, ds, err := boundarySense("ReciprocalExtrapolator1D", data, key, interp)
	if err != nil {
		return nil, err
	}

	dx := key - x
	for j := range s {
		// g = x v and g' = v + x d, differentiated by y_j.
		dg, dgSlope := x*s[j], s[j]+x*ds[j]
		s[j] = (dg + dx*dgSlope) / key
	}
	return s, nil
}
