package interp1d

import (
	"math"
	"sort"
)

// LogInterpolator1D interpolates log(y) with another interpolator and
// returns exp of the result, so curves stay positive.
type LogInterpolator1D struct {
	bundler
	inner Interpolator1D
}

const logName = "LogInterpolator1D"

func NewLogInterpolator1D(inner Interpolator1D) *LogInterpolator1D {
	in := &LogInterpolator1D{inner: inner}
	in.bundler = bundler{in.bundle}
	return in
}

// Inner returns the interpolator used in log space.
func (in *LogInterpolator1D) Inner() Interpolator1D { return in.inner }

func (in *LogInterpolator1D) bundle(
	xs, ys []float64, sorted bool, ends *endSlopes,
) (*DataBundle, error) {
	return newBundle(logName, xs, ys, sorted, ends, 2, func(b *DataBundle) error {
		if in.inner == nil {
			return invalidf("%s has no inner interpolator", logName)
		}

		logs := make([]float64, len(b.values))
		for i, y := range b.values {
			if y <= 0 {
				return invalidf(
					"%s: y should be positive, but the value at %g is %g",
					logName, b.keys[i], y,
				)
			}
			logs[i] = math.Log(y)
		}

		var err error
		if b.clamped {
			n := len(b.values)
			b.inner, err = in.inner.DataBundleClampedFromSortedArrays(
				b.keys, logs, b.left/b.values[0], b.right/b.values[n-1],
			)
		} else {
			b.inner, err = in.inner.DataBundleFromSortedArrays(b.keys, logs)
		}
		return err
	})
}

func (in *LogInterpolator1D) Interpolate(data *DataBundle, key float64) (float64, error) {
	if err := checkBundle(logName, data, key); err != nil {
		return 0, err
	}
	f, err := in.inner.Interpolate(data.inner, key)
	if err != nil {
		return 0, err
	}
	return math.Exp(f), nil
}

func (in *LogInterpolator1D) FirstDerivative(data *DataBundle, key float64) (float64, error) {
	v, err := in.Interpolate(data, key)
	if err != nil {
		return 0, err
	}
	d, err := in.inner.FirstDerivative(data.inner, key)
	if err != nil {
		return 0, err
	}
	return v * d, nil
}

func (in *LogInterpolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64,
) ([]float64, error) {
	v, err := in.Interpolate(data, key)
	if err != nil {
		return nil, err
	}
	sense, err := in.inner.NodeSensitivitiesForValue(data.inner, key)
	if err != nil {
		return nil, err
	}
	for j := range sense {
		sense[j] *= v / data.values[j]
	}
	return sense, nil
}

// NodeSensitivitiesForFirstDerivative differentiates v f' with v = exp(f),
// giving v (f' s_j + s'_j) / y_j.
func (in *LogInterpolator1D) NodeSensitivitiesForFirstDerivative(
	data *DataBundle, key float64,
) ([]float64, error) {
	v, err := in.Interpolate(data, key)
	if err != nil {
		return nil, err
	}
	d, err := in.inner.FirstDerivative(data.inner, key)
	if err != nil {
		return nil, err
	}
	sense, err := in.inner.NodeSensitivitiesForValue(data.inner, key)
	if err != nil {
		return nil, err
	}
	dSense, err := FirstDerivativeSensitivity(in.inner, data.inner, key)
	if err != nil {
		return nil, err
	}
	for j := range sense {
		sense[j] = v * (d*sense[j] + dSense[j]) / data.values[j]
	}
	return sense, nil
}

// Anchor is an extra point of a ProductInterpolator1D, given in x*y space.
type Anchor struct{ Key, Value float64 }

// ProductInterpolator1D interpolates x*y with another interpolator and
// divides by x on the way out. Anchors are added to the x*y data before
// interpolation; the default anchor is (0, 0), which makes the curve finite
// at x = 0. Without a zero x*y value at x = 0 the curve is undefined there.
type ProductInterpolator1D struct {
	bundler
	inner   Interpolator1D
	anchors []Anchor
}

const (
	productName = "ProductInterpolator1D"
	// Keys closer to zero than this use the limit of f(x)/x at zero when
	// the x*y curve passes through the origin.
	productSmall = 1e-12
)

func NewProductInterpolator1D(
	inner Interpolator1D, anchors ...Anchor,
) *ProductInterpolator1D {
	if len(anchors) == 0 {
		anchors = []Anchor{{0, 0}}
	}
	in := &ProductInterpolator1D{
		inner: inner, anchors: append([]Anchor(nil), anchors...),
	}
	in.bundler = bundler{in.bundle}
	return in
}

func (in *ProductInterpolator1D) bundle(
	xs, ys []float64, sorted bool, ends *endSlopes,
) (*DataBundle, error) {
	return newBundle(productName, xs, ys, sorted, ends, 2, func(b *DataBundle) error {
		if in.inner == nil {
			return invalidf("%s has no inner interpolator", productName)
		} else if b.clamped {
			return unsupportedEnds(productName)
		}

		n := len(b.keys)
		keys := make([]float64, 0, n+len(in.anchors))
		vals := make([]float64, 0, n+len(in.anchors))
		for i := range b.keys {
			keys = append(keys, b.keys[i])
			vals = append(vals, b.keys[i]*b.values[i])
		}
		for _, a := range in.anchors {
			keys = append(keys, a.Key)
			vals = append(vals, a.Value)
		}

		inner, err := in.inner.DataBundle(keys, vals)
		if err != nil {
			return err
		}
		b.inner = inner
		b.index = make([]int, n)
		for i, x := range b.keys {
			b.index[i] = sort.SearchFloat64s(inner.keys, x)
		}
		return nil
	})
}

// atOrigin reports whether key is close enough to zero to use the limit of
// f(x)/x, which needs f(0) = 0.
func atOrigin(data *DataBundle, key float64) (bool, error) {
	if math.Abs(key) >= productSmall {
		return false, nil
	}
	keys, vals := data.inner.keys, data.inner.values
	i := sort.SearchFloat64s(keys, 0)
	if i < len(keys) && keys[i] == 0 && vals[i] == 0 {
		return true, nil
	} else if key == 0 {
		return false, invalidf(
			"%s is undefined at x = 0 unless x*y is zero there", productName,
		)
	}
	return false, nil
}

func (in *ProductInterpolator1D) Interpolate(data *DataBundle, key float64) (float64, error) {
	if err := checkBundle(productName, data, key); err != nil {
		return 0, err
	}
	if limit, err := atOrigin(data, key); err != nil {
		return 0, err
	} else if limit {
		d1, err := in.inner.FirstDerivative(data.inner, 0)
		if err != nil {
			return 0, err
		}
		d2, err := SecondDerivative(in.inner, data.inner, 0)
		if err != nil {
			return 0, err
		}
		return d1 + d2*key/2, nil
	}

	f, err := in.inner.Interpolate(data.inner, key)
	if err != nil {
		return 0, err
	}
	return f / key, nil
}

func (in *ProductInterpolator1D) FirstDerivative(data *DataBundle, key float64) (float64, error) {
	if err := checkBundle(productName, data, key); err != nil {
		return 0, err
	}
	if limit, err := atOrigin(data, key); err != nil {
		return 0, err
	} else if limit {
		d2, err := SecondDerivative(in.inner, data.inner, 0)
		if err != nil {
			return 0, err
		}
		return d2 / 2, nil
	}

	f, err := in.inner.Interpolate(data.inner, key)
	if err != nil {
		return 0, err
	}
	d, err := in.inner.FirstDerivative(data.inner, key)
	if err != nil {
		return 0, err
	}
	return (d - f/key) / key, nil
}

func (in *ProductInterpolator1D) NodeSensitivitiesForValue(
	data *DataBundle, key float64,
) ([]float64, error) {
	if err := checkBundle(productName, data, key); err != nil {
		return nil, err
	}

	limit, err := atOrigin(data, key)
	if err != nil {
		return nil, err
	}

	var (
		innerSense []float64
		scale      = 1 / key
	)
	if limit {
		innerSense, err = FirstDerivativeSensitivity(in.inner, data.inner, 0)
		scale = 1
	} else {
		innerSense, err = in.inner.NodeSensitivitiesForValue(data.inner, key)
	}
	if err != nil {
		return nil, err
	}

	// d(x_j y_j)/dy_j = x_j
	sense := make([]float64, len(data.keys))
	for j, k := range data.index {
		sense[j] = innerSense[k] * data.keys[j] * scale
	}
	return sense, nil
}
