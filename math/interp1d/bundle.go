package interp1d

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/gospline/math/interpolate"
)

// DataBundle holds sorted keys and values together with whatever an
// Interpolator1D derived from them when it built the bundle. Bundles are
// never modified after construction and may only be used with the
// interpolator that made them (or one configured identically).
type DataBundle struct {
	method       string
	keys, values []float64

	clamped     bool
	left, right float64

	// Method state.
	res   *interpolate.PiecewisePolynomialResultsWithSensitivity
	aux   *interpolate.PiecewisePolynomialResultsWithSensitivity
	inner *DataBundle
	index []int
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", interpolate.ErrInvalidArgument,
		fmt.Sprintf(format, args...))
}

// endSlopes are the boundary derivatives of a clamped bundle.
type endSlopes struct{ left, right float64 }

// newBundle validates xs and ys, copies them in sorted order and then lets
// build fill in the method state. If sorted is set, xs must already be
// increasing and is not sorted again.
func newBundle(
	method string, xs, ys []float64, sorted bool, ends *endSlopes,
	minPoints int, build func(b *DataBundle) error,
) (*DataBundle, error) {
	n := len(xs)
	if len(ys) != n {
		return nil, invalidf(
			"%s given %d keys but %d values", method, n, len(ys),
		)
	} else if n < minPoints {
		return nil, invalidf(
			"%s needs at least %d points, got %d", method, minPoints, n,
		)
	}
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			return nil, invalidf(
				"%s given non-finite point (%g, %g)", method, xs[i], ys[i],
			)
		}
	}

	b := &DataBundle{
		method: method,
		keys:   append([]float64(nil), xs...),
		values: append([]float64(nil), ys...),
	}
	if sorted {
		for i := 1; i < n; i++ {
			if b.keys[i] < b.keys[i-1] {
				return nil, invalidf(
					"%s given unsorted keys: %g comes after %g",
					method, b.keys[i], b.keys[i-1],
				)
			}
		}
	} else {
		sort.Sort(byKey{b.keys, b.values})
	}

	for i := 1; i < n; i++ {
		lo, hi := b.keys[i-1], b.keys[i]
		scale := math.Max(1, math.Max(math.Abs(lo), math.Abs(hi)))
		if hi-lo <= interpolate.DistinctTolerance*scale {
			return nil, invalidf(
				"%s given keys %g and %g, which are not distinct", method, lo, hi,
			)
		}
	}

	if ends != nil {
		if !finite(ends.left) || !finite(ends.right) {
			return nil, invalidf(
				"%s given non-finite boundary derivatives (%g, %g)",
				method, ends.left, ends.right,
			)
		}
		b.clamped, b.left, b.right = true, ends.left, ends.right
	}

	if err := build(b); err != nil {
		return nil, err
	}
	return b, nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

type byKey struct{ keys, values []float64 }

func (s byKey) Len() int           { return len(s.keys) }
func (s byKey) Less(i, j int) bool { return s.keys[i] < s.keys[j] }
func (s byKey) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// Keys returns a copy of the sorted keys.
func (b *DataBundle) Keys() []float64 { return append([]float64(nil), b.keys...) }

// Values returns a copy of the values, in key order.
func (b *DataBundle) Values() []float64 { return append([]float64(nil), b.values...) }

func (b *DataBundle) Size() int { return len(b.keys) }

func (b *DataBundle) FirstKey() float64   { return b.keys[0] }
func (b *DataBundle) LastKey() float64    { return b.keys[len(b.keys)-1] }
func (b *DataBundle) FirstValue() float64 { return b.values[0] }
func (b *DataBundle) LastValue() float64  { return b.values[len(b.values)-1] }

// Method is the name of the interpolator which built b.
func (b *DataBundle) Method() string { return b.method }

// BoundaryDerivatives returns the clamped end slopes. ok is false for
// bundles built without them.
func (b *DataBundle) BoundaryDerivatives() (left, right float64, ok bool) {
	return b.left, b.right, b.clamped
}

// LowerBoundIndex returns the index of the interval containing key: the
// largest i with keys[i] <= key, limited to [0, Size()-2] so that keys
// outside the data map to the boundary intervals.
func (b *DataBundle) LowerBoundIndex(key float64) int {
	i := sort.SearchFloat64s(b.keys, key)
	if i == len(b.keys) || b.keys[i] != key {
		i--
	}
	if i < 0 {
		return 0
	} else if i > len(b.keys)-2 {
		return len(b.keys) - 2
	}
	return i
}

// LowerBoundKey returns keys[LowerBoundIndex(key)].
func (b *DataBundle) LowerBoundKey(key float64) float64 {
	return b.keys[b.LowerBoundIndex(key)]
}

// inRange reports whether key lies within [FirstKey(), LastKey()].
func (b *DataBundle) inRange(key float64) bool {
	return key >= b.keys[0] && key <= b.keys[len(b.keys)-1]
}

// bundler supplies the four DataBundle constructors of an Interpolator1D
// from a single function.
type bundler struct {
	bundle func(xs, ys []float64, sorted bool, ends *endSlopes) (*DataBundle, error)
}

func (bd bundler) DataBundle(xs, ys []float64) (*DataBundle, error) {
	return bd.bundle(xs, ys, false, nil)
}

func (bd bundler) DataBundleFromSortedArrays(xs, ys []float64) (*DataBundle, error) {
	return bd.bundle(xs, ys, true, nil)
}

func (bd bundler) DataBundleClamped(
	xs, ys []float64, left, right float64,
) (*DataBundle, error) {
	return bd.bundle(xs, ys, false, &endSlopes{left, right})
}

func (bd bundler) DataBundleClampedFromSortedArrays(
	xs, ys []float64, left, right float64,
) (*DataBundle, error) {
	return bd.bundle(xs, ys, true, &endSlopes{left, right})
}

// checkBundle makes sure data was built by the named method.
func checkBundle(method string, data *DataBundle, key float64) error {
	if data == nil {
		return invalidf("%s given a nil DataBundle", method)
	} else if data.method != method {
		return invalidf(
			"%s given a DataBundle built by %s", method, data.method,
		)
	} else if !finite(key) {
		return invalidf("%s given non-finite key %g", method, key)
	}
	return nil
}

func unsupportedEnds(method string) error {
	return invalidf("%s: boundary derivatives not supported", method)
}
