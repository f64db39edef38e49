/*package interp1d puts every spline in math/interpolate, and a few transforms
of them, behind one interface which works on cached DataBundles. Extrapolators
and CombinedInterpolatorExtrapolator extend the curves past their data.
*/
package interp1d

// Interpolator1D builds DataBundles and evaluates the curve they describe.
//
// The clamped constructors fix the first derivative at both ends and fail
// with "boundary derivatives not supported" for methods which cannot use
// them. The FromSortedArrays constructors require increasing keys and give
// the same bundle as the unsorted constructors do for the same points.
type Interpolator1D interface {
	DataBundle(xs, ys []float64) (*DataBundle, error)
	DataBundleFromSortedArrays(xs, ys []float64) (*DataBundle, error)
	DataBundleClamped(xs, ys []float64, left, right float64) (*DataBundle, error)
	DataBundleClampedFromSortedArrays(xs, ys []float64, left, right float64) (*DataBundle, error)

	Interpolate(data *DataBundle, key float64) (float64, error)
	FirstDerivative(data *DataBundle, key float64) (float64, error)
	// NodeSensitivitiesForValue returns the derivative of the value at key
	// with respect to each of the bundle's values, in key order.
	NodeSensitivitiesForValue(data *DataBundle, key float64) ([]float64, error)
}

// FirstDerivativeSensitivityer is implemented by interpolators which can
// give the derivative of FirstDerivative with respect to each value
// exactly.
type FirstDerivativeSensitivityer interface {
	NodeSensitivitiesForFirstDerivative(data *DataBundle, key float64) ([]float64, error)
}

// SecondDerivativer is implemented by interpolators with a second
// derivative.
type SecondDerivativer interface {
	SecondDerivative(data *DataBundle, key float64) (float64, error)
}

var (
	_ Interpolator1D = &PiecewisePolynomialInterpolator1D{}
	_ Interpolator1D = &LinearInterpolator1D{}
	_ Interpolator1D = &MonotoneConvexInterpolator1D{}
	_ Interpolator1D = &LogInterpolator1D{}
	_ Interpolator1D = &ProductInterpolator1D{}
	_ Interpolator1D = &CombinedInterpolatorExtrapolator{}

	_ FirstDerivativeSensitivityer = &PiecewisePolynomialInterpolator1D{}
	_ FirstDerivativeSensitivityer = &LinearInterpolator1D{}
	_ FirstDerivativeSensitivityer = &MonotoneConvexInterpolator1D{}
	_ FirstDerivativeSensitivityer = &LogInterpolator1D{}
)

// SensitivityStep is the forward-difference step used for derivative
// sensitivities of interpolators without FirstDerivativeSensitivityer.
const SensitivityStep = 1e-6

// FirstDerivativeSensitivity returns the derivative of
// interp.FirstDerivative(data, key) with respect to each of the bundle's
// values.
func FirstDerivativeSensitivity(
	interp Interpolator1D, data *DataBundle, key float64,
) ([]float64, error) {
	if fs, ok := interp.(FirstDerivativeSensitivityer); ok {
		return fs.NodeSensitivitiesForFirstDerivative(data, key)
	}

	lo, err := interp.NodeSensitivitiesForValue(data, key)
	if err != nil {
		return nil, err
	}
	hi, err := interp.NodeSensitivitiesForValue(data, key+SensitivityStep)
	if err != nil {
		return nil, err
	}
	for j := range hi {
		hi[j] = (hi[j] - lo[j]) / SensitivityStep
	}
	return hi, nil
}

// SecondDerivative returns the second derivative of the curve at key,
// falling back to a central difference of FirstDerivative.
func SecondDerivative(
	interp Interpolator1D, data *DataBundle, key float64,
) (float64, error) {
	if sd, ok := interp.(SecondDerivativer); ok {
		return sd.SecondDerivative(data, key)
	}

	lo, err := interp.FirstDerivative(data, key-SensitivityStep)
	if err != nil {
		return 0, err
	}
	hi, err := interp.FirstDerivative(data, key+SensitivityStep)
	if err != nil {
		return 0, err
	}
	return (hi - lo) / (2 * SensitivityStep), nil
}
