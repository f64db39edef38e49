package interp1d

import (
	"sort"
	"strings"

	"github.com/phil-mansfield/gospline/math/interpolate"
)

func piecewise(
	base interpolate.PiecewisePolynomialInterpolator,
) func() Interpolator1D {
	return func() Interpolator1D { return NewPiecewisePolynomialInterpolator1D(base) }
}

var interpolatorNames = map[string]func() Interpolator1D{
	"Linear": func() Interpolator1D { return NewLinearInterpolator1D() },
	"NaturalCubicSpline": piecewise(
		interpolate.NewNaturalSplineInterpolator()),
	"NotAKnotCubicSpline": piecewise(
		interpolate.NewCubicSplineInterpolator()),
	"ConstrainedCubicSpline": piecewise(
		interpolate.NewConstrainedCubicSplineInterpolator()),
	"SemiLocalCubicSpline": piecewise(
		interpolate.NewSemiLocalCubicSplineInterpolator()),
	"MonotonicityPreservingCubicSpline": piecewise(
		interpolate.NewMonotonicityPreservingCubicSplineInterpolator(
			interpolate.NewCubicSplineInterpolator())),
	"MonotonicityPreservingQuinticSpline": piecewise(
		interpolate.NewMonotonicityPreservingQuinticSplineInterpolator(
			interpolate.NewCubicSplineInterpolator())),
	"NonnegativityPreservingCubicSpline": piecewise(
		interpolate.NewNonnegativityPreservingCubicSplineInterpolator(
			interpolate.NewCubicSplineInterpolator())),
	"NonnegativityPreservingQuinticSpline": piecewise(
		interpolate.NewNonnegativityPreservingQuinticSplineInterpolator(
			interpolate.NewCubicSplineInterpolator())),
	"ShapePreservingCubicSpline": piecewise(
		interpolate.NewShapePreservingCubicSplineInterpolator()),
	"MonotoneConvex": func() Interpolator1D { return NewMonotoneConvexInterpolator1D() },
	"LogLinear": func() Interpolator1D {
		return NewLogInterpolator1D(NewLinearInterpolator1D())
	},
	"LogNaturalCubicSpline": func() Interpolator1D {
		return NewLogInterpolator1D(NewPiecewisePolynomialInterpolator1D(
			interpolate.NewNaturalSplineInterpolator()))
	},
	"LogNotAKnotCubicSpline": func() Interpolator1D {
		return NewLogInterpolator1D(NewPiecewisePolynomialInterpolator1D(
			interpolate.NewCubicSplineInterpolator()))
	},
	"ProductNaturalCubicSpline": func() Interpolator1D {
		return NewProductInterpolator1D(NewPiecewisePolynomialInterpolator1D(
			interpolate.NewNaturalSplineInterpolator()))
	},
}

var extrapolatorNames = map[string]Extrapolator1D{
	"Flat":        FlatExtrapolator1D{},
	"Linear":      LinearExtrapolator1D{},
	"Exponential": ExponentialExtrapolator1D{},
	"Reciprocal":  ReciprocalExtrapolator1D{},
}

// InterpolatorNames lists the names accepted by NewInterpolator.
func InterpolatorNames() []string {
	names := make([]string, 0, len(interpolatorNames))
	for name := range interpolatorNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtrapolatorNames lists the names accepted by NewExtrapolator.
func ExtrapolatorNames() []string {
	names := make([]string, 0, len(extrapolatorNames))
	for name := range extrapolatorNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewInterpolator returns a new instance of the named interpolator.
func NewInterpolator(name string) (Interpolator1D, error) {
	f, ok := interpolatorNames[name]
	if !ok {
		return nil, invalidf(
			"unknown interpolator '%s'. Valid names are: %s",
			name, strings.Join(InterpolatorNames(), ", "),
		)
	}
	return f(), nil
}

// NewExtrapolator returns the named extrapolator.
func NewExtrapolator(name string) (Extrapolator1D, error) {
	ex, ok := extrapolatorNames[name]
	if !ok {
		return nil, invalidf(
			"unknown extrapolator '%s'. Valid names are: %s",
			name, strings.Join(ExtrapolatorNames(), ", "),
		)
	}
	return ex, nil
}

// NewCombined builds a CombinedInterpolatorExtrapolator from names. An
// empty extrapolator name leaves that side without one.
func NewCombined(
	interp, left, right string,
) (*CombinedInterpolatorExtrapolator, error) {
	in, err := NewInterpolator(interp)
	if err != nil {
		return nil, err
	}

	exs := [2]Extrapolator1D{}
	for i, name := range []string{left, right} {
		if name == "" {
			continue
		}
		if exs[i], err = NewExtrapolator(name); err != nil {
			return nil, err
		}
	}
	return NewCombinedInterpolatorExtrapolator(in, exs[0], exs[1]), nil
}
