package interp1d

// CombinedInterpolatorExtrapolator evaluates keys inside the data with an
// interpolator and keys outside it with one extrapolator per side. A nil
// extrapolator makes keys on that side an error. It is itself an
// Interpolator1D and builds bundles with the interpolator it wraps.
type CombinedInterpolatorExtrapolator struct {
	Interpolator1D
	left, right Extrapolator1D
}

// NewCombinedInterpolatorExtrapolator combines interp with extrapolators
// for keys below and above the data.
func NewCombinedInterpolatorExtrapolator(
	interp Interpolator1D, left, right Extrapolator1D,
) *CombinedInterpolatorExtrapolator {
	return &CombinedInterpolatorExtrapolator{interp, left, right}
}

// Interpolator returns the interpolator used inside the data.
func (c *CombinedInterpolatorExtrapolator) Interpolator() Interpolator1D {
	return c.Interpolator1D
}

// route returns the extrapolator responsible for key, or nil if key is
// inside the data.
func (c *CombinedInterpolatorExtrapolator) route(
	data *DataBundle, key float64,
) (Extrapolator1D, error) {
	if data == nil {
		return nil, invalidf("CombinedInterpolatorExtrapolator given a nil DataBundle")
	} else if !finite(key) {
		return nil, invalidf(
			"CombinedInterpolatorExtrapolator given non-finite key %g", key,
		)
	}

	switch {
	case key < data.FirstKey():
		if c.left == nil {
			return nil, invalidf(
				"key %g is below the data, which starts at %g, and there "+
					"is no left extrapolator", key, data.FirstKey(),
			)
		}
		return c.left, nil
	case key > data.LastKey():
		if c.right == nil {
			return nil, invalidf(
				"key %g is above the data, which ends at %g, and there "+
					"is no right extrapolator", key, data.LastKey(),
			)
		}
		return c.right, nil
	}
	return nil, nil
}

func (c *CombinedInterpolatorExtrapolator) Interpolate(
	data *DataBundle, key float64,
) (float64, error) {
	ex, err := c.route(data, key)
	if err != nil {
		return 0, err
	} else if ex == nil {
		return c.Interpolator1D.Interpolate(data, key)
	}
	return ex.Extrapolate(data, key, c.Interpolator1D)
}

func (c *CombinedInterpolatorExtrapolator) FirstDerivative(
	data *DataBundle, key float64,
) (float64, error) {
	ex, err := c.route(data, key)
	if err != nil {
		return 0, err
	} else if ex == nil {
		return c.Interpolator1D.FirstDerivative(data, key)
	}
	return ex.FirstDerivative(data, key, c.Interpolator1D)
}

func (c *CombinedInterpolatorExtrapolator) NodeSensitivitiesForValue(
	data *DataBundle, key float64,
) ([]float64, error) {
	ex, err := c.route(data, key)
	if err != nil {
		return nil, err
	} else if ex == nil {
		return c.Interpolator1D.NodeSensitivitiesForValue(data, key)
	}
	return ex.NodeSensitivitiesForValue(data, key, c.Interpolator1D)
}
