package interpolate

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is wrapped by every error this package and the packages
// built on top of it return for bad input.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func checkFinite(name string, xs []float64) error {
	for i, x := range xs {
		if !isFinite(x) {
			return invalidf("%s[%d] = %g is not finite", name, i, x)
		}
	}
	return nil
}
