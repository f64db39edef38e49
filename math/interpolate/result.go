package interpolate

// PiecewisePolynomialResult is a piecewise polynomial over a shared set of
// knots. It may describe several y-series at once: the coefficients of
// interval i for series j are stored in row dim*i + j, in descending powers
// of (x - knots[i]).
//
// Results are never modified after they are created.
type PiecewisePolynomialResult struct {
	knots      []float64
	coefs      [][]float64
	order, dim int
}

// NewPiecewisePolynomialResult creates a Result from its knots and
// coefficient rows. The slices are copied.
func NewPiecewisePolynomialResult(
	knots []float64, coefs [][]float64, order, dim int,
) (*PiecewisePolynomialResult, error) {
	if len(knots) < 2 {
		return nil, invalidf("need at least two knots, got %d", len(knots))
	} else if order < 1 {
		return nil, invalidf("order must be positive, got %d", order)
	} else if dim < 1 {
		return nil, invalidf("dimension must be positive, got %d", dim)
	} else if len(coefs) != (len(knots)-1)*dim {
		return nil, invalidf(
			"%d knots and dimension %d need %d coefficient rows, got %d",
			len(knots), dim, (len(knots)-1)*dim, len(coefs),
		)
	}
	for i := 0; i < len(knots)-1; i++ {
		if !(knots[i+1] > knots[i]) {
			return nil, invalidf("knots are not strictly increasing at %d", i)
		}
	}

	res := &PiecewisePolynomialResult{
		knots: append([]float64(nil), knots...),
		coefs: make([][]float64, len(coefs)),
		order: order, dim: dim,
	}
	for i, row := range coefs {
		if len(row) != order {
			return nil, invalidf(
				"coefficient row %d has length %d, not %d", i, len(row), order,
			)
		}
		res.coefs[i] = append([]float64(nil), row...)
	}
	return res, nil
}

// Knots returns a copy of the knots.
func (res *PiecewisePolynomialResult) Knots() []float64 {
	return append([]float64(nil), res.knots...)
}

// Coefs returns a copy of the coefficient rows.
func (res *PiecewisePolynomialResult) Coefs() [][]float64 {
	out := make([][]float64, len(res.coefs))
	for i := range res.coefs {
		out[i] = append([]float64(nil), res.coefs[i]...)
	}
	return out
}

// Coef returns a copy of the coefficients of the given interval and series.
func (res *PiecewisePolynomialResult) Coef(interval, dim int) []float64 {
	return append([]float64(nil), res.coefs[res.dim*interval+dim]...)
}

func (res *PiecewisePolynomialResult) Order() int             { return res.order }
func (res *PiecewisePolynomialResult) Dimension() int         { return res.dim }
func (res *PiecewisePolynomialResult) NumberOfIntervals() int { return len(res.knots) - 1 }

// PiecewisePolynomialResultsWithSensitivity is a one-dimensional Result
// which also carries the derivative of every coefficient with respect to
// every input value. Sensitivity(i)[k][j] is the derivative of coefficient k
// of interval i with respect to y_j.
type PiecewisePolynomialResultsWithSensitivity struct {
	PiecewisePolynomialResult
	sense [][][]float64
}

// Sensitivity returns a copy of the [order][nData] sensitivity matrix of
// an interval.
func (res *PiecewisePolynomialResultsWithSensitivity) Sensitivity(
	interval int,
) [][]float64 {
	out := make([][]float64, len(res.sense[interval]))
	for k := range out {
		out[k] = append([]float64(nil), res.sense[interval][k]...)
	}
	return out
}

// NumberOfData returns the number of input values the sensitivities are
// taken against.
func (res *PiecewisePolynomialResultsWithSensitivity) NumberOfData() int {
	return len(res.sense[0][0])
}
