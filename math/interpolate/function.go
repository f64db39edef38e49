package interpolate

// PiecewisePolynomialFunction1D evaluates, differentiates and integrates
// PiecewisePolynomialResults. It has no state.
//
// Keys outside the knots are evaluated with the polynomial of the nearest
// interval, and a key equal to the last knot uses the last interval.
type PiecewisePolynomialFunction1D struct{}

// Evaluate returns the value of every series of res at key.
func (PiecewisePolynomialFunction1D) Evaluate(
	res *PiecewisePolynomialResult, key float64,
) ([]float64, error) {
	return evalAt(res, key, 0)
}

// EvaluateKeys evaluates res at many keys. out[i][j] is series j at
// keys[i].
func (f PiecewisePolynomialFunction1D) EvaluateKeys(
	res *PiecewisePolynomialResult, keys []float64,
) ([][]float64, error) {
	out := make([][]float64, len(keys))
	for i, key := range keys {
		vals, err := evalAt(res, key, 0)
		if err != nil {
			return nil, err
		}
		out[i] = vals
	}
	return out, nil
}

// DifferentiateAt returns the first derivative of every series at key.
func (PiecewisePolynomialFunction1D) DifferentiateAt(
	res *PiecewisePolynomialResult, key float64,
) ([]float64, error) {
	return evalAt(res, key, 1)
}

// DifferentiateTwiceAt returns the second derivative of every series at
// key.
func (PiecewisePolynomialFunction1D) DifferentiateTwiceAt(
	res *PiecewisePolynomialResult, key float64,
) ([]float64, error) {
	return evalAt(res, key, 2)
}

// Differentiate returns the derivative of res as a Result of one lower
// order on the same knots.
func (PiecewisePolynomialFunction1D) Differentiate(
	res *PiecewisePolynomialResult,
) (*PiecewisePolynomialResult, error) {
	return derivResult(res, 1)
}

// DifferentiateTwice returns the second derivative of res as a Result of
// two lower order on the same knots.
func (PiecewisePolynomialFunction1D) DifferentiateTwice(
	res *PiecewisePolynomialResult,
) (*PiecewisePolynomialResult, error) {
	return derivResult(res, 2)
}

// Integrate returns the integral of every series from lower to upper.
func (PiecewisePolynomialFunction1D) Integrate(
	res *PiecewisePolynomialResult, lower, upper float64,
) ([]float64, error) {
	if !isFinite(lower) || !isFinite(upper) {
		return nil, invalidf("integration bounds %g and %g", lower, upper)
	}

	lo, err := antiderivative(res, lower)
	if err != nil {
		return nil, err
	}
	hi, err := antiderivative(res, upper)
	if err != nil {
		return nil, err
	}
	for j := range hi {
		hi[j] -= lo[j]
	}
	return hi, nil
}

// NodeSensitivity returns the derivative of the value at key with respect
// to every input value.
func (PiecewisePolynomialFunction1D) NodeSensitivity(
	res *PiecewisePolynomialResultsWithSensitivity, key float64,
) ([]float64, error) {
	return senseAt(res, key, 0)
}

// DifferentiateNodeSensitivity returns the derivative of the slope at key
// with respect to every input value.
func (PiecewisePolynomialFunction1D) DifferentiateNodeSensitivity(
	res *PiecewisePolynomialResultsWithSensitivity, key float64,
) ([]float64, error) {
	return senseAt(res, key, 1)
}

// DifferentiateTwiceNodeSensitivity returns the derivative of the second
// derivative at key with respect to every input value.
func (PiecewisePolynomialFunction1D) DifferentiateTwiceNodeSensitivity(
	res *PiecewisePolynomialResultsWithSensitivity, key float64,
) ([]float64, error) {
	return senseAt(res, key, 2)
}

func checkDerivOrder(res *PiecewisePolynomialResult, m int) error {
	if res.order < m+1 {
		return invalidf(
			"cannot take derivative %d of a result of order %d", m, res.order,
		)
	}
	return nil
}

func evalAt(res *PiecewisePolynomialResult, key float64, m int) ([]float64, error) {
	if !isFinite(key) {
		return nil, invalidf("key %g is not finite", key)
	} else if m > 0 {
		if err := checkDerivOrder(res, m); err != nil {
			return nil, err
		}
	}

	i := bsearch(res.knots, key)
	dx := key - res.knots[i]
	out := make([]float64, res.dim)
	for j := range out {
		out[j] = evalPoly(res.coefs[res.dim*i+j], dx, m)
	}
	return out, nil
}

func senseAt(
	res *PiecewisePolynomialResultsWithSensitivity, key float64, m int,
) ([]float64, error) {
	if res.sense == nil {
		return nil, invalidf("result carries no sensitivities")
	} else if !isFinite(key) {
		return nil, invalidf("key %g is not finite", key)
	} else if m > 0 {
		if err := checkDerivOrder(&res.PiecewisePolynomialResult, m); err != nil {
			return nil, err
		}
	}

	i := bsearch(res.knots, key)
	basis := powerBasis(res.order, key-res.knots[i], m)
	sense := res.sense[i]
	out := make([]float64, len(sense[0]))
	for k, b := range basis {
		if b == 0 {
			continue
		}
		for j := range out {
			out[j] += b * sense[k][j]
		}
	}
	return out, nil
}

func derivResult(
	res *PiecewisePolynomialResult, m int,
) (*PiecewisePolynomialResult, error) {
	if err := checkDerivOrder(res, m); err != nil {
		return nil, err
	}
	order := res.order - m
	out := &PiecewisePolynomialResult{
		knots: res.knots, coefs: make([][]float64, len(res.coefs)),
		order: order, dim: res.dim,
	}
	for r, row := range res.coefs {
		out.coefs[r] = make([]float64, order)
		for k := 0; k < order; k++ {
			out.coefs[r][k] = row[k] * fallingFactorial(res.order-1-k, m)
		}
	}
	return out, nil
}

// antiderivative returns the integral of every series from the first knot
// to x.
func antiderivative(res *PiecewisePolynomialResult, x float64) ([]float64, error) {
	out := make([]float64, res.dim)
	i := bsearch(res.knots, x)
	for k := 0; k < i; k++ {
		h := res.knots[k+1] - res.knots[k]
		for j := range out {
			out[j] += integratePoly(res.coefs[res.dim*k+j], h)
		}
	}
	for j := range out {
		out[j] += integratePoly(res.coefs[res.dim*i+j], x-res.knots[i])
	}
	return out, nil
}

// integratePoly integrates a descending row from 0 to dx.
func integratePoly(row []float64, dx float64) float64 {
	sum := 0.0
	for k, c := range row {
		sum = sum*dx + c/float64(len(row)-k)
	}
	return sum * dx
}

// evalPoly evaluates the m-th derivative of a descending row at dx.
func evalPoly(row []float64, dx float64, m int) float64 {
	order := len(row)
	out := 0.0
	for k := 0; k < order-m; k++ {
		out = out*dx + row[k]*fallingFactorial(order-1-k, m)
	}
	return out
}

// powerBasis returns the m-th derivatives of the descending monomials of a
// row of the given order, evaluated at dx.
func powerBasis(order int, dx float64, m int) []float64 {
	out := make([]float64, order)
	pow := 1.0
	for k := order - 1 - m; k >= 0; k-- {
		out[k] = fallingFactorial(order-1-k, m) * pow
		pow *= dx
	}
	return out
}

// fallingFactorial returns p (p-1) ... (p-m+1).
func fallingFactorial(p, m int) float64 {
	out := 1.0
	for q := 0; q < m; q++ {
		out *= float64(p - q)
	}
	return out
}

// bsearch returns the index of the interval containing x. Keys past either
// end map to the boundary intervals.
func bsearch(knots []float64, x float64) int {
	n := len(knots)
	if x <= knots[0] {
		return 0
	} else if x >= knots[n-1] {
		return n - 2
	}

	// Guess under the assumption of uniform spacing.
	dx := (knots[n-1] - knots[0]) / float64(n-1)
	guess := int((x - knots[0]) / dx)
	if guess >= 0 && guess < n-1 && knots[guess] <= x && x < knots[guess+1] {
		return guess
	}

	// Binary search.
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= knots[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
