package interpolate

import (
	"github.com/phil-mansfield/gospline/math/mat"
)

// fwd is a value carried together with its gradient with respect to the
// input data of a spline. A nil gradient is identically zero, which is how
// the value-only code path avoids paying for sensitivities.
type fwd struct {
	v float64
	d []float64
}

func cst(v float64) fwd { return fwd{v: v} }

// seed converts input values to fwds. If withSense is true, value i gets the
// i-th unit gradient.
func seed(ys []float64, withSense bool) []fwd {
	out := make([]fwd, len(ys))
	for i, y := range ys {
		out[i].v = y
		if withSense {
			out[i].d = make([]float64, len(ys))
			out[i].d[i] = 1
		}
	}
	return out
}

func values(xs []fwd) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = xs[i].v
	}
	return out
}

// gradLin returns ka*a + kb*b for gradients which may be nil.
func gradLin(ka float64, a []float64, kb float64, b []float64) []float64 {
	if a == nil && b == nil {
		return nil
	}
	n := len(a)
	if n == 0 {
		n = len(b)
	}
	out := make([]float64, n)
	if a != nil && ka != 0 {
		for i := range a {
			out[i] += ka * a[i]
		}
	}
	if b != nil && kb != 0 {
		for i := range b {
			out[i] += kb * b[i]
		}
	}
	return out
}

// lin returns ka*a + kb*b.
func lin(ka float64, a fwd, kb float64, b fwd) fwd {
	return fwd{ka*a.v + kb*b.v, gradLin(ka, a.d, kb, b.d)}
}

func (a fwd) add(b fwd) fwd          { return lin(1, a, 1, b) }
func (a fwd) sub(b fwd) fwd          { return lin(1, a, -1, b) }
func (a fwd) scale(k float64) fwd    { return fwd{k * a.v, gradLin(k, a.d, 0, nil)} }
func (a fwd) addConst(k float64) fwd { return fwd{a.v + k, a.d} }

func (a fwd) mul(b fwd) fwd {
	return fwd{a.v * b.v, gradLin(b.v, a.d, a.v, b.d)}
}

func (a fwd) div(b fwd) fwd {
	q := a.v / b.v
	return fwd{q, gradLin(1/b.v, a.d, -q/b.v, b.d)}
}

func (a fwd) abs() fwd {
	if a.v < 0 {
		return a.scale(-1)
	}
	return a
}

func fmin(a, b fwd) fwd {
	if b.v < a.v {
		return b
	}
	return a
}

func fmax(a, b fwd) fwd {
	if b.v > a.v {
		return b
	}
	return a
}

// clip restricts x to [lo, hi]. lo must not exceed hi.
func clip(x, lo, hi fwd) fwd { return fmin(fmax(x, lo), hi) }

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// solveFwd solves a tridiagonal system whose matrix does not depend on the
// input data. The value and every gradient component are separate
// right-hand sides of the same factorization.
func solveFwd(td *mat.TriDiag, rs []fwd) ([]fwd, error) {
	n := len(rs)
	out := make([]fwd, n)

	vs, err := td.Solve(values(rs))
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].v = vs[i]
	}

	nGrad := 0
	for i := range rs {
		if len(rs[i].d) > nGrad {
			nGrad = len(rs[i].d)
		}
	}
	if nGrad == 0 {
		return out, nil
	}

	for i := range out {
		out[i].d = make([]float64, nGrad)
	}
	col := make([]float64, n)
	for j := 0; j < nGrad; j++ {
		for i := range rs {
			col[i] = 0
			if rs[i].d != nil {
				col[i] = rs[i].d[j]
			}
		}
		if err := td.SolveAt(col, col); err != nil {
			return nil, err
		}
		for i := range out {
			out[i].d[j] = col[i]
		}
	}
	return out, nil
}

// secant returns (y1 - y0) / h.
func secant(y0, y1 fwd, h float64) fwd { return lin(1/h, y1, -1/h, y0) }

// linearRow is the descending coefficient row of the line through (0, y0)
// and (h, y1).
func linearRow(h float64, y0, y1 fwd) []fwd {
	return []fwd{secant(y0, y1, h), y0}
}

// hermiteCubic is the descending coefficient row of the cubic on [0, h]
// with values y0, y1 and slopes d0, d1 at its ends.
func hermiteCubic(h float64, y0, y1, d0, d1 fwd) []fwd {
	delta := secant(y0, y1, h)
	// (d0 + d1 - 2 delta) / h^2
	c3 := d0.add(d1).sub(delta.scale(2)).scale(1 / (h * h))
	// (3 delta - 2 d0 - d1) / h
	c2 := delta.scale(3).sub(d0.scale(2)).sub(d1).scale(1 / h)
	return []fwd{c3, c2, d0, y0}
}

// hermiteQuintic is the descending coefficient row of the quintic on [0, h]
// with values y, slopes d and second derivatives s at its ends.
func hermiteQuintic(h float64, y0, y1, d0, d1, s0, s1 fwd) []fwd {
	h2 := h * h
	h3, h4, h5 := h2*h, h2*h2, h2*h2*h
	// Residuals of the quadratic Taylor expansion around the left end.
	a := y1.sub(y0).sub(d0.scale(h)).sub(s0.scale(h2 / 2))
	b := d1.sub(d0).sub(s0.scale(h))
	c := s1.sub(s0)

	c3 := a.scale(20).sub(b.scale(8 * h)).add(c.scale(h2)).scale(1 / (2 * h3))
	c4 := a.scale(-30).add(b.scale(14 * h)).sub(c.scale(2 * h2)).scale(1 / (2 * h4))
	c5 := a.scale(12).sub(b.scale(6 * h)).add(c.scale(h2)).scale(1 / (2 * h5))
	return []fwd{c5, c4, c3, s0.scale(0.5), d0, y0}
}

// evalRow evaluates the m-th derivative of a descending coefficient row at
// dx.
func evalRow(row []fwd, dx float64, m int) fwd {
	order := len(row)
	out := cst(0)
	for k := 0; k < order-m; k++ {
		p := order - 1 - k
		f := 1.0
		for q := 0; q < m; q++ {
			f *= float64(p - q)
		}
		out = lin(dx, out, f, row[k])
	}
	return out
}

// shiftRow re-expands a descending coefficient row around a knot moved by
// a: the returned row r satisfies r(z) = row(z + a).
func shiftRow(row []fwd, a fwd) []fwd {
	out := append([]fwd(nil), row...)
	n := len(out)
	for i := 0; i < n-1; i++ {
		for j := 1; j < n-i; j++ {
			out[j] = out[j].add(a.mul(out[j-1]))
		}
	}
	return out
}

// padRow raises a row to the given order by prepending zero coefficients.
func padRow(row []fwd, order int) []fwd {
	if len(row) >= order {
		return row
	}
	out := make([]fwd, order)
	for i := 0; i < order-len(row); i++ {
		out[i] = cst(0)
	}
	copy(out[order-len(row):], row)
	return out
}

// nodeDerivs returns the value, slope and (if the order allows) second
// derivative of a set of rows at every knot.
func nodeDerivs(knots []float64, rows [][]fwd) (ys, ds, ss []fwd) {
	n := len(knots)
	ys, ds, ss = make([]fwd, n), make([]fwd, n), make([]fwd, n)
	for i := 0; i < n-1; i++ {
		ys[i] = evalRow(rows[i], 0, 0)
		ds[i] = evalRow(rows[i], 0, 1)
		ss[i] = evalRow(rows[i], 0, 2)
	}
	h := knots[n-1] - knots[n-2]
	ys[n-1] = evalRow(rows[n-2], h, 0)
	ds[n-1] = evalRow(rows[n-2], h, 1)
	ss[n-1] = evalRow(rows[n-2], h, 2)
	return ys, ds, ss
}

// assemble turns coefficient rows into a Result, copying out gradients if
// withSense is set.
func assemble(
	knots []float64, rows [][]fwd, nData int, withSense bool,
) (*PiecewisePolynomialResultsWithSensitivity, error) {
	order := len(rows[0])
	res := &PiecewisePolynomialResultsWithSensitivity{
		PiecewisePolynomialResult: PiecewisePolynomialResult{
			knots: append([]float64(nil), knots...),
			coefs: make([][]float64, len(rows)),
			order: order, dim: 1,
		},
	}
	if withSense {
		res.sense = make([][][]float64, len(rows))
	}

	for i, row := range rows {
		if len(row) != order {
			panic("Internal error: ragged coefficient rows.")
		}
		res.coefs[i] = make([]float64, order)
		if withSense {
			res.sense[i] = make([][]float64, order)
		}
		for k, c := range row {
			if !isFinite(c.v) {
				return nil, invalidf(
					"coefficient %d of interval %d is not finite; "+
						"input values are too large", k, i,
				)
			}
			res.coefs[i][k] = c.v
			if withSense {
				res.sense[i][k] = make([]float64, nData)
				if c.d != nil {
					copy(res.sense[i][k], c.d)
				}
			}
		}
	}
	return res, nil
}
