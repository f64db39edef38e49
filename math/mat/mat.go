/*package mat contains the banded linear algebra routines used to construct
splines. The systems solved here are tridiagonal, and a factorization can be
reused for any number of right-hand sides, which is how spline sensitivities
are propagated. Dense least squares lives in math/leastsq, on top of gonum.
*/
package mat

import (
	"errors"
	"fmt"
	"math"
)

// ErrSingular is returned when a tridiagonal system has no unique solution.
var ErrSingular = errors.New("mat: singular tridiagonal system")

// TriDiag is the factorization of the tridiagonal matrix
//
// | b0 c0          |
// | a1 b1 c1       |
// |    .. .. ..    |
// |       an bn    |
//
// a0 and cn are never read.
type TriDiag struct {
	as, betas, gammas []float64
}

// NewTriDiag factors the tridiagonal matrix with sub-diagonal as, diagonal bs
// and super-diagonal cs. All three slices must have the same length.
func NewTriDiag(as, bs, cs []float64) (*TriDiag, error) {
	if len(as) != len(bs) || len(as) != len(cs) {
		return nil, fmt.Errorf(
			"mat: tridiagonal bands have lengths %d, %d, and %d",
			len(as), len(bs), len(cs),
		)
	} else if len(bs) == 0 {
		return nil, fmt.Errorf("mat: empty tridiagonal system")
	}

	n := len(bs)
	td := &TriDiag{
		as:     make([]float64, n),
		betas:  make([]float64, n),
		gammas: make([]float64, n),
	}
	copy(td.as, as)

	beta := bs[0]
	if !usablePivot(beta) {
		return nil, ErrSingular
	}
	td.betas[0] = beta

	for i := 1; i < n; i++ {
		td.gammas[i] = cs[i-1] / beta
		beta = bs[i] - as[i]*td.gammas[i]
		if !usablePivot(beta) {
			return nil, ErrSingular
		}
		td.betas[i] = beta
	}

	return td, nil
}

func usablePivot(beta float64) bool {
	return beta != 0 && !math.IsNaN(beta) && !math.IsInf(beta, 0)
}

// Len returns the number of unknowns in the system.
func (td *TriDiag) Len() int { return len(td.betas) }

// SolveAt solves the system for the right-hand side rs and writes the
// solution to out. rs and out may be the same slice.
func (td *TriDiag) SolveAt(rs, out []float64) error {
	n := td.Len()
	if len(rs) != n || len(out) != n {
		return fmt.Errorf(
			"mat: system has %d unknowns, but len(rs) = %d and len(out) = %d",
			n, len(rs), len(out),
		)
	}

	out[0] = rs[0] / td.betas[0]
	for i := 1; i < n; i++ {
		out[i] = (rs[i] - td.as[i]*out[i-1]) / td.betas[i]
	}

	for i := n - 2; i >= 0; i-- {
		out[i] -= td.gammas[i+1] * out[i+1]
	}
	return nil
}

// Solve is like SolveAt, but allocates its output.
func (td *TriDiag) Solve(rs []float64) ([]float64, error) {
	out := make([]float64, len(rs))
	if err := td.SolveAt(rs, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SolveTriDiag factors and solves a single tridiagonal system.
func SolveTriDiag(as, bs, cs, rs []float64) ([]float64, error) {
	td, err := NewTriDiag(as, bs, cs)
	if err != nil {
		return nil, err
	}
	return td.Solve(rs)
}
