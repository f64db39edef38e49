package interpolate

// MeshgridInterpolator interpolates gridded data without building a 2D
// Result. For a key (x0, x1), every row of the grid is interpolated along
// axis 1 and evaluated at x1, and the resulting column is interpolated
// along axis 0 and evaluated at x0. The surface is not continuous in the
// cross derivative.
type MeshgridInterpolator struct {
	method0, method1 PiecewisePolynomialInterpolator
}

func NewMeshgridInterpolator(
	method0, method1 PiecewisePolynomialInterpolator,
) *MeshgridInterpolator {
	return &MeshgridInterpolator{method0, method1}
}

// Interpolate returns the value at (x0, x1) of the grid ys, where ys[i][j]
// is the value at (x0s[i], x1s[j]).
func (mg *MeshgridInterpolator) Interpolate(
	x0s, x1s []float64, ys [][]float64, x0, x1 float64,
) (float64, error) {
	return mg.point(x0s, x1s, ys, x0, x1, 0, 0)
}

func (mg *MeshgridInterpolator) DifferentiateX0(
	x0s, x1s []float64, ys [][]float64, x0, x1 float64,
) (float64, error) {
	return mg.point(x0s, x1s, ys, x0, x1, 1, 0)
}

func (mg *MeshgridInterpolator) DifferentiateX1(
	x0s, x1s []float64, ys [][]float64, x0, x1 float64,
) (float64, error) {
	return mg.point(x0s, x1s, ys, x0, x1, 0, 1)
}

func (mg *MeshgridInterpolator) DifferentiateX0Twice(
	x0s, x1s []float64, ys [][]float64, x0, x1 float64,
) (float64, error) {
	return mg.point(x0s, x1s, ys, x0, x1, 2, 0)
}

func (mg *MeshgridInterpolator) DifferentiateX1Twice(
	x0s, x1s []float64, ys [][]float64, x0, x1 float64,
) (float64, error) {
	return mg.point(x0s, x1s, ys, x0, x1, 0, 2)
}

// InterpolateMesh evaluates the grid at every (keys0[a], keys1[b]). The
// row splines are built once for the whole mesh. The derivative variants
// follow the same layout.
func (mg *MeshgridInterpolator) InterpolateMesh(
	x0s, x1s []float64, ys [][]float64, keys0, keys1 []float64,
) ([][]float64, error) {
	return mg.mesh(x0s, x1s, ys, keys0, keys1, 0, 0)
}

func (mg *MeshgridInterpolator) DifferentiateX0Mesh(
	x0s, x1s []float64, ys [][]float64, keys0, keys1 []float64,
) ([][]float64, error) {
	return mg.mesh(x0s, x1s, ys, keys0, keys1, 1, 0)
}

func (mg *MeshgridInterpolator) DifferentiateX1Mesh(
	x0s, x1s []float64, ys [][]float64, keys0, keys1 []float64,
) ([][]float64, error) {
	return mg.mesh(x0s, x1s, ys, keys0, keys1, 0, 1)
}

func (mg *MeshgridInterpolator) DifferentiateX0TwiceMesh(
	x0s, x1s []float64, ys [][]float64, keys0, keys1 []float64,
) ([][]float64, error) {
	return mg.mesh(x0s, x1s, ys, keys0, keys1, 2, 0)
}

func (mg *MeshgridInterpolator) DifferentiateX1TwiceMesh(
	x0s, x1s []float64, ys [][]float64, keys0, keys1 []float64,
) ([][]float64, error) {
	return mg.mesh(x0s, x1s, ys, keys0, keys1, 0, 2)
}

func (mg *MeshgridInterpolator) point(
	x0s, x1s []float64, ys [][]float64, x0, x1 float64, m0, m1 int,
) (float64, error) {
	out, err := mg.mesh(x0s, x1s, ys, []float64{x0}, []float64{x1}, m0, m1)
	if err != nil {
		return 0, err
	}
	return out[0][0], nil
}

func (mg *MeshgridInterpolator) mesh(
	x0s, x1s []float64, ys [][]float64, keys0, keys1 []float64, m0, m1 int,
) ([][]float64, error) {
	if mg.method0 == nil || mg.method1 == nil {
		return nil, invalidf("MeshgridInterpolator needs two methods")
	}
	if err := checkGrid(x0s, x1s, ys); err != nil {
		return nil, err
	}

	rows, err := mg.method1.InterpolateMulti(x1s, ys)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(keys0))
	for a := range out {
		out[a] = make([]float64, len(keys1))
	}
	for b, x1 := range keys1 {
		col, err := evalAt(rows, x1, m1)
		if err != nil {
			return nil, err
		}
		res, err := mg.method0.Interpolate(x0s, col)
		if err != nil {
			return nil, err
		}
		for a, x0 := range keys0 {
			v, err := evalAt(res, x0, m0)
			if err != nil {
				return nil, err
			}
			out[a][b] = v[0]
		}
	}
	return out, nil
}
