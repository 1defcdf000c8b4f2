package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolveCoursework(t *testing.T) {
	a := courseworkA()
	b := []float64{2, 5, -4, 8, 9}

	l, u, err := Factorize(a)
	require.NoError(t, err)

	x, err := SolveVec(l, u, b)
	require.NoError(t, err)

	ax, err := Mul(a, Column(x))
	require.NoError(t, err)
	for i := range b {
		assert.InDelta(t, b[i], ax.At(i, 0), 1e-12, "row %d", i)
	}

	var want mat.VecDense
	require.NoError(t, want.SolveVec(toDense(a), mat.NewVecDense(5, b)))
	for i := range x {
		assert.InDelta(t, want.AtVec(i), x[i], 1e-12)
	}
}

func TestSolveMultipleColumns(t *testing.T) {
	a := MustFromRows([][]float64{{4, 3}, {6, 3}})
	b := MustFromRows([][]float64{{10, 1}, {12, 0}})

	l, u, err := Factorize(a)
	require.NoError(t, err)

	x, err := Solve(l, u, b)
	require.NoError(t, err)

	ax, err := Mul(a, x)
	require.NoError(t, err)
	requireClose(t, b, ax, 1e-12)
}

func TestSolveShapeErrors(t *testing.T) {
	l, u, err := Factorize(courseworkA())
	require.NoError(t, err)

	_, err = SolveVec(l, u, []float64{1, 2, 3})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	rect := MustFromRows([][]float64{{1, 2}})
	_, err = Solve(rect, u, Column([]float64{1}))
	require.ErrorIs(t, err, ErrNonSquare)

	_, err = Solve(nil, u, nil)
	require.ErrorIs(t, err, ErrNilMatrix)
}

func TestInverse(t *testing.T) {
	a := courseworkA()

	inv, err := Inverse(a)
	require.NoError(t, err)

	id, err := Mul(a, inv)
	require.NoError(t, err)
	requireClose(t, Identity(5), id, 1e-12)

	var want mat.Dense
	require.NoError(t, want.Inverse(toDense(a)))
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			assert.InDelta(t, want.At(i, j), inv.At(i, j), 1e-12)
		}
	}
}

func TestInverseZeroPivot(t *testing.T) {
	_, err := Inverse(MustFromRows([][]float64{{0, 1}, {1, 0}}))
	require.ErrorIs(t, err, ErrZeroPivot)
}
