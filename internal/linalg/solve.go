package linalg

import "fmt"

// Solve returns x with L·U·x = b, for every column of b. L is solved by
// forward substitution and U by backward substitution; L's diagonal is read
// from the matrix rather than assumed to be one.
func Solve(l, u, b *Matrix) (*Matrix, error) {
	if l == nil || u == nil || b == nil {
		return nil, opErrorf(opSolve, ErrNilMatrix)
	}
	n := l.rows
	if !l.IsSquare() || !u.IsSquare() {
		return nil, opErrorf(opSolve, ErrNonSquare)
	}
	if u.rows != n || b.rows != n {
		return nil, opErrorf(opSolve, fmt.Errorf("%w: L %dx%d, U %dx%d, b %dx%d",
			ErrDimensionMismatch, l.rows, l.cols, u.rows, u.cols, b.rows, b.cols))
	}
	for i := 0; i < n; i++ {
		if l.At(i, i) == 0 || u.At(i, i) == 0 {
			return nil, opErrorf(opSolve, fmt.Errorf("%w: zero diagonal at %d", ErrSingular, i))
		}
	}

	x := &Matrix{rows: n, cols: b.cols, data: make([]float64, n*b.cols)}
	y := make([]float64, n)
	for c := 0; c < b.cols; c++ {
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < i; j++ {
				sum += l.At(i, j) * y[j]
			}
			y[i] = (b.At(i, c) - sum) / l.At(i, i)
		}

		for i := n - 1; i >= 0; i-- {
			sum := 0.0
			for j := i + 1; j < n; j++ {
				sum += u.At(i, j) * x.At(j, c)
			}
			x.Set(i, c, (y[i]-sum)/u.At(i, i))
		}
	}
	return x, nil
}

// SolveVec solves for a single right-hand side.
func SolveVec(l, u *Matrix, b []float64) ([]float64, error) {
	x, err := Solve(l, u, Column(b))
	if err != nil {
		return nil, err
	}
	return x.Col(0), nil
}

// Inverse factorizes m once and solves against each column of the identity.
func Inverse(m *Matrix) (*Matrix, error) {
	l, u, err := Factorize(m)
	if err != nil {
		return nil, opErrorf(opInverse, err)
	}
	n := m.rows
	inv, err := NewMatrix(n, n)
	if err != nil {
		return nil, opErrorf(opInverse, err)
	}
	e := make([]float64, n)
	for j := 0; j < n; j++ {
		clear(e)
		e[j] = 1
		col, err := SolveVec(l, u, e)
		if err != nil {
			return nil, opErrorf(opInverse, err)
		}
		if err := inv.SetCol(j, col); err != nil {
			return nil, opErrorf(opInverse, err)
		}
	}
	return inv, nil
}
