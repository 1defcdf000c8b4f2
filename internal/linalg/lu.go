package linalg

import "fmt"

// DecomposeInPlace overwrites m with its combined Doolittle factor R.
//
// Columns are processed left to right. For column j the U entries of rows
// 0..j are formed first, then the L entries below the diagonal are divided by
// the freshly computed pivot U[j][j]. Every value read has already been
// replaced by its factor entry, which is what makes the in-place update valid.
func DecomposeInPlace(m *Matrix) error {
	if m == nil {
		return opErrorf(opDecompose, ErrNilMatrix)
	}
	if !m.IsSquare() {
		return opErrorf(opDecompose, fmt.Errorf("%w: %dx%d", ErrNonSquare, m.rows, m.cols))
	}

	n := m.rows
	a := m.data
	for j := 0; j < n; j++ {
		for i := 0; i <= j; i++ {
			sum := 0.0
			for k := 0; k < i; k++ {
				sum += a[i*n+k] * a[k*n+j]
			}
			a[i*n+j] -= sum
		}

		if j == n-1 {
			break
		}
		pivot := a[j*n+j]
		if pivot == 0 {
			return opErrorf(opDecompose, fmt.Errorf("%w at column %d", ErrZeroPivot, j))
		}
		for i := j + 1; i < n; i++ {
			sum := 0.0
			for k := 0; k < j; k++ {
				sum += a[i*n+k] * a[k*n+j]
			}
			a[i*n+j] = (a[i*n+j] - sum) / pivot
		}
	}
	return nil
}

// Decompose returns the combined factor R of m, leaving m untouched.
func Decompose(m *Matrix) (*Matrix, error) {
	if m == nil {
		return nil, opErrorf(opDecompose, ErrNilMatrix)
	}
	r := m.Clone()
	if err := DecomposeInPlace(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Split separates a combined factor into unit-lower L and upper U.
func Split(r *Matrix) (l, u *Matrix) {
	n := r.rows
	l = Identity(n)
	u = &Matrix{rows: n, cols: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i > j {
				l.data[i*n+j] = r.data[i*n+j]
			} else {
				u.data[i*n+j] = r.data[i*n+j]
			}
		}
	}
	return l, u
}

// Factorize decomposes m and returns L and U such that L·U = m.
func Factorize(m *Matrix) (l, u *Matrix, err error) {
	r, err := Decompose(m)
	if err != nil {
		return nil, nil, err
	}
	l, u = Split(r)
	return l, u, nil
}

// Det is the product of U's diagonal; det(L) is one.
func Det(m *Matrix) (float64, error) {
	_, u, err := Factorize(m)
	if err != nil {
		return 0, opErrorf(opDet, err)
	}
	det := 1.0
	for i := 0; i < u.rows; i++ {
		det *= u.At(i, i)
	}
	return det, nil
}
