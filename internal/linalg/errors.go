package linalg

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned for non-positive or ragged shapes.
	ErrBadShape = errors.New("linalg: invalid shape")

	// ErrOutOfRange indicates an index outside the matrix.
	ErrOutOfRange = errors.New("linalg: index out of range")

	// ErrDimensionMismatch indicates operands whose shapes do not conform,
	// e.g. Mul where a.Cols() != b.Rows().
	ErrDimensionMismatch = errors.New("linalg: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required.
	ErrNonSquare = errors.New("linalg: matrix is not square")

	// ErrZeroPivot signals a zero U[j][j] during decomposition; the matrix is
	// singular or needs row exchanges.
	ErrZeroPivot = errors.New("linalg: zero pivot in LU decomposition")

	// ErrSingular signals a zero diagonal entry during substitution.
	ErrSingular = errors.New("linalg: triangular factor is singular")

	// ErrNilMatrix indicates a nil operand.
	ErrNilMatrix = errors.New("linalg: nil matrix")
)

const (
	opMul       = "Mul"
	opDecompose = "Decompose"
	opSolve     = "Solve"
	opInverse   = "Inverse"
	opDet       = "Det"
)

// opErrorf wraps err with an operation tag, keeping it matchable with errors.Is.
func opErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
