// Package linalg is the small dense linear-algebra core of numlab.
//
// It provides a row-major [Matrix], a naive triple-loop [Mul], Doolittle LU
// decomposition with combined storage ([DecomposeInPlace], [Decompose],
// [Split], [Factorize]) and forward/backward substitution ([Solve]). [Inverse]
// and [Det] are built on the same factorization.
//
// # Combined storage
//
// The Doolittle choice fixes L's diagonal to one, so L and U fit in a single
// n x n matrix R:
//
//	R[i][j] = L[i][j]  for i > j
//	R[i][j] = U[i][j]  for i <= j
//
// No pivoting is performed. A zero pivot that has to be divided by is reported
// as [ErrZeroPivot] even when the matrix itself is non-singular.
package linalg
