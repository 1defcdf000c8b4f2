package lab

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/numlab/internal/linalg"
)

const reproduceTol = 1e-9

func (l *Lab) matrixStudy(ctx context.Context) (*Report, error) {
	cfg := l.cfg.Matrix
	r := newReport("matrix")

	a, err := linalg.FromRows(cfg.A)
	if err != nil {
		return nil, err
	}
	n := a.Rows()
	dense := mat.NewDense(n, a.Cols(), a.RawData())

	lo, up, err := linalg.Factorize(a)
	if err != nil {
		return nil, err
	}
	lu, err := linalg.Mul(lo, up)
	if err != nil {
		return nil, err
	}
	luDiff, err := linalg.MaxAbsDiff(lu, a)
	if err != nil {
		return nil, err
	}

	dec := r.section("LU decomposition")
	dec.addf("L:")
	dec.block(lo.String())
	dec.addf("U:")
	dec.block(up.String())
	dec.addf("LU:")
	dec.block(lu.String())
	dec.check(luDiff <= reproduceTol, "L·U reproduces A")
	r.Summary["lu_max_diff"] = luDiff

	det, err := linalg.Det(a)
	if err != nil {
		return nil, err
	}
	gonumDet := mat.Det(dense)
	ds := r.section("Determinant")
	ds.metric("det(A) from U", det)
	ds.metric("det(A) from gonum", gonumDet)
	ds.check(math.Abs(det-gonumDet) <= reproduceTol*math.Max(1, math.Abs(det)), "determinants agree")
	r.Summary["det"] = det
	r.Summary["det_gonum"] = gonumDet

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, err := linalg.SolveVec(lo, up, cfg.B)
	if err != nil {
		return nil, err
	}
	ax, err := linalg.Mul(a, linalg.Column(x))
	if err != nil {
		return nil, err
	}
	residual, err := linalg.MaxAbsDiff(ax, linalg.Column(cfg.B))
	if err != nil {
		return nil, err
	}
	ss := r.section("Solve A x = b")
	ss.addf("x =")
	ss.block(linalg.Column(x).String())
	ss.addf("A x =")
	ss.block(ax.String())
	ss.check(residual <= reproduceTol, "A x reproduces b")
	r.Summary["solve_residual"] = residual

	inv, err := linalg.Inverse(a)
	if err != nil {
		return nil, err
	}
	var gonumInv mat.Dense
	if err := gonumInv.Inverse(dense); err != nil {
		return nil, err
	}
	invDiff := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			invDiff = math.Max(invDiff, math.Abs(inv.At(i, j)-gonumInv.At(i, j)))
		}
	}

	ident, err := linalg.Mul(a, inv)
	if err != nil {
		return nil, err
	}
	identErr, err := linalg.MaxAbsDiff(ident, linalg.Identity(n))
	if err != nil {
		return nil, err
	}

	is := r.section("Inverse")
	is.addf("A^-1:")
	is.block(inv.String())
	is.addf("A A^-1:")
	is.block(ident.String())
	is.addf("A A^-1 rounded to %d decimals:", cfg.RoundDecimals)
	is.block(ident.Round(cfg.RoundDecimals).String())
	is.check(invDiff <= reproduceTol, "inverse agrees with gonum")
	r.Summary["inverse_gonum_diff"] = invDiff
	r.Summary["identity_error"] = identErr

	return r, nil
}
