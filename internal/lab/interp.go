package lab

import (
	"context"
	"math"

	"github.com/san-kum/numlab/internal/interp"
	"github.com/san-kum/numlab/internal/metrics"
	"github.com/san-kum/numlab/internal/ode"
	"github.com/san-kum/numlab/internal/viz"
)

func (l *Lab) interpStudy(ctx context.Context) (*Report, error) {
	cfg := l.cfg.Interp
	r := newReport("interp")

	p := interp.Points{X: cfg.X, Y: cfg.Y}
	if p.Len() == 0 {
		return nil, interp.ErrEmpty
	}
	xs := ode.Linspace(p.X[0], p.X[p.Len()-1], cfg.Samples)

	lagrange, err := interp.Lagrange(p, xs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spline, err := interp.NewNaturalSpline(p)
	if err != nil {
		return nil, err
	}
	cubic := spline.EvalAll(xs)

	gap := 0.0
	for i := range xs {
		gap = math.Max(gap, math.Abs(lagrange[i]-cubic[i]))
	}
	dataMax := metrics.MaxAbs(p.Y)

	s := r.section("Interpolation")
	s.metric("data points", p.Len())
	s.metric("polynomial degree", p.Len()-1)
	s.metric("samples", len(xs))
	s.metric("max |data|", dataMax)
	s.metric("max |Lagrange|", metrics.MaxAbs(lagrange))
	s.metric("max |spline|", metrics.MaxAbs(cubic))
	s.metric("max |Lagrange - spline|", gap)
	s.check(metrics.MaxAbs(lagrange) <= 2*dataMax, "Lagrange polynomial stays near the data")

	knots := r.section("Spline second derivatives")
	for i, v := range spline.SecondDerivatives() {
		knots.addf("x = %6.2f   y'' = % .6f", p.X[i], v)
	}

	r.Summary["lagrange_max_abs"] = metrics.MaxAbs(lagrange)
	r.Summary["spline_max_abs"] = metrics.MaxAbs(cubic)
	r.Summary["max_difference"] = gap

	r.figure(viz.NewFigure("interpolationComparison", "Interpolation comparison", "x", "y").
		AddPoints("Data points", p.X, p.Y).
		Add("Lagrange interpolation", xs, lagrange).
		Add("Cubic spline interpolation", xs, cubic))
	r.figure(viz.NewFigure("interpolationComparison2", "Cubic spline interpolation only", "x", "y").
		AddPoints("Data points", p.X, p.Y).
		Add("Cubic spline interpolation", xs, cubic))

	return r, nil
}
