package interp

import (
	"fmt"
	"sort"

	"github.com/san-kum/numlab/internal/linalg"
)

// Spline is a natural cubic spline through a set of knots.
type Spline struct {
	x   []float64
	y   []float64
	ypp []float64
}

// NewNaturalSpline solves for the knot second derivatives of p. The interior
// values satisfy, for i = 1..n-1,
//
//	h[i-1]/6 y''[i-1] + (x[i+1]-x[i-1])/3 y''[i] + h[i]/6 y''[i+1] = s[i] - s[i-1]
//
// where h[i] = x[i+1]-x[i] and s[i] is the slope of interval i. The end values
// are zero.
func NewNaturalSpline(p Points) (*Spline, error) {
	if len(p.X) != len(p.Y) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(p.X), len(p.Y))
	}
	if len(p.X) <= 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(p.X))
	}
	for i := 1; i < len(p.X); i++ {
		if p.X[i] <= p.X[i-1] {
			return nil, fmt.Errorf("%w: x[%d] = %g after %g", ErrNotIncreasing, i, p.X[i], p.X[i-1])
		}
	}

	n := len(p.X) - 1
	x, y := p.X, p.Y
	slope := func(i int) float64 { return (y[i+1] - y[i]) / (x[i+1] - x[i]) }

	m, err := linalg.NewMatrix(n-1, n-1)
	if err != nil {
		return nil, err
	}
	rhs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		r := i - 1
		if r > 0 {
			m.Set(r, r-1, (x[i]-x[i-1])/6)
		}
		m.Set(r, r, (x[i+1]-x[i-1])/3)
		if r < n-2 {
			m.Set(r, r+1, (x[i+1]-x[i])/6)
		}
		rhs[r] = slope(i) - slope(i-1)
	}

	l, u, err := linalg.Factorize(m)
	if err != nil {
		return nil, fmt.Errorf("interp: spline system: %w", err)
	}
	inner, err := linalg.SolveVec(l, u, rhs)
	if err != nil {
		return nil, fmt.Errorf("interp: spline system: %w", err)
	}

	ypp := make([]float64, n+1)
	copy(ypp[1:n], inner)

	s := &Spline{
		x:   append([]float64(nil), x...),
		y:   append([]float64(nil), y...),
		ypp: ypp,
	}
	return s, nil
}

// SecondDerivatives returns a copy of the knot second derivatives.
func (s *Spline) SecondDerivatives() []float64 {
	return append([]float64(nil), s.ypp...)
}

// Eval returns the spline value at x. Outside the knot range the nearest end
// cubic is extended.
func (s *Spline) Eval(x float64) float64 {
	j := s.interval(x)
	x0, x1 := s.x[j], s.x[j+1]
	h := x1 - x0

	a := (x1 - x) / h
	b := (x - x0) / h
	c := (a*a*a - a) * h * h / 6
	d := (b*b*b - b) * h * h / 6

	return a*s.y[j] + b*s.y[j+1] + c*s.ypp[j] + d*s.ypp[j+1]
}

// EvalAll evaluates the spline at every xs.
func (s *Spline) EvalAll(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = s.Eval(x)
	}
	return ys
}

// interval returns j such that x lies in [x[j], x[j+1]), clamped to the first
// and last intervals.
func (s *Spline) interval(x float64) int {
	j := sort.Search(len(s.x), func(i int) bool { return s.x[i] > x }) - 1
	if j < 0 {
		return 0
	}
	if last := len(s.x) - 2; j > last {
		return last
	}
	return j
}

// CubicSpline fits a natural spline to p and evaluates it at xs.
func CubicSpline(p Points, xs []float64) ([]float64, error) {
	s, err := NewNaturalSpline(p)
	if err != nil {
		return nil, err
	}
	return s.EvalAll(xs), nil
}
