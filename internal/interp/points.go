package interp

import (
	"errors"
	"fmt"
)

var (
	ErrEmpty          = errors.New("interp: no data points")
	ErrLengthMismatch = errors.New("interp: x and y lengths differ")
	ErrDuplicateX     = errors.New("interp: duplicate abscissa")
	ErrNotIncreasing  = errors.New("interp: abscissae must be strictly increasing")
	ErrTooFewPoints   = errors.New("interp: cubic spline needs more than three points")
)

// Points is a tabulated data set.
type Points struct {
	X []float64
	Y []float64
}

// Len returns the number of points.
func (p Points) Len() int { return len(p.X) }

func (p Points) validate() error {
	if len(p.X) != len(p.Y) {
		return fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(p.X), len(p.Y))
	}
	if len(p.X) == 0 {
		return ErrEmpty
	}
	return nil
}

// Lagrange evaluates the polynomial of degree Len()-1 through p at each xs.
func Lagrange(p Points, xs []float64) ([]float64, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	for i := range p.X {
		for j := i + 1; j < len(p.X); j++ {
			if p.X[i] == p.X[j] {
				return nil, fmt.Errorf("%w: x[%d] = x[%d] = %g", ErrDuplicateX, i, j, p.X[i])
			}
		}
	}

	ys := make([]float64, len(xs))
	for k, x := range xs {
		total := 0.0
		for i := range p.X {
			term := p.Y[i]
			for j := range p.X {
				if i != j {
					term *= (x - p.X[j]) / (p.X[i] - p.X[j])
				}
			}
			total += term
		}
		ys[k] = total
	}
	return ys, nil
}
