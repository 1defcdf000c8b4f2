package integrators

import "github.com/san-kum/numlab/internal/ode"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys ode.System, t float64, x ode.State, h float64) ode.State {
	dx, ok := derive(sys, t, x)
	if !ok {
		return dx
	}
	result := make(ode.State, len(x))
	for i := range x {
		result[i] = x[i] + h*dx[i]
	}
	return result
}

// derive evaluates sys at (t, x) and reports whether the derivative has the
// state's length. On a mismatch steppers return the derivative itself so the
// solver sees a state of the wrong size.
func derive(sys ode.System, t float64, x ode.State) (ode.State, bool) {
	dx := sys.Derive(t, x)
	return dx, len(dx) == len(x)
}
