package ode

import (
	"errors"
	"fmt"
)

// Domain errors for integration.
var (
	// ErrInvalidState indicates a state containing NaN or Inf.
	ErrInvalidState = errors.New("ode: invalid state (NaN or Inf detected)")

	// ErrInvalidGrid indicates a time grid that is too short or not strictly increasing.
	ErrInvalidGrid = errors.New("ode: time grid must have at least two strictly increasing points")

	// ErrNonUniformGrid is returned by multistep methods that need a constant step.
	ErrNonUniformGrid = errors.New("ode: time grid is not uniform")

	// ErrTooFewPoints is returned when a method needs more grid points than given.
	ErrTooFewPoints = errors.New("ode: too few grid points for method")

	// ErrDimensionMismatch indicates a derivative whose length differs from the state.
	ErrDimensionMismatch = errors.New("ode: dimension mismatch between state and derivative")
)

// SimulationError wraps an error with integration context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%v at step %d, t=%g (|x| = %g)", e.Wrapped, e.Step, e.Time, e.State.Norm())
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
