package ode

import (
	"context"
	"fmt"
)

// Solver drives a single-step Stepper across a time grid.
type Solver struct {
	stepper Stepper
	metrics []Metric
}

func NewSolver(stepper Stepper) *Solver {
	return &Solver{
		stepper: stepper,
		metrics: make([]Metric, 0),
	}
}

func (s *Solver) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Integrate steps from times[0] to the end of the grid using the spacing
// between consecutive points as the step size.
func (s *Solver) Integrate(ctx context.Context, sys System, x0 State, times []float64) (*Result, error) {
	if err := validateGrid(times); err != nil {
		return nil, err
	}

	result := &Result{
		Times:   make([]float64, 0, len(times)),
		States:  make([]State, 0, len(times)),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	s.record(result, times[0], x)

	for i := 0; i < len(times)-1; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := times[i]
		h := times[i+1] - t
		newX := s.stepper.Step(sys, t, x, h)

		if len(newX) != len(x) {
			return result, &SimulationError{Step: i, Time: t, State: x, Wrapped: ErrDimensionMismatch}
		}
		if !newX.IsValid() {
			return result, &SimulationError{Step: i, Time: times[i+1], State: newX, Wrapped: ErrInvalidState}
		}

		x = newX
		result.Steps++
		s.record(result, times[i+1], x)
	}

	s.collect(result)
	return result, nil
}

func (s *Solver) record(result *Result, t float64, x State) {
	result.Times = append(result.Times, t)
	result.States = append(result.States, x.Clone())
	for _, m := range s.metrics {
		m.Observe(t, x)
	}
}

func (s *Solver) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// String names the wrapped stepper, e.g. "solver(*integrators.RK4)".
func (s *Solver) String() string {
	return fmt.Sprintf("solver(%T)", s.stepper)
}
