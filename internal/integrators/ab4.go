package integrators

import (
	"context"

	"github.com/san-kum/numlab/internal/ode"
)

// AB4 is the explicit four-step Adams-Bashforth method
//
//	x[i+1] = x[i] + h/24 (55 f[i] - 59 f[i-1] + 37 f[i-2] - 9 f[i-3])
//
// The first four values come from a single-step starter (RK4 by default).
type AB4 struct {
	starter ode.Stepper
	metrics []ode.Metric
}

func NewAB4() *AB4 {
	return NewAB4WithStarter(NewRK4())
}

// NewAB4WithStarter uses the given stepper for the three start-up steps. A
// starter of lower order than four limits the accuracy of the whole run.
func NewAB4WithStarter(starter ode.Stepper) *AB4 {
	return &AB4{starter: starter}
}

func (a *AB4) AddMetric(m ode.Metric) { a.metrics = append(a.metrics, m) }

func (a *AB4) Integrate(ctx context.Context, sys ode.System, x0 ode.State, times []float64) (*ode.Result, error) {
	if len(times) < 4 {
		return nil, ode.ErrTooFewPoints
	}
	h, uniform := ode.UniformStep(times)
	if !uniform {
		return nil, ode.ErrNonUniformGrid
	}

	start := ode.NewSolver(a.starter)
	for _, m := range a.metrics {
		start.AddMetric(m)
	}
	result, err := start.Integrate(ctx, sys, x0, times[:4])
	if err != nil {
		return result, err
	}

	// f holds f[i-3], f[i-2], f[i-1], f[i] in that order.
	var f [4]ode.State
	for k := 0; k < 4; k++ {
		dx, ok := derive(sys, times[k], result.States[k])
		if !ok {
			return result, &ode.SimulationError{Step: k, Time: times[k], State: result.States[k], Wrapped: ode.ErrDimensionMismatch}
		}
		f[k] = dx.Clone()
	}

	h24 := h / 24.0
	for i := 3; i < len(times)-1; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		x := result.States[i]
		next := make(ode.State, len(x))
		for j := range x {
			next[j] = x[j] + h24*(55*f[3][j]-59*f[2][j]+37*f[1][j]-9*f[0][j])
		}
		if !next.IsValid() {
			return result, &ode.SimulationError{Step: i, Time: times[i+1], State: next, Wrapped: ode.ErrInvalidState}
		}

		result.Times = append(result.Times, times[i+1])
		result.States = append(result.States, next)
		result.Steps++
		for _, m := range a.metrics {
			m.Observe(times[i+1], next)
		}

		dx, ok := derive(sys, times[i+1], next)
		if !ok {
			return result, &ode.SimulationError{Step: i + 1, Time: times[i+1], State: next, Wrapped: ode.ErrDimensionMismatch}
		}
		f[0], f[1], f[2] = f[1], f[2], f[3]
		f[3] = dx.Clone()
	}

	for _, m := range a.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
