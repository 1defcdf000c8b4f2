package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/numlab/internal/circuit"
	"github.com/san-kum/numlab/internal/integrators"
	"github.com/san-kum/numlab/internal/ode"
)

func TestRelativeResiduals(t *testing.T) {
	got, err := RelativeResiduals([]float64{1.1, 2, 0}, []float64{1, 2, 0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got[0]-0.1) > 1e-12 {
		t.Errorf("got[0] = %v, want 0.1", got[0])
	}
	if got[1] != 0 {
		t.Errorf("got[1] = %v, want 0", got[1])
	}
	if !math.IsNaN(got[2]) {
		t.Errorf("got[2] = %v, want NaN", got[2])
	}

	if _, err := RelativeResiduals([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestEndpointGradient(t *testing.T) {
	g, err := EndpointGradient([]float64{0, 1, 2, 4}, []float64{1, 5, -3, 9})
	if err != nil {
		t.Fatal(err)
	}
	if g != 2 {
		t.Errorf("gradient = %v, want 2", g)
	}

	if _, err := EndpointGradient([]float64{0}, []float64{1}); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
	if _, err := EndpointGradient([]float64{0, 1}, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := EndpointGradient([]float64{1, 1}, []float64{1, 2}); err == nil {
		t.Error("expected error for zero span")
	}
}

func TestMaxAbs(t *testing.T) {
	if got := MaxAbs([]float64{1, -3, math.NaN(), 2}); got != 3 {
		t.Errorf("MaxAbs = %v, want 3", got)
	}
	if MaxAbs(nil) != 0 {
		t.Error("MaxAbs(nil) should be 0")
	}
}

func TestStability(t *testing.T) {
	m := NewStability(1.0)
	m.Observe(0, ode.State{0.5})
	m.Observe(1, ode.State{2.0})
	m.Observe(2, ode.State{-3.0})
	m.Observe(3, ode.State{0.1, -0.9})

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", m.Value())
	}
	if m.Escape() != 1 {
		t.Errorf("Escape = %v, want 1", m.Escape())
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Error("expected 1.0 after reset")
	}
	if !math.IsNaN(m.Escape()) {
		t.Error("Escape should be NaN after reset")
	}
}

func TestErrorMetricsWithSolver(t *testing.T) {
	sys := circuit.NewStepDown(1)
	x0 := ode.State{1}

	solver := ode.NewSolver(integrators.NewEuler())
	maxErr := NewMaxRelativeError(sys, x0)
	finalErr := NewFinalRelativeError(sys, x0)
	solver.AddMetric(maxErr)
	solver.AddMetric(finalErr)

	res, err := solver.Integrate(context.Background(), sys, x0, ode.Grid(0, 1, 0.1))
	if err != nil {
		t.Fatal(err)
	}

	want := (math.Pow(0.9, 10) - math.Exp(-1)) / math.Exp(-1)
	if math.Abs(res.Metrics["final_rel_error"]-want) > 1e-12 {
		t.Errorf("final_rel_error = %v, want %v", res.Metrics["final_rel_error"], want)
	}
	// Euler's relative error grows monotonically for exponential decay.
	if math.Abs(res.Metrics["max_rel_error"]-math.Abs(want)) > 1e-12 {
		t.Errorf("max_rel_error = %v, want %v", res.Metrics["max_rel_error"], math.Abs(want))
	}

	maxErr.Reset()
	if maxErr.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
