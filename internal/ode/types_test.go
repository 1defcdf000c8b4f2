package ode

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	c := a.Clone()
	c[0] = 99
	if a[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestResultComponent(t *testing.T) {
	r := &Result{States: []State{{1, 2}, {3, 4}, {5}}}

	got := r.Component(1)
	want := []float64{2, 4, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Component(1)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if f := r.Final(); len(f) != 1 || f[0] != 5 {
		t.Errorf("Final() = %v", f)
	}
	if (&Result{}).Final() != nil {
		t.Error("Final() of empty result should be nil")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 0.3, State: State{3, 4}, Wrapped: ErrInvalidState}
	if err.Error() != ErrInvalidState.Error()+" at step 3, t=0.3 (|x| = 5)" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}

func TestGrid(t *testing.T) {
	ts := Grid(0, 10, 1e-3)
	if len(ts) != 10001 {
		t.Fatalf("expected 10001 points, got %d", len(ts))
	}
	if math.Abs(ts[len(ts)-1]-10) > 1e-12 {
		t.Errorf("last point = %v, want 10", ts[len(ts)-1])
	}

	if Grid(0, 1, 0) != nil {
		t.Error("zero step should give nil grid")
	}
	if Grid(1, 0, 0.1) != nil {
		t.Error("reversed bounds should give nil grid")
	}
}

func TestLinspace(t *testing.T) {
	ts := Linspace(-50, 50, 4096)
	if len(ts) != 4096 {
		t.Fatalf("expected 4096 points, got %d", len(ts))
	}
	if ts[0] != -50 || ts[len(ts)-1] != 50 {
		t.Errorf("endpoints = %v, %v", ts[0], ts[len(ts)-1])
	}

	if got := Linspace(2, 3, 1); len(got) != 1 || got[0] != 2 {
		t.Errorf("Linspace(n=1) = %v", got)
	}
	if Linspace(0, 1, 0) != nil {
		t.Error("Linspace(n=0) should be nil")
	}
}

func TestUniformStep(t *testing.T) {
	h, ok := UniformStep(Grid(0, 10, 0.001))
	if !ok {
		t.Fatal("Grid output should be uniform")
	}
	if math.Abs(h-0.001) > 1e-15 {
		t.Errorf("h = %v", h)
	}

	if _, ok := UniformStep([]float64{0, 0.1, 0.3}); ok {
		t.Error("expected non-uniform grid to be rejected")
	}
	if _, ok := UniformStep([]float64{0}); ok {
		t.Error("single point grid has no step")
	}
}
