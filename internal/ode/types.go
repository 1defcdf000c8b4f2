package ode

import (
	"context"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// System is the right-hand side of dx/dt = f(t, x).
type System interface {
	Derive(t float64, x State) State
}

// Func adapts a plain function to System.
type Func func(t float64, x State) State

func (f Func) Derive(t float64, x State) State { return f(t, x) }

// Analytic is implemented by systems with a closed-form solution.
type Analytic interface {
	Exact(t float64, x0 State) State
}

type Stepper interface {
	Step(sys System, t float64, x State, h float64) State
}

// Method integrates a system over every point of a time grid.
type Method interface {
	Integrate(ctx context.Context, sys System, x0 State, times []float64) (*Result, error)
}

type Metric interface {
	Name() string
	Observe(t float64, x State)
	Value() float64
	Reset()
}

type Result struct {
	Times   []float64
	States  []State
	Metrics map[string]float64
	Steps   int
}

// Component extracts the i-th state variable over the whole run.
func (r *Result) Component(i int) []float64 {
	out := make([]float64, len(r.States))
	for k, s := range r.States {
		if i < len(s) {
			out[k] = s[i]
		}
	}
	return out
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
