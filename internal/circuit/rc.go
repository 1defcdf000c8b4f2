package circuit

import (
	"fmt"
	"math"

	"github.com/san-kum/numlab/internal/ode"
)

// StepDown is a charged capacitor discharging once the input is removed.
type StepDown struct {
	V0 float64
}

func NewStepDown(v0 float64) *StepDown {
	return &StepDown{V0: v0}
}

func (s *StepDown) Input(t float64) float64 {
	if t < 0 {
		return s.V0
	}
	return 0
}

func (s *StepDown) Derive(t float64, x ode.State) ode.State {
	return ode.State{s.Input(t)/s.V0 - x[0]}
}

// Exact is the analytic discharge x0·e^(-t), valid for t >= 0.
func (s *StepDown) Exact(t float64, x0 ode.State) ode.State {
	return ode.State{x0[0] * math.Exp(-t)}
}

func (s *StepDown) String() string {
	return fmt.Sprintf("rc step-down (V0=%g)", s.V0)
}

// SquareWave drives the circuit with a square wave that is low for the first
// half of every period and high for the second.
type SquareWave struct {
	V0     float64
	Period float64
}

func NewSquareWave(v0, period float64) (*SquareWave, error) {
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("circuit: square wave period must be positive and finite, got %g", period)
	}
	return &SquareWave{V0: v0, Period: period}, nil
}

func (s *SquareWave) Input(t float64) float64 {
	phase := math.Mod(t, s.Period)
	if phase < 0 {
		phase += s.Period
	}
	if phase < s.Period/2 {
		return 0
	}
	return s.V0
}

func (s *SquareWave) Derive(t float64, x ode.State) ode.State {
	return ode.State{s.Input(t)/s.V0 - x[0]}
}

func (s *SquareWave) String() string {
	return fmt.Sprintf("rc square wave (V0=%g, T=%g)", s.V0, s.Period)
}
