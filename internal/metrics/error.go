package metrics

import (
	"math"

	"github.com/san-kum/numlab/internal/ode"
)

// MaxRelativeError tracks the largest |x - exact| / |exact| over component 0
// against an analytic solution started from x0.
type MaxRelativeError struct {
	name  string
	sys   ode.Analytic
	x0    ode.State
	worst float64
}

func NewMaxRelativeError(sys ode.Analytic, x0 ode.State) *MaxRelativeError {
	return &MaxRelativeError{
		name: "max_rel_error",
		sys:  sys,
		x0:   x0.Clone(),
	}
}

func (m *MaxRelativeError) Name() string { return m.name }

func (m *MaxRelativeError) Observe(t float64, x ode.State) {
	exact := m.sys.Exact(t, m.x0)
	if len(exact) == 0 || len(x) == 0 || exact[0] == 0 {
		return
	}
	if rel := math.Abs(x[0]-exact[0]) / math.Abs(exact[0]); rel > m.worst {
		m.worst = rel
	}
}

func (m *MaxRelativeError) Value() float64 { return m.worst }

func (m *MaxRelativeError) Reset() { m.worst = 0 }

// FinalRelativeError is the signed relative residual of the last observed state.
type FinalRelativeError struct {
	name string
	sys  ode.Analytic
	x0   ode.State
	last float64
}

func NewFinalRelativeError(sys ode.Analytic, x0 ode.State) *FinalRelativeError {
	return &FinalRelativeError{
		name: "final_rel_error",
		sys:  sys,
		x0:   x0.Clone(),
	}
}

func (m *FinalRelativeError) Name() string { return m.name }

func (m *FinalRelativeError) Observe(t float64, x ode.State) {
	exact := m.sys.Exact(t, m.x0)
	if len(exact) == 0 || len(x) == 0 || exact[0] == 0 {
		return
	}
	m.last = (x[0] - exact[0]) / exact[0]
}

func (m *FinalRelativeError) Value() float64 { return m.last }

func (m *FinalRelativeError) Reset() { m.last = 0 }
