package metrics

import (
	"math"

	"github.com/san-kum/numlab/internal/ode"
)

// Stability is the share of observed states with every component inside
// ±Bound. The time of the first state outside the bound is kept as Escape.
type Stability struct {
	Bound float64

	inside, total int
	escape        float64
}

func NewStability(bound float64) *Stability {
	return &Stability{Bound: bound, escape: math.NaN()}
}

func (*Stability) Name() string { return "stability" }

func (s *Stability) Observe(t float64, x ode.State) {
	s.total++
	if withinBound(x, s.Bound) {
		s.inside++
		return
	}
	if math.IsNaN(s.escape) {
		s.escape = t
	}
}

func withinBound(x ode.State, bound float64) bool {
	for _, v := range x {
		if math.Abs(v) > bound {
			return false
		}
	}
	return true
}

func (s *Stability) Value() float64 {
	if s.total == 0 {
		return 1
	}
	return float64(s.inside) / float64(s.total)
}

// Escape is the first time a state left the bound, NaN if none did.
func (s *Stability) Escape() float64 { return s.escape }

func (s *Stability) Reset() {
	s.inside, s.total = 0, 0
	s.escape = math.NaN()
}
