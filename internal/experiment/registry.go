package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/numlab/internal/circuit"
	"github.com/san-kum/numlab/internal/integrators"
	"github.com/san-kum/numlab/internal/metrics"
	"github.com/san-kum/numlab/internal/ode"
)

// Method is an integration method that can carry metrics.
type Method interface {
	ode.Method
	AddMetric(m ode.Metric)
}

// Params are named circuit parameters; missing entries take defaults.
type Params map[string]float64

func (p Params) get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

type Registry struct {
	methods  map[string]func() Method
	circuits map[string]func(Params) (ode.System, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		methods:  make(map[string]func() Method),
		circuits: make(map[string]func(Params) (ode.System, error)),
	}

	r.methods["euler"] = func() Method { return ode.NewSolver(integrators.NewEuler()) }
	r.methods["rk4"] = func() Method { return ode.NewSolver(integrators.NewRK4()) }
	r.methods["rk45"] = func() Method { return ode.NewSolver(integrators.NewRK45()) }
	r.methods["ab4"] = func() Method { return integrators.NewAB4() }
	r.methods["ab4_euler"] = func() Method { return integrators.NewAB4WithStarter(integrators.NewEuler()) }

	r.circuits["rc_step"] = func(p Params) (ode.System, error) {
		v0 := p.get("v0", 1)
		if v0 == 0 {
			return nil, fmt.Errorf("rc_step: v0 must be non-zero")
		}
		return circuit.NewStepDown(v0), nil
	}
	r.circuits["rc_square"] = func(p Params) (ode.System, error) {
		v0 := p.get("v0", 1)
		if v0 == 0 {
			return nil, fmt.Errorf("rc_square: v0 must be non-zero")
		}
		return circuit.NewSquareWave(v0, p.get("period", 1))
	}

	return r
}

func (r *Registry) GetMethod(name string) (Method, error) {
	fn, ok := r.methods[name]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetCircuit(name string, params Params) (ode.System, error) {
	fn, ok := r.circuits[name]
	if !ok {
		return nil, fmt.Errorf("unknown circuit: %s", name)
	}
	return fn(params)
}

func (r *Registry) ListMethods() []string {
	return sortedKeys(r.methods)
}

func (r *Registry) ListCircuits() []string {
	return sortedKeys(r.circuits)
}

// DefaultMetrics returns the metrics worth tracking for sys. Error metrics
// are only available when sys has a closed-form solution.
func (r *Registry) DefaultMetrics(sys ode.System, x0 ode.State) []ode.Metric {
	ms := []ode.Metric{metrics.NewStability(10.0)}
	if exact, ok := sys.(ode.Analytic); ok {
		ms = append(ms,
			metrics.NewMaxRelativeError(exact, x0),
			metrics.NewFinalRelativeError(exact, x0),
		)
	}
	return ms
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
