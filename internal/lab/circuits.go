package lab

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/numlab/internal/experiment"
	"github.com/san-kum/numlab/internal/metrics"
	"github.com/san-kum/numlab/internal/ode"
	"github.com/san-kum/numlab/internal/viz"
)

// Compare integrates a registered circuit with each named method on the
// configured ODE grid. With a closed-form circuit the report also carries
// relative residuals. No methods means the configured ode.methods.
func (l *Lab) Compare(ctx context.Context, circuitName string, params experiment.Params, methods []string) (*Report, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		methods = l.cfg.ODE.Methods
	}
	cfg := l.cfg.ODE
	if _, ok := params["v0"]; !ok {
		params = withDefault(params, "v0", cfg.V0)
	}

	sys, err := l.registry.GetCircuit(circuitName, params)
	if err != nil {
		return nil, err
	}
	x0 := ode.State{cfg.X0}
	times := ode.Grid(cfg.Start, cfg.Stop, cfg.Step)

	jobs := make([]ode.Job, len(methods))
	for i, name := range methods {
		m, err := l.method(name, sys, x0)
		if err != nil {
			return nil, err
		}
		jobs[i] = ode.Job{Name: name, Method: m, System: sys, X0: x0, Times: times}
	}

	results, err := ode.RunAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	r := newReport("compare")
	s := r.section(fmt.Sprintf("%s on [%g, %g], step %g", sys, cfg.Start, cfg.Stop, cfg.Step))
	sol := viz.NewFigure(circuitName+"_solution", fmt.Sprint(sys), "t/CR", "V_out/V0")

	for i, res := range results {
		name := methods[i]
		s.metric(name+" final V_out", fmt.Sprintf("%.10f", res.Final()[0]))
		s.metric(name+" steps", res.Steps)
		for _, key := range sortedMetricKeys(res.Metrics) {
			v := res.Metrics[key]
			s.metric(fmt.Sprintf("%s %s", name, key), fmt.Sprintf("%.6e", v))
			r.Summary[name+"."+key] = v
		}
		r.Summary[name+".final"] = res.Final()[0]
		sol.Add(name, res.Times, res.Component(0))
	}

	if exact, ok := sys.(ode.Analytic); ok {
		truth := make([]float64, len(times))
		for i, t := range times {
			truth[i] = exact.Exact(t, x0)[0]
		}
		sol.Add("exact", times, truth)

		resid := viz.NewFigure(circuitName+"_residuals", "Relative residuals", "t/CR", "Relative residuals")
		for i, res := range results {
			vs, err := metrics.RelativeResiduals(res.Component(0), truth)
			if err != nil {
				return nil, err
			}
			grad, err := metrics.EndpointGradient(res.Times, vs)
			if err != nil {
				return nil, err
			}
			s.metric(methods[i]+" residual gradient", fmt.Sprintf("%.6e", grad))
			r.Summary[methods[i]+".gradient"] = grad
			resid.Add(methods[i], res.Times, vs)
		}
		r.figure(sol)
		r.figure(resid)
		return r, nil
	}

	r.figure(sol)
	return r, nil
}

// Solve is Compare with a single method.
func (l *Lab) Solve(ctx context.Context, circuitName string, params experiment.Params, method string) (*Report, error) {
	r, err := l.Compare(ctx, circuitName, params, []string{method})
	if err != nil {
		return nil, err
	}
	r.Study = "solve"
	return r, nil
}

func withDefault(p experiment.Params, key string, v float64) experiment.Params {
	out := make(experiment.Params, len(p)+1)
	for k, val := range p {
		out[k] = val
	}
	out[key] = v
	return out
}

func sortedMetricKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
