package lab

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/numlab/internal/circuit"
	"github.com/san-kum/numlab/internal/experiment"
	"github.com/san-kum/numlab/internal/metrics"
	"github.com/san-kum/numlab/internal/ode"
	"github.com/san-kum/numlab/internal/viz"
)

const (
	jobRK4 = iota
	jobAB4
	jobDoubled
	jobHalved
	jobSquare
)

// odeStudy integrates the discharging RC circuit with RK4 and AB4 against the
// exact solution, repeats RK4 at twice and half the step, and drives the
// circuit with a square wave for every configured period. All integrations
// run side by side.
func (l *Lab) odeStudy(ctx context.Context) (*Report, error) {
	cfg := l.cfg.ODE
	r := newReport("ode")

	sys := circuit.NewStepDown(cfg.V0)
	x0 := ode.State{cfg.X0}

	normal := ode.Grid(cfg.Start, cfg.Stop, cfg.Step)
	doubled := ode.Grid(cfg.Start, cfg.Stop, 2*cfg.Step)
	halved := ode.Grid(cfg.Start, cfg.Stop, cfg.Step/2)

	rk4, err := l.method("rk4", sys, x0)
	if err != nil {
		return nil, err
	}
	ab4, err := l.method("ab4", sys, x0)
	if err != nil {
		return nil, err
	}
	rk4d, err := l.method("rk4", nil, nil)
	if err != nil {
		return nil, err
	}
	rk4h, err := l.method("rk4", nil, nil)
	if err != nil {
		return nil, err
	}

	jobs := []ode.Job{
		jobRK4:     {Name: "rk4", Method: rk4, System: sys, X0: x0, Times: normal},
		jobAB4:     {Name: "ab4", Method: ab4, System: sys, X0: x0, Times: normal},
		jobDoubled: {Name: "rk4 doubled step", Method: rk4d, System: sys, X0: x0, Times: doubled},
		jobHalved:  {Name: "rk4 halved step", Method: rk4h, System: sys, X0: x0, Times: halved},
	}
	for _, period := range cfg.Periods {
		sq, err := circuit.NewSquareWave(cfg.V0, period)
		if err != nil {
			return nil, err
		}
		m, err := l.method("rk4", nil, nil)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, ode.Job{Name: sq.String(), Method: m, System: sq, X0: x0, Times: normal})
	}

	results, err := ode.RunAll(ctx, jobs)
	if err != nil {
		return nil, err
	}
	for i, res := range results {
		l.log.WithFields(logrus.Fields{"study": "ode", "job": jobs[i].Name, "steps": res.Steps}).Debug("integration finished")
	}

	exact := func(ts []float64) []float64 {
		out := make([]float64, len(ts))
		for i, t := range ts {
			out[i] = sys.Exact(t, x0)[0]
		}
		return out
	}
	type residual struct {
		ts, values []float64
		gradient   float64
	}
	residualOf := func(job int) (residual, error) {
		res := results[job]
		vs, err := metrics.RelativeResiduals(res.Component(0), exact(res.Times))
		if err != nil {
			return residual{}, err
		}
		grad, err := metrics.EndpointGradient(res.Times, vs)
		if err != nil {
			return residual{}, err
		}
		return residual{ts: res.Times, values: vs, gradient: grad}, nil
	}

	var rs [jobSquare]residual
	for job := range rs {
		if rs[job], err = residualOf(job); err != nil {
			return nil, fmt.Errorf("%s: %w", jobs[job].Name, err)
		}
	}

	c := r.section("Part c: RK4 and AB4 against the exact solution")
	c.metric("step", cfg.Step)
	c.metric("points", len(normal))
	c.metric("RK4 residual gradient", fmt.Sprintf("%.6e", rs[jobRK4].gradient))
	c.metric("AB4 residual gradient", fmt.Sprintf("%.6e", rs[jobAB4].gradient))
	c.metric("AB4 / RK4", fmt.Sprintf("%.6f", rs[jobAB4].gradient/rs[jobRK4].gradient))
	c.metric("RK4 max relative error", fmt.Sprintf("%.6e", results[jobRK4].Metrics["max_rel_error"]))
	c.metric("AB4 max relative error", fmt.Sprintf("%.6e", results[jobAB4].Metrics["max_rel_error"]))

	d := r.section("Part d: RK4 step-size dependence")
	d.metric("doubled step gradient", fmt.Sprintf("%.6e", rs[jobDoubled].gradient))
	d.metric("normal step gradient", fmt.Sprintf("%.6e", rs[jobRK4].gradient))
	d.metric("halved step gradient", fmt.Sprintf("%.6e", rs[jobHalved].gradient))
	d.metric("doubled / normal", fmt.Sprintf("%.6f", rs[jobDoubled].gradient/rs[jobRK4].gradient))
	d.metric("normal / halved", fmt.Sprintf("%.6f", rs[jobRK4].gradient/rs[jobHalved].gradient))

	e := r.section("Part e: square-wave input")
	for i, period := range cfg.Periods {
		res := results[jobSquare+i]
		e.metric(fmt.Sprintf("T = %gRC final V_out", period), fmt.Sprintf("%.6f", res.Final()[0]))
	}

	r.Summary["grad_rk4"] = rs[jobRK4].gradient
	r.Summary["grad_ab4"] = rs[jobAB4].gradient
	r.Summary["ratio_ab4_rk4"] = rs[jobAB4].gradient / rs[jobRK4].gradient
	r.Summary["grad_doubled"] = rs[jobDoubled].gradient
	r.Summary["grad_halved"] = rs[jobHalved].gradient
	r.Summary["ratio_doubled_normal"] = rs[jobDoubled].gradient / rs[jobRK4].gradient
	r.Summary["ratio_normal_halved"] = rs[jobRK4].gradient / rs[jobHalved].gradient
	r.Summary["max_rel_error_rk4"] = results[jobRK4].Metrics["max_rel_error"]
	r.Summary["max_rel_error_ab4"] = results[jobAB4].Metrics["max_rel_error"]

	r.figure(viz.NewFigure("diffEqSolnC", "V_out for part c", "t/CR", "V_out/V0").
		Add("Runge-Kutta", normal, results[jobRK4].Component(0)).
		Add("Adams-Bashforth", normal, results[jobAB4].Component(0)).
		Add("Analytical solution", normal, exact(normal)))
	r.figure(viz.NewFigure("cResiduals", "Relative residuals", "t/CR", "Relative residuals").
		Add("Runge-Kutta", rs[jobRK4].ts, rs[jobRK4].values).
		Add("Adams-Bashforth", rs[jobAB4].ts, rs[jobAB4].values))
	r.figure(viz.NewFigure("dResiduals", "Relative residuals against step size", "t/CR", "Relative residuals").
		Add("Doubled step size", rs[jobDoubled].ts, rs[jobDoubled].values).
		Add("Halved step size", rs[jobHalved].ts, rs[jobHalved].values).
		Add("Normal step size", rs[jobRK4].ts, rs[jobRK4].values))

	sq := viz.NewFigure("diffEqSolnE", "Comparison of results with different periods", "t/CR", "V_out")
	for i, period := range cfg.Periods {
		sq.Add(fmt.Sprintf("T = %gRC", period), normal, results[jobSquare+i].Component(0))
	}
	if len(cfg.Periods) > 0 {
		r.figure(sq)
	}

	return r, nil
}

// method builds a registry method, attaching the default metrics for sys when
// sys is given.
func (l *Lab) method(name string, sys ode.System, x0 ode.State) (experiment.Method, error) {
	m, err := l.registry.GetMethod(name)
	if err != nil {
		return nil, err
	}
	if sys != nil {
		for _, metric := range l.registry.DefaultMetrics(sys, x0) {
			m.AddMetric(metric)
		}
	}
	return m, nil
}
