package lab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/numlab/internal/config"
	"github.com/san-kum/numlab/internal/experiment"
	"github.com/san-kum/numlab/internal/viz"
)

var ErrUnknownStudy = errors.New("lab: unknown study")

type study struct {
	name string
	desc string
	run  func(*Lab, context.Context) (*Report, error)
}

var studies = []study{
	{"float", "nearest representable neighbours of a float64", (*Lab).floatStudy},
	{"matrix", "LU decomposition, determinant, solve and inverse", (*Lab).matrixStudy},
	{"interp", "Lagrange and natural cubic spline interpolation", (*Lab).interpStudy},
	{"convolve", "FFT convolution of a pulse with a Gaussian", (*Lab).convolveStudy},
	{"ode", "RK4 and AB4 on an RC low-pass circuit", (*Lab).odeStudy},
}

type Lab struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	registry *experiment.Registry
}

func New(cfg *config.Config, log logrus.FieldLogger) *Lab {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Lab{cfg: cfg, log: log, registry: experiment.NewRegistry()}
}

// Registry returns the methods and circuits available to Compare and Solve.
func (l *Lab) Registry() *experiment.Registry { return l.registry }

// validate checks the config and that every configured method is registered.
func (l *Lab) validate() error {
	if err := l.cfg.Validate(); err != nil {
		return err
	}
	for _, name := range l.cfg.ODE.Methods {
		if _, err := l.registry.GetMethod(name); err != nil {
			return fmt.Errorf("%w: ode.methods: %v (available: %v)", config.ErrInvalid, err, l.registry.ListMethods())
		}
	}
	return nil
}

// Studies returns the study names in run order.
func Studies() []string {
	names := make([]string, len(studies))
	for i, s := range studies {
		names[i] = s.name
	}
	return names
}

// Describe returns a one-line description of a study.
func Describe(name string) string {
	for _, s := range studies {
		if s.name == name {
			return s.desc
		}
	}
	return ""
}

// Run executes one study.
func (l *Lab) Run(ctx context.Context, name string) (*Report, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	for _, s := range studies {
		if s.name != name {
			continue
		}
		log := l.log.WithField("study", name)
		log.Debug("study started")
		start := time.Now()

		report, err := s.run(l, ctx)
		if err != nil {
			return nil, fmt.Errorf("lab: %s: %w", name, err)
		}

		log.WithFields(logrus.Fields{
			"figures": len(report.Figures),
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("study finished")
		return report, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStudy, name)
}

// RunAll executes every study in order, stopping at the first failure.
func (l *Lab) RunAll(ctx context.Context) ([]*Report, error) {
	reports := make([]*Report, 0, len(studies))
	for _, name := range Studies() {
		r, err := l.Run(ctx, name)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Publish saves every figure of r under the configured figures directory and
// returns the written paths.
func (l *Lab) Publish(r *Report) ([]string, error) {
	out := l.cfg.Output
	paths := make([]string, 0, len(r.Figures))
	for _, f := range r.Figures {
		path, err := viz.SaveFigure(f, out.Figures, out.Format)
		if err != nil {
			return paths, err
		}
		l.log.WithFields(logrus.Fields{"study": r.Study, "figure": f.Name, "path": path}).Debug("figure saved")
		paths = append(paths, path)
	}
	return paths, nil
}
