package lab

import (
	"context"
	"math"

	"github.com/san-kum/numlab/internal/analysis"
	"github.com/san-kum/numlab/internal/ode"
	"github.com/san-kum/numlab/internal/viz"
)

func (l *Lab) convolveStudy(ctx context.Context) (*Report, error) {
	cfg := l.cfg.Convolution
	r := newReport("convolve")

	backend, err := analysis.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	n := cfg.Samples()
	ts := ode.Linspace(cfg.Start, cfg.Stop, n)
	spacing := ts[1] - ts[0]

	pulse := analysis.Pulse{Start: cfg.PulseStart, End: cfg.PulseEnd, Height: cfg.PulseHeight}
	response := analysis.Gaussian{Scale: 1 / math.Sqrt(2*math.Pi), Spread: cfg.ResponseSpread}
	h := analysis.Sample(pulse, ts)
	g := analysis.Sample(response, ts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := analysis.Convolver{Backend: backend}.Convolve(h, g, spacing)
	if err != nil {
		return nil, err
	}

	omega := analysis.FFTFreq(n, spacing)
	for i := range omega {
		omega[i] *= 2 * math.Pi
	}
	omega = analysis.FFTShift(omega)
	hMag := analysis.FFTShift(analysis.Magnitudes(res.SignalSpectrum))
	gMag := analysis.FFTShift(analysis.Magnitudes(res.ResponseSpectrum))

	peakT, peak := analysis.Peak(ts, res.Values)
	exact := make([]float64, n)
	worst := 0.0
	for i, t := range ts {
		exact[i] = analysis.PulseGaussian(pulse, response, t)
		worst = math.Max(worst, math.Abs(res.Values[i]-exact[i]))
	}

	s := r.section("Convolution")
	s.metric("backend", string(backend))
	s.metric("samples", n)
	s.metric("spacing", spacing)
	s.metric("peak value", peak)
	s.metric("peak at t", peakT)
	s.metric("max |numeric - exact|", worst)
	s.check(worst < 10*spacing*cfg.PulseHeight, "agrees with the closed form to within a few samples")

	r.Summary["samples"] = float64(n)
	r.Summary["spacing"] = spacing
	r.Summary["peak"] = peak
	r.Summary["peak_t"] = peakT
	r.Summary["max_error"] = worst

	r.figure(viz.NewFigure("originalFunctions", "Signals to be convolved", "t", "y").
		Add("y = h(t)", ts, h).
		Add("y = g(t)", ts, g))
	r.figure(viz.NewFigure("transformedFunctions", "Fourier transformed signals", "angular frequency", "|F|").
		Add("|F[h(t)]|", omega, hMag).
		Add("|F[g(t)]|", omega, gMag))
	r.figure(viz.NewFigure("convolvedFunctions", "Convolution", "Time", "(h*g)(t)").
		Add("numeric", ts, res.Values).
		Add("exact", ts, exact))

	return r, nil
}
