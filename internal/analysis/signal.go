package analysis

import "math"

// Signal is a function of time.
type Signal interface {
	At(t float64) float64
}

// SignalFunc adapts a plain function to Signal.
type SignalFunc func(t float64) float64

func (f SignalFunc) At(t float64) float64 { return f(t) }

// Pulse is Height on the closed interval [Start, End] and zero elsewhere.
type Pulse struct {
	Start  float64
	End    float64
	Height float64
}

func (p Pulse) At(t float64) float64 {
	if t >= p.Start && t <= p.End {
		return p.Height
	}
	return 0
}

// Gaussian is Scale * exp(-t^2 / Spread).
type Gaussian struct {
	Scale  float64
	Spread float64
}

// NormalResponse is exp(-t^2/4) / sqrt(2 pi).
func NormalResponse() Gaussian {
	return Gaussian{Scale: 1 / math.Sqrt(2*math.Pi), Spread: 4}
}

func (g Gaussian) At(t float64) float64 {
	return g.Scale * math.Exp(-t*t/g.Spread)
}

// Sample evaluates s at every ts.
func Sample(s Signal, ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = s.At(t)
	}
	return out
}

// Peak returns the largest ys value and its abscissa. The first maximum wins.
func Peak(xs, ys []float64) (x, y float64) {
	if len(ys) == 0 {
		return math.NaN(), math.NaN()
	}
	best := 0
	for i := 1; i < len(ys); i++ {
		if ys[i] > ys[best] {
			best = i
		}
	}
	return xs[best], ys[best]
}

// PulseGaussian is the exact convolution of p with g at t:
//
//	Height * Scale * sqrt(pi*Spread)/2 * (erf((t-Start)/sqrt(Spread)) - erf((t-End)/sqrt(Spread)))
func PulseGaussian(p Pulse, g Gaussian, t float64) float64 {
	r := math.Sqrt(g.Spread)
	return p.Height * g.Scale * math.Sqrt(math.Pi*g.Spread) / 2 *
		(math.Erf((t-p.Start)/r) - math.Erf((t-p.End)/r))
}
