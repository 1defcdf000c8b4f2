package metrics

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrLengthMismatch = errors.New("metrics: series lengths differ")
	ErrEmptySeries    = errors.New("metrics: series is empty")
)

// RelativeResiduals returns (numeric[i] - exact[i]) / exact[i]. Points where the
// exact value is zero produce NaN.
func RelativeResiduals(numeric, exact []float64) ([]float64, error) {
	if len(numeric) != len(exact) {
		return nil, fmt.Errorf("%w: %d numeric vs %d exact", ErrLengthMismatch, len(numeric), len(exact))
	}
	out := make([]float64, len(numeric))
	for i := range numeric {
		if exact[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (numeric[i] - exact[i]) / exact[i]
	}
	return out, nil
}

// EndpointGradient is the slope of the straight line through the first and
// last points of vs over ts.
func EndpointGradient(ts, vs []float64) (float64, error) {
	if len(ts) != len(vs) {
		return 0, fmt.Errorf("%w: %d times vs %d values", ErrLengthMismatch, len(ts), len(vs))
	}
	if len(ts) < 2 {
		return 0, ErrEmptySeries
	}
	last := len(ts) - 1
	span := ts[last] - ts[0]
	if span == 0 {
		return 0, fmt.Errorf("metrics: zero time span")
	}
	return (vs[last] - vs[0]) / span, nil
}

// MaxAbs returns the largest absolute value, ignoring NaNs.
func MaxAbs(vs []float64) float64 {
	m := 0.0
	for _, v := range vs {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}
