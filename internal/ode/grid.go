package ode

import "math"

// Grid returns the inclusive uniform grid start, start+step, ..., stop.
// The point count is rounded so that stop is hit even when (stop-start)/step
// is not an exact binary fraction; every point is computed as start+i*step to
// avoid accumulating additions.
func Grid(start, stop, step float64) []float64 {
	if step <= 0 || stop < start {
		return nil
	}
	n := int(math.Round((stop-start)/step)) + 1
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = start + float64(i)*step
	}
	return ts
}

// Linspace returns n evenly spaced samples over [a, b], both ends included.
func Linspace(a, b float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{a}
	}
	ts := make([]float64, n)
	d := (b - a) / float64(n-1)
	for i := range ts {
		ts[i] = a + float64(i)*d
	}
	ts[n-1] = b
	return ts
}

// UniformStep reports the step of a uniform grid. ok is false when the
// spacing varies by more than a relative tolerance of 1e-9.
func UniformStep(times []float64) (h float64, ok bool) {
	if len(times) < 2 {
		return 0, false
	}
	h = times[1] - times[0]
	tol := 1e-9 * math.Max(math.Abs(h), math.Abs(times[len(times)-1]))
	for i := 2; i < len(times); i++ {
		if math.Abs((times[i]-times[i-1])-h) > tol {
			return h, false
		}
	}
	return h, true
}

func validateGrid(times []float64) error {
	if len(times) < 2 {
		return ErrInvalidGrid
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return ErrInvalidGrid
		}
	}
	return nil
}
