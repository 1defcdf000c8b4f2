package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func naiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range out {
		for j, v := range x {
			out[k] += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*j)/float64(n)))
		}
	}
	return out
}

func TestFFTMatchesDFT(t *testing.T) {
	x := []float64{1, -2, 0.5, 3, 0, 0, 4.25, -1}
	got, err := FFT(x)
	if err != nil {
		t.Fatal(err)
	}
	want := naiveDFT(x)
	for k := range want {
		if cmplx.Abs(got[k]-want[k]) > 1e-12 {
			t.Errorf("bin %d: got %v, want %v", k, got[k], want[k])
		}
	}
}

func TestIFFTRoundTrip(t *testing.T) {
	x := []complex128{1, 2i, -3, 0.5 + 0.5i}
	spec, err := FFTComplex(x)
	if err != nil {
		t.Fatal(err)
	}
	back, err := IFFT(spec)
	if err != nil {
		t.Fatal(err)
	}
	for i := range x {
		if cmplx.Abs(back[i]-x[i]) > 1e-14 {
			t.Errorf("sample %d: got %v, want %v", i, back[i], x[i])
		}
	}
}

func TestFFTRejectsOddLength(t *testing.T) {
	for _, n := range []int{0, 3, 6, 100} {
		if _, err := FFT(make([]float64, n)); !errors.Is(err, ErrNotPowerOfTwo) {
			t.Errorf("n=%d: expected ErrNotPowerOfTwo, got %v", n, err)
		}
	}
	if _, err := IFFT(make([]complex128, 12)); !errors.Is(err, ErrNotPowerOfTwo) {
		t.Errorf("IFFT: expected ErrNotPowerOfTwo, got %v", err)
	}
}

func TestPowerSpectrumPeak(t *testing.T) {
	const n = 64
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 5 * float64(i) / n)
	}
	ps, err := PowerSpectrum(x)
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(ps))
	}
	best := 0
	for i := range ps {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if best != 5 {
		t.Errorf("peak at bin %d, want 5", best)
	}
}

func TestFFTFreq(t *testing.T) {
	tests := []struct {
		n    int
		d    float64
		want []float64
	}{
		{8, 0.1, []float64{0, 1.25, 2.5, 3.75, -5, -3.75, -2.5, -1.25}},
		{5, 1, []float64{0, 0.2, 0.4, -0.4, -0.2}},
	}
	for _, tt := range tests {
		got := FFTFreq(tt.n, tt.d)
		for i := range tt.want {
			if math.Abs(got[i]-tt.want[i]) > 1e-12 {
				t.Errorf("FFTFreq(%d, %v)[%d] = %v, want %v", tt.n, tt.d, i, got[i], tt.want[i])
			}
		}
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		in, shifted, unshifted []int
	}{
		{[]int{0, 1, 2, 3, 4}, []int{3, 4, 0, 1, 2}, []int{2, 3, 4, 0, 1}},
		{[]int{0, 1, 2, 3}, []int{2, 3, 0, 1}, []int{2, 3, 0, 1}},
	}
	for _, tt := range tests {
		s := FFTShift(tt.in)
		u := IFFTShift(tt.in)
		for i := range tt.in {
			if s[i] != tt.shifted[i] {
				t.Errorf("FFTShift(%v) = %v, want %v", tt.in, s, tt.shifted)
				break
			}
			if u[i] != tt.unshifted[i] {
				t.Errorf("IFFTShift(%v) = %v, want %v", tt.in, u, tt.unshifted)
				break
			}
		}
		back := IFFTShift(FFTShift(tt.in))
		for i := range tt.in {
			if back[i] != tt.in[i] {
				t.Errorf("IFFTShift(FFTShift(%v)) = %v", tt.in, back)
				break
			}
		}
	}
}
