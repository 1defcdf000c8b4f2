package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var ErrNotPowerOfTwo = errors.New("analysis: radix-2 transform needs a power of two length")

// FFT transforms real samples. The length must be a power of two.
func FFT(data []float64) ([]complex128, error) {
	c := make([]complex128, len(data))
	for i, v := range data {
		c[i] = complex(v, 0)
	}
	return FFTComplex(c)
}

// FFTComplex transforms complex samples. The length must be a power of two.
func FFTComplex(data []complex128) ([]complex128, error) {
	if !isPowerOfTwo(len(data)) {
		return nil, fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, len(data))
	}
	return radix2(data), nil
}

// IFFT inverts FFTComplex, including the 1/n normalisation.
func IFFT(spectrum []complex128) ([]complex128, error) {
	n := len(spectrum)
	if !isPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: got %d", ErrNotPowerOfTwo, n)
	}

	conj := make([]complex128, n)
	for i, v := range spectrum {
		conj[i] = cmplx.Conj(v)
	}
	out := radix2(conj)
	scale := complex(1/float64(n), 0)
	for i, v := range out {
		out[i] = cmplx.Conj(v) * scale
	}
	return out, nil
}

func radix2(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		return append([]complex128(nil), data...)
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := radix2(even)
	fodd := radix2(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// PowerSpectrum returns the magnitudes of the first half of the transform.
func PowerSpectrum(data []float64) ([]float64, error) {
	spectrum, err := FFT(data)
	if err != nil {
		return nil, err
	}
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps, nil
}

// Magnitudes returns |z| for every element.
func Magnitudes(z []complex128) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// FFTFreq returns the sample frequencies of an n-point transform with sample
// spacing d, in transform order: 0, 1, ..., then the negative frequencies.
func FFTFreq(n int, d float64) []float64 {
	f := make([]float64, n)
	positive := (n + 1) / 2
	for i := range f {
		k := i
		if i >= positive {
			k = i - n
		}
		f[i] = float64(k) / (float64(n) * d)
	}
	return f
}

// FFTShift rotates a transform-ordered slice so the zero frequency is central.
func FFTShift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	for i, v := range x {
		out[(i+n/2)%n] = v
	}
	return out
}

// IFFTShift undoes FFTShift, also for odd lengths.
func IFFTShift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	for i := range out {
		out[i] = x[(i+n/2)%n]
	}
	return out
}
