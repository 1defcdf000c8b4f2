package analysis

import (
	"errors"
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrEmptySignal    = errors.New("analysis: empty signal")
	ErrLengthMismatch = errors.New("analysis: signals must have the same length")
	ErrUnknownBackend = errors.New("analysis: unknown transform backend")
)

// Backend selects the FFT implementation.
type Backend string

const (
	// BackendDSP uses go-dsp, which accepts any length.
	BackendDSP Backend = "dsp"
	// BackendRadix2 uses the in-package recursive transform.
	BackendRadix2 Backend = "radix2"
)

// Backends lists the accepted backend names.
func Backends() []Backend { return []Backend{BackendDSP, BackendRadix2} }

// ParseBackend maps a name to a Backend; empty means BackendDSP.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case "", BackendDSP:
		return BackendDSP, nil
	case BackendRadix2:
		return BackendRadix2, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// Convolution is the result of Convolver.Convolve.
type Convolution struct {
	Values           []float64
	SignalSpectrum   []complex128
	ResponseSpectrum []complex128
}

// Convolver convolves sampled signals in the frequency domain.
type Convolver struct {
	Backend Backend
}

// Convolve returns real(ifftshift(ifft(F[h]*F[g]))) * spacing. Both signals
// must be sampled on the same grid.
func (c Convolver) Convolve(h, g []float64, spacing float64) (*Convolution, error) {
	if len(h) == 0 {
		return nil, ErrEmptySignal
	}
	if len(h) != len(g) {
		return nil, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(h), len(g))
	}

	fh, err := c.forward(h)
	if err != nil {
		return nil, err
	}
	fg, err := c.forward(g)
	if err != nil {
		return nil, err
	}

	product := make([]complex128, len(fh))
	for i := range product {
		product[i] = fh[i] * fg[i]
	}

	inv, err := c.inverse(product)
	if err != nil {
		return nil, err
	}
	inv = IFFTShift(inv)

	values := make([]float64, len(inv))
	for i, v := range inv {
		values[i] = real(v) * spacing
	}

	return &Convolution{Values: values, SignalSpectrum: fh, ResponseSpectrum: fg}, nil
}

func (c Convolver) forward(x []float64) ([]complex128, error) {
	switch c.backend() {
	case BackendDSP:
		return fft.FFTReal(x), nil
	case BackendRadix2:
		return FFT(x)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
}

func (c Convolver) inverse(x []complex128) ([]complex128, error) {
	switch c.backend() {
	case BackendDSP:
		return fft.IFFT(x), nil
	case BackendRadix2:
		return IFFT(x)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
}

func (c Convolver) backend() Backend {
	if c.Backend == "" {
		return BackendDSP
	}
	return c.Backend
}
