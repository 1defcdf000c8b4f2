// Package analysis provides Fourier tools for sampled signals.
//
// The package covers:
//
//   - [FFT] and [IFFT]: recursive radix-2 transforms
//   - [FFTFreq], [FFTShift], [IFFTShift]: frequency axes and zero-centring
//   - [Convolver]: convolution by multiplication in the frequency domain
//   - [Pulse] and [Gaussian]: analytic test signals
//
// # Convolution
//
// Two signals sampled on the same symmetric grid are convolved as
//
//	conv := real(ifftshift(ifft(F[h] * F[g]))) * spacing
//
// The shift puts t = 0 back in the middle of the grid, and the spacing turns
// the discrete sum into an approximation of the integral:
//
//	c := analysis.Convolver{Backend: analysis.BackendDSP}
//	res, err := c.Convolve(h, g, ts[1]-ts[0])
package analysis
