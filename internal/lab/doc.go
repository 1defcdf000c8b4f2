// Package lab runs the numerical-methods studies and collects their results.
//
// Each study reads its inputs from a [config.Config], runs the numerics from
// the lower-level packages, and returns a [Report]: console sections, named
// scalar results for storage, and figures for plotting.
//
//	l := lab.New(cfg, logger)
//	report, err := l.Run(ctx, "ode")
//
// Studies:
//
//   - float: nearest representable neighbours of a float64 and their ranges
//   - matrix: LU factors, determinant, solve and inverse of a 5x5 system
//   - interp: Lagrange polynomial against a natural cubic spline
//   - convolve: pulse convolved with a Gaussian through the FFT
//   - ode: RK4 and AB4 on an RC circuit, step-size study and square-wave input
package lab
