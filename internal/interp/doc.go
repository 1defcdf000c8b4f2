// Package interp fits curves through tabulated points.
//
// Lagrange evaluates the single interpolating polynomial directly from the
// data. Spline is a natural cubic spline: piecewise cubics with continuous
// first and second derivatives and zero curvature at both ends, whose knot
// second derivatives come from a tridiagonal system solved by LU.
package interp
