// Package ode provides the integration core shared by every solver in numlab.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations dx/dt = f(t, x):
//
//   - [State]: vector representing the solution at one instant
//   - [System]: right-hand side f(t, x)
//   - [Stepper]: single-step integrator (Euler, RK4, ...)
//   - [Method]: integrates over a whole time grid (single- or multi-step)
//   - [Solver]: adapts a [Stepper] into a [Method]
//
// # Example
//
//	sys := circuit.NewStepDown(1)
//	solver := ode.NewSolver(integrators.NewRK4())
//	res, _ := solver.Integrate(ctx, sys, ode.State{1}, ode.Grid(0, 10, 1e-3))
//
// # Thread Safety
//
// Steppers keep scratch buffers and are NOT safe for concurrent use. [RunAll]
// expects every job to own its Method.
package ode
