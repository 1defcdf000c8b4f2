// Package circuit models first-order RC low-pass circuits in normalised units.
//
// Time is measured in units of RC and voltages in units of V0, so every model
// obeys
//
//	dVout/dt = Vin(t)/V0 - Vout
//
// and differs only in the input waveform:
//
//   - [StepDown]: input held at V0 for t < 0, switched off at t = 0
//   - [SquareWave]: input alternating between 0 and V0 with period T
package circuit
