// Package floatprobe finds the float64 values adjacent to a given number by
// probing it with ever smaller powers of two, and reports the fractional
// rounding range on either side.
package floatprobe

import (
	"errors"
	"math"
)

var ErrNotFinite = errors.New("floatprobe: value must be finite")

// Neighbours holds the representable numbers either side of Value.
type Neighbours struct {
	Value float64
	Lower float64
	Upper float64

	// LowerRange and UpperRange are half the gap to each neighbour relative
	// to Value, i.e. the largest relative error of rounding to Value. They are
	// NaN when Value is zero.
	LowerRange float64
	UpperRange float64
}

// RangesDefined reports whether the fractional ranges could be computed.
func (n Neighbours) RangesDefined() bool { return n.Value != 0 }

// LowerExponent returns log2(|LowerRange|), the range in 2^n form.
func (n Neighbours) LowerExponent() float64 { return math.Log2(math.Abs(n.LowerRange)) }

// UpperExponent returns log2(|UpperRange|).
func (n Neighbours) UpperExponent() float64 { return math.Log2(math.Abs(n.UpperRange)) }

// Nearest probes x from both sides. Negative inputs are probed as |x| and the
// results mirrored, since float64 is symmetric about zero.
func Nearest(x float64) (Neighbours, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Neighbours{}, ErrNotFinite
	}

	negative := x < 0
	a := math.Abs(x)

	upper := probe(a, 1)
	lower := probe(a, -1)
	if negative {
		upper, lower = -lower, -upper
	}

	n := Neighbours{Value: x, Lower: lower, Upper: upper}
	if x == 0 {
		n.LowerRange = math.NaN()
		n.UpperRange = math.NaN()
	} else {
		n.LowerRange = 0.5 * (lower - x) / x
		n.UpperRange = 0.5 * (upper - x) / x
	}
	return n, nil
}

// probe adds sign·2^e to x for e = floor(log2 x), floor(log2 x)-1, ... until
// the sum stops differing from x, and returns the last sum that did differ.
// 2^e eventually underflows to zero, so the loop always ends.
func probe(x, sign float64) float64 {
	e := 0
	if x != 0 {
		_, exp := math.Frexp(x)
		e = exp - 1
	}

	last := x
	for {
		r := x + sign*math.Ldexp(1, e)
		if r == x {
			return last
		}
		last = r
		e--
	}
}
