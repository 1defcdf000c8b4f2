package lab

import (
	"context"
	"fmt"

	"github.com/san-kum/numlab/internal/floatprobe"
)

// floatStudy probes A, its neighbours C < A < B, and their own neighbours
// F < C < E and E < B < D. Both routes to E must land on the same number.
func (l *Lab) floatStudy(ctx context.Context) (*Report, error) {
	cfg := l.cfg.Float
	r := newReport("float")
	prec := cfg.Decimals

	a, err := floatprobe.Nearest(cfg.Value)
	if err != nil {
		return nil, err
	}
	c, err := floatprobe.Nearest(a.Lower)
	if err != nil {
		return nil, err
	}
	b, err := floatprobe.Nearest(a.Upper)
	if err != nil {
		return nil, err
	}

	first := r.section("Neighbours of A")
	first.addf("A:  %.*f", prec, a.Value)
	first.addf("Lower number (C):  %.*f", prec, a.Lower)
	first.addf("Upper number (B):  %.*f", prec, a.Upper)
	if a.RangesDefined() {
		first.addf("Fractional rounding range (C to A):  %.*f", prec, a.LowerRange)
		first.addf("  in 2^n form:  2^%f", a.LowerExponent())
		first.addf("Fractional rounding range (B to A):  %.*f", prec, a.UpperRange)
		first.addf("  in 2^n form:  2^%f", a.UpperExponent())
		r.Summary["a_lower_exponent"] = a.LowerExponent()
		r.Summary["a_upper_exponent"] = a.UpperExponent()
	} else {
		first.addf("Fractional rounding ranges are undefined for A = 0")
	}

	second := r.section("Second neighbours")
	second.addf("D:  %.*f", prec, b.Upper)
	second.addf("E:  %.*f", prec, b.Lower)
	second.addf("F:  %.*f", prec, c.Lower)
	second.addf("Fractional rounding ranges:")
	ranges := []struct {
		label string
		n     floatprobe.Neighbours
		lower bool
	}{
		{"F to C", c, true},
		{"E to C", c, false},
		{"E to B", b, true},
		{"D to B", b, false},
	}
	for _, rg := range ranges {
		if !rg.n.RangesDefined() {
			second.addf("  %s:  undefined", rg.label)
			continue
		}
		v, e := rg.n.UpperRange, rg.n.UpperExponent()
		if rg.lower {
			v, e = rg.n.LowerRange, rg.n.LowerExponent()
		}
		second.addf("  %s:  %.*f  (2^%f)", rg.label, prec, v, e)
	}

	agree := c.Upper == b.Lower
	second.check(agree, fmt.Sprintf("both routes to E agree (E = %g)", b.Lower))
	r.Summary["e_agrees"] = boolValue(agree)
	r.Summary["gap_above_a"] = a.Upper - a.Value
	r.Summary["gap_below_a"] = a.Value - a.Lower

	if len(cfg.Probes) > 0 {
		val := r.section("Validation probes")
		for _, x := range cfg.Probes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			n, err := floatprobe.Nearest(x)
			if err != nil {
				val.addf("%g: %v", x, err)
				continue
			}
			if n.RangesDefined() {
				val.addf("%g:  lower %.17g, upper %.17g, ranges %.6g / %.6g",
					x, n.Lower, n.Upper, n.LowerRange, n.UpperRange)
			} else {
				val.addf("%g:  lower %.17g, upper %.17g, ranges undefined", x, n.Lower, n.Upper)
			}
		}
	}

	return r, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
