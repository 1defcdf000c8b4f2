package integrators

import "github.com/san-kum/numlab/internal/ode"

// RK4 is the classic fourth-order Runge-Kutta stepper:
//
//	fa = f(t, x)
//	fb = f(t + h/2, x + h fa/2)
//	fc = f(t + h/2, x + h fb/2)
//	fd = f(t + h, x + h fc)
//	x' = x + h/6 (fa + 2fb + 2fc + fd)
type RK4 struct {
	k1, k2, k3, k4 ode.State
	scratch        ode.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(ode.State, n)
		r.k2 = make(ode.State, n)
		r.k3 = make(ode.State, n)
		r.k4 = make(ode.State, n)
		r.scratch = make(ode.State, n)
	}
}

func (r *RK4) Step(sys ode.System, t float64, x ode.State, h float64) ode.State {
	n := len(x)
	r.ensureScratch(n)

	dx, ok := derive(sys, t, x)
	if !ok {
		return dx
	}
	copy(r.k1, dx)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*r.k1[i]/2
	}
	if dx, ok = derive(sys, t+h/2, r.scratch); !ok {
		return dx
	}
	copy(r.k2, dx)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*r.k2[i]/2
	}
	if dx, ok = derive(sys, t+h/2, r.scratch); !ok {
		return dx
	}
	copy(r.k3, dx)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*r.k3[i]
	}
	if dx, ok = derive(sys, t+h, r.scratch); !ok {
		return dx
	}
	copy(r.k4, dx)

	result := make(ode.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
