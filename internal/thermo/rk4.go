package thermo

import (
	"errors"
	"fmt"
)

// ErrIntegrationUnstable reports a step that produced a non-finite value.
var ErrIntegrationUnstable = errors.New("integration unstable")

// Derivative is the right-hand side dy/dx of a scalar ordinary differential
// equation.
type Derivative func(x, y float64) (float64, error)

// RK4 advances y from x0 to x1 in n equal classical fourth-order Runge-Kutta
// steps. x1 may be smaller than x0. An error from f, or a non-finite
// intermediate state, stops the integration.
func RK4(f Derivative, x0, y0, x1 float64, n int) (float64, error) {
	if n < 1 {
		n = 1
	}
	h := (x1 - x0) / float64(n)
	x, y := x0, y0

	for i := 0; i < n; i++ {
		k1, err := f(x, y)
		if err != nil {
			return 0, err
		}
		k2, err := f(x+h/2, y+h/2*k1)
		if err != nil {
			return 0, err
		}
		k3, err := f(x+h/2, y+h/2*k2)
		if err != nil {
			return 0, err
		}
		k4, err := f(x+h, y+h*k3)
		if err != nil {
			return 0, err
		}

		y += h / 6 * (k1 + 2*k2 + 2*k3 + k4)
		if !isFinite(y) {
			return 0, fmt.Errorf("step %d at x=%g: %w", i, x, ErrIntegrationUnstable)
		}
		// Recompute x from the step index so rounding does not drift past x1.
		x = x0 + float64(i+1)*h
	}
	return y, nil
}
