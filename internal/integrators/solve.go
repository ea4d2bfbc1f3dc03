package integrators

import (
	"fmt"

	"github.com/san-kum/rqlab/internal/kinetics"
)

// Solve integrates sys over the given time grid and returns the state at
// every grid point, x0 included. Intervals wider than maxDt are split into
// equal substeps; maxDt <= 0 takes one step per interval.
func Solve(sys kinetics.System, integ kinetics.Integrator, x0 kinetics.State, times []float64, maxDt float64) ([]kinetics.State, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("integrators: empty time grid")
	}
	out := make([]kinetics.State, 0, len(times))
	out = append(out, x0.Clone())

	x := x0.Clone()
	for i := 1; i < len(times); i++ {
		span := times[i] - times[i-1]
		if span <= 0 {
			return nil, fmt.Errorf("integrators: time grid must be strictly increasing at index %d", i)
		}
		steps := 1
		if maxDt > 0 && span > maxDt {
			steps = int(span/maxDt) + 1
		}
		dt := span / float64(steps)
		t := times[i-1]
		for s := 0; s < steps; s++ {
			x = integ.Step(sys, x, t, dt)
			t += dt
		}
		if !x.IsValid() {
			return out, fmt.Errorf("integrators: invalid state (NaN/Inf) at t=%.6f", t)
		}
		out = append(out, x.Clone())
	}
	return out, nil
}
