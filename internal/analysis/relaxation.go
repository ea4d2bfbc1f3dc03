package analysis

import (
	"fmt"
	"math"
)

// RelaxationRate estimates the rate k of d/dt ln(Q/Keq) = -k ln(Q/Keq)
// from a sampled trajectory.
//
// Algorithm:
//  1. Form the log deviation x(t) = ln(Q(t)/Keq)
//  2. Fit ln|x(t)| against t by least squares
//  3. k is the negated slope
//
// Samples where |x| has decayed below a floor are skipped so round-off
// near equilibrium does not bias the fit. At least two usable samples are
// required.
func RelaxationRate(times, q []float64, keq float64) (float64, error) {
	if len(times) != len(q) {
		return 0, fmt.Errorf("analysis: %d times for %d samples", len(times), len(q))
	}
	if keq <= 0 {
		return 0, fmt.Errorf("analysis: Keq must be positive, got %g", keq)
	}

	const floor = 1e-9

	var ts, ys []float64
	for i := range times {
		if q[i] <= 0 {
			continue
		}
		x := math.Abs(math.Log(q[i] / keq))
		if x < floor {
			continue
		}
		ts = append(ts, times[i])
		ys = append(ys, math.Log(x))
	}
	if len(ts) < 2 {
		return 0, fmt.Errorf("analysis: not enough samples away from equilibrium (%d usable)", len(ts))
	}

	// least squares slope
	n := float64(len(ts))
	var st, sy, stt, sty float64
	for i := range ts {
		st += ts[i]
		sy += ys[i]
		stt += ts[i] * ts[i]
		sty += ts[i] * ys[i]
	}
	den := n*stt - st*st
	if den == 0 {
		return 0, fmt.Errorf("analysis: degenerate time grid")
	}
	slope := (n*sty - st*sy) / den
	return -slope, nil
}
