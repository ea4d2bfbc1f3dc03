package extent

import "math"

// Recover solves S(xi) = targetLnQ for the unique feasible extent.
//
// Algorithm:
//  1. Evaluate S just inside both interval ends. A target beyond either
//     value is clamped to that boundary (reaction run to completion) and
//     flagged StatusClamped rather than treated as an error.
//  2. Otherwise run Newton from prevXi, guarded by bisection whenever a
//     step would leave the bracket; dS/dxi grows without bound near the
//     boundaries, so the guard is what keeps the search stable there.
//  3. The A+B <=> C+D unit-stoichiometry case skips the iteration and
//     solves the quadratic in xi directly, picking the feasible root
//     nearest prevXi (ties go to the smaller |xi|).
//
// prevXi is the continuity hint: callers sweeping a time grid pass the
// extent converged at the previous sample (0 for the first one).
// Residual reports |S(Xi) - targetLnQ| for converged and capped results.
func (p *Problem) Recover(targetLnQ, prevXi float64, opts Options) Result {
	opts = opts.withDefaults(p.scale)

	a, b := p.insetBounds()
	sa, sb := p.Potential(a), p.Potential(b)

	if targetLnQ <= sa {
		return p.clampAt(math.Max(p.lo, -boundCap))
	}
	if targetLnQ >= sb {
		return p.clampAt(math.Min(p.hi, boundCap))
	}

	if p.quad {
		if r, ok := p.recoverQuadratic(targetLnQ, prevXi, a, b, opts); ok {
			return r
		}
		// numerically degenerate quadratic; fall through to the monotone search
	}
	return p.recoverMonotone(targetLnQ, prevXi, a, b, opts)
}

// insetBounds shrinks the open interval slightly so S stays finite, and
// caps unbounded ends.
func (p *Problem) insetBounds() (a, b float64) {
	a, b = p.lo, p.hi
	if math.IsInf(a, -1) {
		a = -boundCap
	} else {
		a += 1e-12 * math.Max(1, math.Abs(a))
	}
	if math.IsInf(b, 1) {
		b = boundCap
	} else {
		b -= 1e-12 * math.Max(1, math.Abs(b))
	}
	return a, b
}

func (p *Problem) clampAt(xi float64) Result {
	return Result{
		Xi:     xi,
		Conc:   p.Concentrations(xi),
		Status: StatusClamped,
	}
}

func (p *Problem) recoverMonotone(target, prevXi, a, b float64, opts Options) Result {
	x := math.Min(math.Max(prevXi, a), b)

	for it := 1; it <= opts.MaxIterations; it++ {
		fx := p.Potential(x) - target
		switch {
		case fx == 0:
			return Result{Xi: x, Conc: p.Concentrations(x), Status: StatusConverged, Iterations: it}
		case fx < 0:
			a = x
		default:
			b = x
		}

		next := math.NaN()
		if d := p.PotentialDeriv(x); d > 0 {
			next = x - fx/d
		}
		if math.IsNaN(next) || next <= a || next >= b {
			next = 0.5 * (a + b)
		}

		if math.Abs(next-x) < opts.Tolerance {
			return Result{
				Xi:         next,
				Conc:       p.Concentrations(next),
				Status:     StatusConverged,
				Residual:   math.Abs(p.Potential(next) - target),
				Iterations: it,
			}
		}
		x = next
	}

	return Result{
		Xi:         x,
		Conc:       p.Concentrations(x),
		Status:     StatusNoConvergence,
		Residual:   math.Abs(p.Potential(x) - target),
		Iterations: opts.MaxIterations,
	}
}

// recoverQuadratic solves (C0+xi)(D0+xi) = Q (A0-xi)(B0-xi) directly:
// (Q-1) xi^2 - [Q(A0+B0) + (C0+D0)] xi + Q A0 B0 - C0 D0 = 0.
func (p *Problem) recoverQuadratic(target, prevXi, lo, hi float64, opts Options) (Result, bool) {
	q := math.Exp(target)
	a0 := p.conc0[p.reactA]
	b0 := p.conc0[p.reactB]
	c0 := p.conc0[p.prodC]
	d0 := p.conc0[p.prodD]

	qa := q - 1
	qb := -q*(a0+b0) - (c0 + d0)
	qc := q*a0*b0 - c0*d0

	var roots []float64
	if math.Abs(qa) < 1e-14*math.Max(1, math.Abs(qb)) {
		if qb == 0 {
			return Result{}, false
		}
		roots = []float64{-qc / qb}
	} else {
		disc := qb*qb - 4*qa*qc
		if disc < 0 {
			disc = 0 // round-off: the feasible target guarantees a real root
		}
		s := math.Sqrt(disc)
		roots = []float64{(-qb + s) / (2 * qa), (-qb - s) / (2 * qa)}
	}

	best := math.NaN()
	for _, r := range roots {
		if r < lo || r > hi {
			continue
		}
		if math.IsNaN(best) {
			best = r
			continue
		}
		dBest := math.Abs(best - prevXi)
		dR := math.Abs(r - prevXi)
		if dR < dBest-opts.Tolerance {
			best = r
		} else if math.Abs(dR-dBest) <= opts.Tolerance && math.Abs(r) < math.Abs(best) {
			// tie between two feasible roots: prefer the smaller extent
			best = r
		}
	}
	if math.IsNaN(best) {
		return Result{}, false
	}

	return Result{
		Xi:       best,
		Conc:     p.Concentrations(best),
		Status:   StatusConverged,
		Residual: math.Abs(p.Potential(best) - target),
	}, true
}
