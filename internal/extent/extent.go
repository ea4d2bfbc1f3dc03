package extent

import (
	"fmt"
	"math"

	"github.com/san-kum/rqlab/internal/chem"
)

// boundCap stands in for an unbounded feasible interval end so that
// bracketing always works with finite numbers.
const boundCap = 1e12

// Status classifies one recovery call.
type Status int

const (
	// StatusConverged means the root search met tolerance.
	StatusConverged Status = iota
	// StatusClamped means the target quotient would require a negative
	// concentration, so the extent was pinned at the feasible boundary.
	// This is an expected condition, not an error.
	StatusClamped
	// StatusNoConvergence means the iteration cap was hit; Xi holds the
	// best estimate and Residual its defect.
	StatusNoConvergence
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusClamped:
		return "clamped"
	case StatusNoConvergence:
		return "no-convergence"
	}
	return "unknown"
}

// Options controls the root search.
type Options struct {
	// Tolerance is the absolute tolerance on xi. Zero selects a default
	// scaled to the smallest |c0_i / nu_i| in the problem.
	Tolerance float64
	// MaxIterations caps the Newton/bisection loop. Zero selects 200.
	MaxIterations int
}

func (o Options) withDefaults(scale float64) Options {
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-12 * math.Max(1, scale)
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 200
	}
	return o
}

// Result is one recovered sample: the extent, the concentration vector it
// implies, and how the search ended.
type Result struct {
	Xi         float64
	Conc       []float64
	Status     Status
	Residual   float64
	Iterations int
}

// Problem fixes the stoichiometry and initial concentrations of a single
// reaction and precomputes the feasible extent interval. It is immutable
// and safe to share; continuity between samples is carried entirely by the
// prevXi argument to Recover.
type Problem struct {
	nu    []float64
	conc0 []float64
	lo    float64 // open interval ends; may be +-Inf
	hi    float64
	scale float64

	// quadratic fast path for A+B <=> C+D with unit coefficients
	quad           bool
	reactA, reactB int
	prodC, prodD   int
}

// NewProblem validates the reaction data and computes the feasible interval
// once. Species with nu_i > 0 bound xi from below at -c0_i/nu_i; species
// with nu_i < 0 bound it from above at c0_i/(-nu_i).
func NewProblem(nu, conc0 []float64) (*Problem, error) {
	if len(nu) != len(conc0) {
		return nil, fmt.Errorf("%w: %d coefficients, %d concentrations", chem.ErrDimensionMismatch, len(nu), len(conc0))
	}
	p := &Problem{
		nu:    append([]float64(nil), nu...),
		conc0: append([]float64(nil), conc0...),
		lo:    math.Inf(-1),
		hi:    math.Inf(1),
	}
	degenerate := true
	for i := range nu {
		if conc0[i] < 0 {
			return nil, fmt.Errorf("%w: species %d", chem.ErrNegativeConcentration, i)
		}
		switch {
		case nu[i] > 0:
			p.lo = math.Max(p.lo, -conc0[i]/nu[i])
			degenerate = false
		case nu[i] < 0:
			p.hi = math.Min(p.hi, conc0[i]/-nu[i])
			degenerate = false
		}
	}
	if degenerate {
		return nil, chem.ErrDegenerateStoichiometry
	}
	if p.lo >= p.hi {
		return nil, fmt.Errorf("%w: [%g, %g]", chem.ErrInfeasible, p.lo, p.hi)
	}
	p.scale = boundarySpacing(nu, conc0)
	p.detectBimolecular()
	return p, nil
}

// boundarySpacing is the smallest positive distance from xi=0 to any
// single-species boundary; it sets the default tolerance scale.
func boundarySpacing(nu, conc0 []float64) float64 {
	s := math.Inf(1)
	for i := range nu {
		if nu[i] == 0 || conc0[i] == 0 {
			continue
		}
		d := conc0[i] / math.Abs(nu[i])
		if d < s {
			s = d
		}
	}
	if math.IsInf(s, 1) {
		return 1
	}
	return s
}

func (p *Problem) detectBimolecular() {
	reacts, prods := make([]int, 0, 3), make([]int, 0, 3)
	for i, v := range p.nu {
		switch v {
		case -1:
			reacts = append(reacts, i)
		case 1:
			prods = append(prods, i)
		case 0:
		default:
			return
		}
	}
	if len(reacts) == 2 && len(prods) == 2 {
		p.quad = true
		p.reactA, p.reactB = reacts[0], reacts[1]
		p.prodC, p.prodD = prods[0], prods[1]
	}
}

// Interval returns the open feasible extent interval.
func (p *Problem) Interval() (lo, hi float64) { return p.lo, p.hi }

// Nu returns a copy of the net-change vector.
func (p *Problem) Nu() []float64 { return append([]float64(nil), p.nu...) }

// Potential evaluates S(xi) = sum_i nu_i * ln(c0_i + nu_i*xi). Outside the
// feasible interval the result is NaN. S is strictly increasing on the
// interval, which is what makes xi recoverable from ln Q by a monotone
// root search.
func (p *Problem) Potential(xi float64) float64 {
	sum := 0.0
	for i := range p.nu {
		if p.nu[i] == 0 {
			continue
		}
		c := p.conc0[i] + p.nu[i]*xi
		if c <= 0 {
			return math.NaN()
		}
		sum += p.nu[i] * math.Log(c)
	}
	return sum
}

// PotentialDeriv evaluates dS/dxi = sum_i nu_i^2 / (c0_i + nu_i*xi),
// positive everywhere on the feasible interval.
func (p *Problem) PotentialDeriv(xi float64) float64 {
	sum := 0.0
	for i := range p.nu {
		if p.nu[i] == 0 {
			continue
		}
		c := p.conc0[i] + p.nu[i]*xi
		if c <= 0 {
			return math.NaN()
		}
		sum += p.nu[i] * p.nu[i] / c
	}
	return sum
}

// Concentrations reconstructs c_i = c0_i + nu_i*xi, snapping tiny negative
// round-off to zero.
func (p *Problem) Concentrations(xi float64) []float64 {
	c := make([]float64, len(p.conc0))
	for i := range p.conc0 {
		c[i] = p.conc0[i] + p.nu[i]*xi
		if c[i] < 0 {
			c[i] = 0
		}
	}
	return c
}
