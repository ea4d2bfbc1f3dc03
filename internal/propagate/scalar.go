package propagate

import (
	"fmt"
	"math"

	"github.com/san-kum/rqlab/internal/chem"
)

// Relaxation is the closed-form log-linear law for a single reaction
// quotient:
//
//	d/dt ln Q = -K * ln(Q/Keq) + Drive
//
// Drive is a dimensionless log-ratio bias (e.g. ln of a chemostatted
// ATP/ADP ratio); zero recovers plain relaxation toward Keq.
type Relaxation struct {
	K     float64
	Keq   float64
	Drive float64
}

func (r Relaxation) Validate() error {
	if r.K <= 0 {
		return fmt.Errorf("%w: rate k=%g", chem.ErrNonPositiveParam, r.K)
	}
	if r.Keq <= 0 {
		return fmt.Errorf("%w: Keq=%g", chem.ErrNonPositiveParam, r.Keq)
	}
	return nil
}

// At evaluates Q(t) from the initial quotient q0. The t=0 value is q0
// exactly, and Q stays positive for all finite t.
func (r Relaxation) At(q0, t float64) float64 {
	if t == 0 {
		return q0
	}
	return r.Keq * math.Exp(r.LogDeviationAt(q0, t))
}

// LogAt evaluates ln Q(t).
func (r Relaxation) LogAt(q0, t float64) float64 {
	return math.Log(r.Keq) + r.LogDeviationAt(q0, t)
}

// LogDeviationAt evaluates x(t) = ln(Q(t)/Keq):
//
//	x(t) = x0*exp(-K t) + (Drive/K)*(1 - exp(-K t))
func (r Relaxation) LogDeviationAt(q0, t float64) float64 {
	x0 := math.Log(q0 / r.Keq)
	decay := math.Exp(-r.K * t)
	if r.Drive == 0 {
		return x0 * decay
	}
	xss := r.Drive / r.K
	return x0*decay + xss*(1-decay)
}

// SteadyState returns the t -> infinity quotient, Keq*exp(Drive/K).
func (r Relaxation) SteadyState() float64 {
	if r.Drive == 0 {
		return r.Keq
	}
	return r.Keq * math.Exp(r.Drive/r.K)
}

// HalfTime returns the relaxation half-time ln(2)/K of the log deviation.
func (r Relaxation) HalfTime() float64 {
	return math.Ln2 / r.K
}
