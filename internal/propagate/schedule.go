package propagate

import (
	"math"

	"github.com/san-kum/rqlab/internal/kinetics"
)

// GasConstant in J/(mol*K).
const GasConstant = 8.314

// Schedule is a time-indexed parameter, e.g. a temperature profile or a
// chemostat log-ratio.
type Schedule func(t float64) float64

func Constant(v float64) Schedule {
	return func(float64) float64 { return v }
}

// StepAt switches from before to after at time t0.
func StepAt(t0, before, after float64) Schedule {
	return func(t float64) float64 {
		if t < t0 {
			return before
		}
		return after
	}
}

// VanTHoff builds an ln-Keq schedule from reaction enthalpy dH (J/mol),
// entropy dS (J/mol/K) and a temperature profile in kelvin:
//
//	ln Keq(T) = -dH/(R T) + dS/R
func VanTHoff(dH, dS float64, temp Schedule) Schedule {
	return func(t float64) float64 {
		T := temp(t)
		return -dH/(GasConstant*T) + dS/GasConstant
	}
}

// VariableRelaxation is the escape hatch for time-varying Keq or drive,
// where no closed form exists. It exposes the instantaneous law
//
//	d/dt ln Q = -K*(ln Q - ln Keq(t)) + Drive(t)
//
// as a one-dimensional kinetics.System (state = [ln Q]) for numerical
// integration by the integrators package.
type VariableRelaxation struct {
	K     float64
	LnKeq Schedule
	Drive Schedule
}

func (v *VariableRelaxation) Dim() int { return 1 }

func (v *VariableRelaxation) Derive(x kinetics.State, t float64) kinetics.State {
	u := 0.0
	if v.Drive != nil {
		u = v.Drive(t)
	}
	return kinetics.State{-v.K*(x[0]-v.LnKeq(t)) + u}
}

// Quotients maps integrated ln Q states back to Q values.
func Quotients(states []kinetics.State) []float64 {
	q := make([]float64, len(states))
	for i, s := range states {
		q[i] = math.Exp(s[0])
	}
	return q
}
