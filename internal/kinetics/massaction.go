package kinetics

import (
	"fmt"
	"math"

	"github.com/san-kum/rqlab/internal/chem"
)

// MassAction integrates classical kinetics for one reversible reaction,
// used as the side-by-side reference for log-linear trajectories:
//
//	v_f = kf * prod_i c_i^alpha_i
//	v_r = kr * prod_i c_i^beta_i
//	dc_i/dt = nu_i * (v_f - v_r)
//
// with kr chosen so that kf/kr equals the equilibrium constant.
type MassAction struct {
	Alpha []float64
	Beta  []float64
	Kf    float64
	Kr    float64

	nu []float64
}

func NewMassAction(stoich chem.Stoichiometry, kf, keq float64) (*MassAction, error) {
	if err := stoich.Validate(); err != nil {
		return nil, err
	}
	if kf <= 0 {
		return nil, fmt.Errorf("%w: kf=%g", chem.ErrNonPositiveParam, kf)
	}
	if keq <= 0 {
		return nil, fmt.Errorf("%w: Keq=%g", chem.ErrNonPositiveParam, keq)
	}
	return &MassAction{
		Alpha: append([]float64(nil), stoich.Alpha...),
		Beta:  append([]float64(nil), stoich.Beta...),
		Kf:    kf,
		Kr:    kf / keq,
		nu:    stoich.Nu(),
	}, nil
}

func (m *MassAction) Dim() int { return len(m.Alpha) }

func (m *MassAction) Derive(c State, t float64) State {
	vf := m.Kf
	vr := m.Kr
	for i := range m.Alpha {
		// negative round-off would poison fractional powers
		ci := math.Max(c[i], 0)
		if m.Alpha[i] != 0 {
			vf *= math.Pow(ci, m.Alpha[i])
		}
		if m.Beta[i] != 0 {
			vr *= math.Pow(ci, m.Beta[i])
		}
	}
	dc := make(State, len(c))
	for i := range dc {
		dc[i] = m.nu[i] * (vf - vr)
	}
	return dc
}
