package metrics

import (
	"math"

	"github.com/san-kum/rqlab/internal/extent"
	"github.com/san-kum/rqlab/internal/sim"
)

// EquilibriumResidual tracks |ln(Q/Q_ss)| of the most recent sample, i.e.
// how far the trajectory still is from its steady state at the end of a
// run.
type EquilibriumResidual struct {
	name  string
	lnQss float64
	last  float64
}

func NewEquilibriumResidual(qss float64) *EquilibriumResidual {
	return &EquilibriumResidual{name: "equilibrium_residual", lnQss: math.Log(qss)}
}

func (e *EquilibriumResidual) Name() string { return e.name }

func (e *EquilibriumResidual) Observe(s sim.Sample) {
	e.last = math.Abs(s.LnQ - e.lnQss)
}

func (e *EquilibriumResidual) Value() float64 { return e.last }
func (e *EquilibriumResidual) Reset()         { e.last = 0 }

// ClampCount counts samples pinned at a feasibility boundary.
type ClampCount struct {
	count int
}

func NewClampCount() *ClampCount { return &ClampCount{} }

func (c *ClampCount) Name() string { return "clamped_samples" }

func (c *ClampCount) Observe(s sim.Sample) {
	if s.Status == extent.StatusClamped {
		c.count++
	}
}

func (c *ClampCount) Value() float64 { return float64(c.count) }
func (c *ClampCount) Reset()         { c.count = 0 }

// SettlingTime records when the quotient last entered the band
// |ln(Q/Q_ss)| < tol and stayed there. Value is -1 if it never settled.
type SettlingTime struct {
	lnQss   float64
	tol     float64
	settled float64
}

func NewSettlingTime(qss, tol float64) *SettlingTime {
	return &SettlingTime{lnQss: math.Log(qss), tol: tol, settled: -1}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(sample sim.Sample) {
	if math.Abs(sample.LnQ-s.lnQss) < s.tol {
		if s.settled < 0 {
			s.settled = sample.T
		}
	} else {
		s.settled = -1
	}
}

func (s *SettlingTime) Value() float64 { return s.settled }
func (s *SettlingTime) Reset()         { s.settled = -1 }

// MassBalance tracks the worst drift of a conserved linear combination
// w . c away from its initial value. For A <=> B with w = (1, 1) this is
// the total-pool conservation check.
type MassBalance struct {
	weights []float64
	initial float64
	started bool
	worst   float64
}

func NewMassBalance(weights []float64) *MassBalance {
	return &MassBalance{weights: weights}
}

func (m *MassBalance) Name() string { return "mass_balance_drift" }

func (m *MassBalance) Observe(s sim.Sample) {
	total := 0.0
	for i, w := range m.weights {
		if i < len(s.Conc) {
			total += w * s.Conc[i]
		}
	}
	if !m.started {
		m.initial = total
		m.started = true
		return
	}
	drift := math.Abs(total - m.initial)
	if drift > m.worst {
		m.worst = drift
	}
}

func (m *MassBalance) Value() float64 { return m.worst }

func (m *MassBalance) Reset() {
	m.initial = 0
	m.started = false
	m.worst = 0
}
