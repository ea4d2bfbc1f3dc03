package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rqlab/internal/extent"
	"github.com/san-kum/rqlab/internal/sim"
)

func sample(t, q float64, status extent.Status, conc ...float64) sim.Sample {
	return sim.Sample{T: t, Q: q, LnQ: math.Log(q), Status: status, Conc: conc}
}

func TestEquilibriumResidual(t *testing.T) {
	m := NewEquilibriumResidual(2)
	m.Observe(sample(0, 8, extent.StatusConverged))
	m.Observe(sample(1, 2.2, extent.StatusConverged))

	want := math.Abs(math.Log(2.2) - math.Log(2))
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("residual = %g, want %g", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear the residual")
	}
}

func TestClampCount(t *testing.T) {
	m := NewClampCount()
	m.Observe(sample(0, 1, extent.StatusConverged))
	m.Observe(sample(1, 1, extent.StatusClamped))
	m.Observe(sample(2, 1, extent.StatusClamped))
	m.Observe(sample(3, 1, extent.StatusNoConvergence))

	if m.Value() != 2 {
		t.Errorf("count = %g, want 2", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear the count")
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(1, 0.05)

	// enters the band, leaves it, then settles for good
	m.Observe(sample(0, 1.01, extent.StatusConverged))
	m.Observe(sample(1, 1.5, extent.StatusConverged))
	m.Observe(sample(2, 1.02, extent.StatusConverged))
	m.Observe(sample(3, 1.01, extent.StatusConverged))

	if m.Value() != 2 {
		t.Errorf("settling time = %g, want 2", m.Value())
	}
}

func TestSettlingTimeNeverSettles(t *testing.T) {
	m := NewSettlingTime(1, 0.01)
	m.Observe(sample(0, 3, extent.StatusConverged))
	m.Observe(sample(1, 2, extent.StatusConverged))
	if m.Value() != -1 {
		t.Errorf("settling time = %g, want -1", m.Value())
	}
}

func TestMassBalance(t *testing.T) {
	m := NewMassBalance([]float64{1, 1})

	m.Observe(sample(0, 1, extent.StatusConverged, 0.25, 0.75))
	m.Observe(sample(1, 1, extent.StatusConverged, 0.4, 0.6))
	m.Observe(sample(2, 1, extent.StatusConverged, 0.5, 0.52))

	if math.Abs(m.Value()-0.02) > 1e-12 {
		t.Errorf("worst drift = %g, want 0.02", m.Value())
	}

	m.Reset()
	m.Observe(sample(0, 1, extent.StatusConverged, 1, 1))
	if m.Value() != 0 {
		t.Errorf("drift after reset = %g, want 0", m.Value())
	}
}
