package propagate

import (
	"math"
	"testing"

	"github.com/san-kum/rqlab/internal/integrators"
	"github.com/san-kum/rqlab/internal/kinetics"
)

func TestSchedules(t *testing.T) {
	c := Constant(2.5)
	if c(0) != 2.5 || c(100) != 2.5 {
		t.Error("Constant should ignore time")
	}

	s := StepAt(3, 1, 9)
	if s(2.999) != 1 {
		t.Error("StepAt before the switch")
	}
	if s(3) != 9 || s(10) != 9 {
		t.Error("StepAt at/after the switch")
	}
}

func TestVanTHoff(t *testing.T) {
	const (
		dH = -50_000.0
		dS = -100.0
	)
	lnKeq := VanTHoff(dH, dS, Constant(298))
	want := -dH/(GasConstant*298) + dS/GasConstant
	if math.Abs(lnKeq(0)-want) > 1e-12 {
		t.Errorf("lnKeq = %g, want %g", lnKeq(0), want)
	}

	// exothermic reaction: heating lowers Keq
	hot := VanTHoff(dH, dS, Constant(330))
	if hot(0) >= lnKeq(0) {
		t.Errorf("exothermic lnKeq should drop on heating: %g >= %g", hot(0), lnKeq(0))
	}
}

// With constant schedules the numerically integrated law must match the
// closed form.
func TestVariableRelaxationMatchesClosedForm(t *testing.T) {
	r := Relaxation{K: 1.2, Keq: 2, Drive: 0.7}
	v := &VariableRelaxation{
		K:     r.K,
		LnKeq: Constant(math.Log(r.Keq)),
		Drive: Constant(r.Drive),
	}
	if v.Dim() != 1 {
		t.Fatalf("Dim = %d, want 1", v.Dim())
	}

	q0 := 5.0
	times := []float64{0, 0.5, 1, 2, 4}
	states, err := integrators.Solve(v, integrators.NewRK4(),
		kinetics.State{math.Log(q0)}, times, 0.001)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	q := Quotients(states)
	for i, tt := range times {
		want := r.At(q0, tt)
		if math.Abs(q[i]-want) > 1e-6*want {
			t.Errorf("t=%g: Q = %.10g, closed form %.10g", tt, q[i], want)
		}
	}
}

func TestVariableRelaxationNilDrive(t *testing.T) {
	v := &VariableRelaxation{K: 1, LnKeq: Constant(0)}
	dx := v.Derive(kinetics.State{2}, 0)
	if math.Abs(dx[0]-(-2)) > 1e-12 {
		t.Errorf("derivative = %g, want -2", dx[0])
	}
}
