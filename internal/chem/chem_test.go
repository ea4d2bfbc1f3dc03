package chem

import (
	"errors"
	"math"
	"testing"
)

func TestStoichiometryNu(t *testing.T) {
	s := Stoichiometry{
		Alpha: []float64{2, 1, 0, 0},
		Beta:  []float64{0, 0, 1, 2},
	}
	nu := s.Nu()
	want := []float64{-2, -1, 1, 2}
	for i := range want {
		if nu[i] != want[i] {
			t.Errorf("nu[%d] = %g, want %g", i, nu[i], want[i])
		}
	}
}

func TestStoichiometryValidate(t *testing.T) {
	degenerate := Stoichiometry{Alpha: []float64{1, 1}, Beta: []float64{1, 1}}
	if err := degenerate.Validate(); !errors.Is(err, ErrDegenerateStoichiometry) {
		t.Errorf("expected ErrDegenerateStoichiometry, got %v", err)
	}

	negative := Stoichiometry{Alpha: []float64{-1, 0}, Beta: []float64{0, 1}}
	if err := negative.Validate(); !errors.Is(err, ErrNegativeCoefficient) {
		t.Errorf("expected ErrNegativeCoefficient, got %v", err)
	}

	mismatch := Stoichiometry{Alpha: []float64{1}, Beta: []float64{0, 1}}
	if err := mismatch.Validate(); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func validScenario() Scenario {
	return Scenario{
		Species: []string{"A", "B"},
		Stoich: Stoichiometry{
			Alpha: []float64{1, 0},
			Beta:  []float64{0, 1},
		},
		Conc0: []float64{0.25, 0.75},
		RateK: 0.8,
		Keq:   0.6,
	}
}

func TestScenarioValidate(t *testing.T) {
	if err := validScenario().Validate(); err != nil {
		t.Fatalf("valid scenario rejected: %v", err)
	}

	sc := validScenario()
	sc.Conc0 = []float64{-0.1, 0.75}
	if err := sc.Validate(); !errors.Is(err, ErrNegativeConcentration) {
		t.Errorf("expected ErrNegativeConcentration, got %v", err)
	}

	sc = validScenario()
	sc.Conc0 = []float64{0, 0.75}
	if err := sc.Validate(); !errors.Is(err, ErrZeroParticipant) {
		t.Errorf("expected ErrZeroParticipant, got %v", err)
	}

	sc = validScenario()
	sc.RateK = 0
	if err := sc.Validate(); !errors.Is(err, ErrNonPositiveParam) {
		t.Errorf("expected ErrNonPositiveParam for zero rate, got %v", err)
	}

	sc = validScenario()
	sc.Keq = -1
	if err := sc.Validate(); !errors.Is(err, ErrNonPositiveParam) {
		t.Errorf("expected ErrNonPositiveParam for negative Keq, got %v", err)
	}

	sc = validScenario()
	sc.Species = []string{"A"}
	if err := sc.Validate(); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for species names, got %v", err)
	}
}

func TestInitialQuotient(t *testing.T) {
	q, err := validScenario().InitialQuotient()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(q-3.0) > 1e-12 {
		t.Errorf("Q0 = %g, want 3", q)
	}
}

func TestReaction(t *testing.T) {
	sc := Scenario{
		Species: []string{"A", "B", "C", "D"},
		Stoich: Stoichiometry{
			Alpha: []float64{2, 1, 0, 0},
			Beta:  []float64{0, 0, 1, 2},
		},
	}
	if got := sc.Reaction(); got != "2A + B <=> C + 2D" {
		t.Errorf("reaction = %q", got)
	}
}

func TestLogQuotient(t *testing.T) {
	nu := []float64{-1, 1}
	lnQ, err := LogQuotient([]float64{0.5, 2.0}, nu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(lnQ-math.Log(4)) > 1e-12 {
		t.Errorf("lnQ = %g, want ln 4", lnQ)
	}

	// spectator with zero concentration is fine
	nu3 := []float64{-1, 1, 0}
	if _, err := LogQuotient([]float64{0.5, 2.0, 0}, nu3); err != nil {
		t.Errorf("spectator should not matter: %v", err)
	}

	if _, err := LogQuotient([]float64{0, 2.0}, nu); !errors.Is(err, ErrZeroParticipant) {
		t.Errorf("expected ErrZeroParticipant, got %v", err)
	}

	if _, err := LogQuotient([]float64{0.5}, nu); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
