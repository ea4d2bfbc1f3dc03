package chem

import (
	"fmt"
	"math"
	"strings"
)

// Stoichiometry holds reactant (alpha) and product (beta) coefficients for a
// single reversible reaction over an ordered species list.
type Stoichiometry struct {
	Alpha []float64
	Beta  []float64
}

// Nu returns the net-change vector beta - alpha.
func (s Stoichiometry) Nu() []float64 {
	nu := make([]float64, len(s.Alpha))
	for i := range s.Alpha {
		nu[i] = s.Beta[i] - s.Alpha[i]
	}
	return nu
}

func (s Stoichiometry) Validate() error {
	if len(s.Alpha) != len(s.Beta) {
		return fmt.Errorf("%w: alpha has %d entries, beta has %d", ErrDimensionMismatch, len(s.Alpha), len(s.Beta))
	}
	degenerate := true
	for i := range s.Alpha {
		if s.Alpha[i] < 0 || s.Beta[i] < 0 {
			return fmt.Errorf("%w: species %d", ErrNegativeCoefficient, i)
		}
		if s.Beta[i] != s.Alpha[i] {
			degenerate = false
		}
	}
	if degenerate {
		return ErrDegenerateStoichiometry
	}
	return nil
}

// Scenario is the immutable parameter block for one single-reaction run:
// species, stoichiometry, initial concentrations and the log-linear
// relaxation parameters. Construct once, validate, then pass by value.
type Scenario struct {
	Species []string
	Stoich  Stoichiometry
	Conc0   []float64
	RateK   float64
	Keq     float64
	Drive   float64
}

func (sc Scenario) Validate() error {
	if err := sc.Stoich.Validate(); err != nil {
		return err
	}
	n := len(sc.Stoich.Alpha)
	if len(sc.Conc0) != n {
		return fmt.Errorf("%w: %d species coefficients, %d concentrations", ErrDimensionMismatch, n, len(sc.Conc0))
	}
	if len(sc.Species) != 0 && len(sc.Species) != n {
		return fmt.Errorf("%w: %d species names, %d coefficients", ErrDimensionMismatch, len(sc.Species), n)
	}
	nu := sc.Stoich.Nu()
	for i, c := range sc.Conc0 {
		if c < 0 {
			return fmt.Errorf("%w: species %d", ErrNegativeConcentration, i)
		}
		if nu[i] != 0 && c == 0 {
			return fmt.Errorf("%w: species %d", ErrZeroParticipant, i)
		}
	}
	if sc.RateK <= 0 {
		return fmt.Errorf("%w: rate k=%g", ErrNonPositiveParam, sc.RateK)
	}
	if sc.Keq <= 0 {
		return fmt.Errorf("%w: Keq=%g", ErrNonPositiveParam, sc.Keq)
	}
	return nil
}

// InitialQuotient computes Q at the initial concentrations.
func (sc Scenario) InitialQuotient() (float64, error) {
	return Quotient(sc.Conc0, sc.Stoich.Nu())
}

// Reaction renders the scheme, e.g. "2A + B <=> C + 2D".
func (sc Scenario) Reaction() string {
	side := func(coef []float64) string {
		terms := make([]string, 0, len(coef))
		for i, c := range coef {
			if c == 0 {
				continue
			}
			name := fmt.Sprintf("X%d", i)
			if i < len(sc.Species) {
				name = sc.Species[i]
			}
			if c == 1 {
				terms = append(terms, name)
			} else {
				terms = append(terms, fmt.Sprintf("%g%s", c, name))
			}
		}
		return strings.Join(terms, " + ")
	}
	return side(sc.Stoich.Alpha) + " <=> " + side(sc.Stoich.Beta)
}

// LogQuotient computes ln Q = sum_i nu_i * ln(c_i). Every species with a
// nonzero coefficient must have a strictly positive concentration.
func LogQuotient(c, nu []float64) (float64, error) {
	if len(c) != len(nu) {
		return 0, fmt.Errorf("%w: %d concentrations, %d coefficients", ErrDimensionMismatch, len(c), len(nu))
	}
	sum := 0.0
	for i := range c {
		if nu[i] == 0 {
			continue
		}
		if c[i] <= 0 {
			return 0, fmt.Errorf("%w: species %d has concentration %g", ErrZeroParticipant, i, c[i])
		}
		sum += nu[i] * math.Log(c[i])
	}
	return sum, nil
}

// Quotient computes Q = prod_i c_i^{nu_i}.
func Quotient(c, nu []float64) (float64, error) {
	lnQ, err := LogQuotient(c, nu)
	if err != nil {
		return 0, err
	}
	return math.Exp(lnQ), nil
}
