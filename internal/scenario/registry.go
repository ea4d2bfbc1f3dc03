package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/rqlab/internal/chem"
)

// Scenario bundles a validated reaction setup with run defaults.
type Scenario struct {
	Name        string
	Description string
	chem.Scenario
	Duration float64
	Samples  int
	// CompareKf is the forward rate constant used when overlaying a
	// mass-action reference run (kr = kf/Keq).
	CompareKf float64
}

var builtins = map[string]func() Scenario{
	"simple_ab":    simpleAB,
	"conservation": conservation,
	"bimolecular":  bimolecular,
	"general":      general,
	"atp_drive":    atpDrive,
	"push_pull":    pushPull,
}

// Get returns a built-in worked example by name.
func Get(name string) (Scenario, error) {
	fn, ok := builtins[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario: %s (available: %v)", name, List())
	}
	return fn(), nil
}

// List returns the built-in scenario names, sorted.
func List() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// simpleAB is the minimal isomerization A <=> B started above equilibrium.
func simpleAB() Scenario {
	return Scenario{
		Name:        "simple_ab",
		Description: "A <=> B relaxation, Q = [B]/[A]",
		Scenario: chem.Scenario{
			Species: []string{"A", "B"},
			Stoich: chem.Stoichiometry{
				Alpha: []float64{1, 0},
				Beta:  []float64{0, 1},
			},
			// total pool 1 split so Q0 = 3
			Conc0: []float64{0.25, 0.75},
			RateK: 0.8,
			Keq:   0.6,
		},
		Duration:  10,
		Samples:   400,
		CompareKf: 1.0,
	}
}

// conservation is simple_ab with a three-times larger pool: Q(t) is
// identical, the concentration split is not.
func conservation() Scenario {
	s := simpleAB()
	s.Name = "conservation"
	s.Description = "A <=> B with C_tot = 3; same Q(t) as simple_ab, different concentrations"
	s.Conc0 = []float64{0.75, 2.25}
	return s
}

func bimolecular() Scenario {
	return Scenario{
		Name:        "bimolecular",
		Description: "A + B <=> C + D exchange, Q = [C][D]/([A][B])",
		Scenario: chem.Scenario{
			Species: []string{"A", "B", "C", "D"},
			Stoich: chem.Stoichiometry{
				Alpha: []float64{1, 1, 0, 0},
				Beta:  []float64{0, 0, 1, 1},
			},
			Conc0: []float64{5, 4, 1, 0.5},
			RateK: 1,
			Keq:   10,
		},
		Duration:  10,
		Samples:   400,
		CompareKf: 1.0,
	}
}

func general() Scenario {
	return Scenario{
		Name:        "general",
		Description: "2A + B <=> C + 2D with non-unit stoichiometry",
		Scenario: chem.Scenario{
			Species: []string{"A", "B", "C", "D"},
			Stoich: chem.Stoichiometry{
				Alpha: []float64{2, 1, 0, 0},
				Beta:  []float64{0, 0, 1, 2},
			},
			Conc0: []float64{3.5, 1.5, 0.6, 0.3},
			RateK: 1,
			Keq:   4,
		},
		Duration:  10,
		Samples:   400,
		CompareKf: 1.0,
	}
}

// atpDrive models hexokinase: glucose <=> G6P with the chemostatted
// ATP/ADP ratio as a log-ratio drive holding Q above Keq.
func atpDrive() Scenario {
	const (
		couplingStrength = 2.0
		atpAdpRatio      = 10.0
		totalPool        = 10.0
		q0               = 10.0
	)
	return Scenario{
		Name:        "atp_drive",
		Description: "glucose <=> G6P driven by the ATP/ADP ratio",
		Scenario: chem.Scenario{
			Species: []string{"Glc", "G6P"},
			Stoich: chem.Stoichiometry{
				Alpha: []float64{1, 0},
				Beta:  []float64{0, 1},
			},
			Conc0: []float64{totalPool / (1 + q0), totalPool * q0 / (1 + q0)},
			RateK: 1,
			Keq:   0.5,
			Drive: couplingStrength * math.Log(atpAdpRatio),
		},
		Duration:  5,
		Samples:   200,
		CompareKf: 1.0,
	}
}

// pushPull is the chemostatted futile cycle S <=> S~P: the drive folds the
// ATP/ADP ratio and the standard-state bias into one log term.
func pushPull() Scenario {
	const (
		atpAdpRatio = 100.0
		baseRatio   = 0.1 // phosphorylated fraction at ATP/ADP = 1
	)
	return Scenario{
		Name:        "push_pull",
		Description: "push-pull cycle S <=> S~P driven by ATP/ADP",
		Scenario: chem.Scenario{
			Species: []string{"S", "SP"},
			Stoich: chem.Stoichiometry{
				Alpha: []float64{1, 0},
				Beta:  []float64{0, 1},
			},
			Conc0: []float64{1 / (1 + baseRatio), baseRatio / (1 + baseRatio)},
			RateK: 1,
			Keq:   1,
			Drive: math.Log(atpAdpRatio * baseRatio),
		},
		Duration:  10,
		Samples:   400,
		CompareKf: 1.0,
	}
}
