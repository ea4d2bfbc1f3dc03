package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/rqlab/internal/chem"
	"github.com/san-kum/rqlab/internal/extent"
)

// Ensemble reconstructs the same quotient trajectory for several conserved
// pool sizes. The quotient dynamics are identical across members; only the
// concentration split depends on the total, so members are independent and
// run concurrently.
type Ensemble struct {
	base chem.Scenario
	opts extent.Options
}

func NewEnsemble(base chem.Scenario, opts extent.Options) *Ensemble {
	return &Ensemble{base: base, opts: opts}
}

// Run scales the base scenario's initial concentrations to each requested
// total and sweeps the grid once per member.
func (e *Ensemble) Run(ctx context.Context, totals, times []float64) ([]*Result, error) {
	if len(totals) == 0 {
		return nil, fmt.Errorf("sim: ensemble needs at least one total")
	}
	sum := 0.0
	for _, c := range e.base.Conc0 {
		sum += c
	}
	if sum <= 0 {
		return nil, fmt.Errorf("%w: base scenario has zero total concentration", chem.ErrNonPositiveParam)
	}

	results := make([]*Result, len(totals))
	errs := make([]error, len(totals))

	var wg sync.WaitGroup
	for i, total := range totals {
		wg.Add(1)
		go func(idx int, total float64) {
			defer wg.Done()

			sc := e.base
			sc.Conc0 = make([]float64, len(e.base.Conc0))
			for j, c := range e.base.Conc0 {
				sc.Conc0[j] = c * total / sum
			}

			runner, q0, err := ForScenario(sc, e.opts)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = runner.Run(ctx, q0, times)
		}(i, total)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
