package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/rqlab/internal/chem"
	"github.com/san-kum/rqlab/internal/extent"
	"github.com/san-kum/rqlab/internal/propagate"
)

// Sample is one point of a reconstructed trajectory.
type Sample struct {
	T      float64
	Q      float64
	LnQ    float64
	Xi     float64
	Conc   []float64
	Status extent.Status
}

type Result struct {
	Samples      []Sample
	Clamped      int
	NonConverged int
	Metrics      map[string]float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Runner sweeps a time grid: the propagator gives ln Q at each point and
// the recovery problem turns it into an extent and concentration vector.
// The previous sample's extent seeds each recovery, so samples must be
// produced in increasing time order; that carried value is the only state
// threaded through the sweep.
type Runner struct {
	prop    propagate.Relaxation
	prob    *extent.Problem
	opts    extent.Options
	metrics []Metric
}

func New(prop propagate.Relaxation, prob *extent.Problem, opts extent.Options) *Runner {
	return &Runner{prop: prop, prob: prob, opts: opts}
}

// ForScenario builds a runner and its initial quotient from a validated
// scenario.
func ForScenario(sc chem.Scenario, opts extent.Options) (*Runner, float64, error) {
	if err := sc.Validate(); err != nil {
		return nil, 0, err
	}
	prob, err := extent.NewProblem(sc.Stoich.Nu(), sc.Conc0)
	if err != nil {
		return nil, 0, err
	}
	q0, err := sc.InitialQuotient()
	if err != nil {
		return nil, 0, err
	}
	prop := propagate.Relaxation{K: sc.RateK, Keq: sc.Keq, Drive: sc.Drive}
	return New(prop, prob, opts), q0, nil
}

func (r *Runner) AddMetric(m Metric) { r.metrics = append(r.metrics, m) }

// Run produces one sample per grid point. Clamped and non-converged
// samples are counted and flagged but never abort the sweep.
func (r *Runner) Run(ctx context.Context, q0 float64, times []float64) (*Result, error) {
	if err := r.prop.Validate(); err != nil {
		return nil, err
	}
	if q0 <= 0 || math.IsNaN(q0) || math.IsInf(q0, 0) {
		return nil, fmt.Errorf("%w: Q0=%g", chem.ErrNonPositiveParam, q0)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("sim: empty time grid")
	}
	if times[0] < 0 {
		return nil, fmt.Errorf("sim: time grid starts at %g, want >= 0", times[0])
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("sim: time grid must be strictly increasing at index %d", i)
		}
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Samples: make([]Sample, 0, len(times)),
		Metrics: make(map[string]float64),
	}

	prevXi := 0.0
	for _, t := range times {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		lnQ := r.prop.LogAt(q0, t)
		rec := r.prob.Recover(lnQ, prevXi, r.opts)

		s := Sample{
			T:      t,
			Q:      math.Exp(lnQ),
			LnQ:    lnQ,
			Xi:     rec.Xi,
			Conc:   rec.Conc,
			Status: rec.Status,
		}
		switch rec.Status {
		case extent.StatusClamped:
			result.Clamped++
		case extent.StatusNoConvergence:
			result.NonConverged++
		}

		for _, m := range r.metrics {
			m.Observe(s)
		}
		result.Samples = append(result.Samples, s)
		prevXi = rec.Xi
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// Grid builds n evenly spaced sample times from t0 to t1 inclusive.
func Grid(t0, t1 float64, n int) []float64 {
	if n < 2 {
		return []float64{t0}
	}
	times := make([]float64, n)
	dt := (t1 - t0) / float64(n-1)
	for i := range times {
		times[i] = t0 + float64(i)*dt
	}
	times[n-1] = t1
	return times
}
