package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/rqlab/internal/chem"
	"github.com/san-kum/rqlab/internal/extent"
)

func abScenario(conc0 []float64) chem.Scenario {
	return chem.Scenario{
		Species: []string{"A", "B"},
		Stoich: chem.Stoichiometry{
			Alpha: []float64{1, 0},
			Beta:  []float64{0, 1},
		},
		Conc0: conc0,
		RateK: 0.8,
		Keq:   0.6,
	}
}

func TestRunSimpleAB(t *testing.T) {
	runner, q0, err := ForScenario(abScenario([]float64{0.25, 0.75}), extent.Options{})
	if err != nil {
		t.Fatalf("ForScenario: %v", err)
	}
	if math.Abs(q0-3) > 1e-12 {
		t.Fatalf("Q0 = %g, want 3", q0)
	}

	times := Grid(0, 10, 100)
	result, err := runner.Run(context.Background(), q0, times)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Samples) != len(times) {
		t.Fatalf("got %d samples for %d grid points", len(result.Samples), len(times))
	}

	first := result.Samples[0]
	if math.Abs(first.Q-3) > 1e-9 {
		t.Errorf("Q at t=0 is %g, want 3", first.Q)
	}
	if math.Abs(first.Xi) > 1e-9 {
		t.Errorf("xi at t=0 is %g, want 0", first.Xi)
	}

	prev := math.Inf(1)
	for _, s := range result.Samples {
		if s.Status != extent.StatusConverged {
			t.Fatalf("t=%g: status %v", s.T, s.Status)
		}
		// pool conservation
		if total := s.Conc[0] + s.Conc[1]; math.Abs(total-1) > 1e-9 {
			t.Errorf("t=%g: pool drifted to %g", s.T, total)
		}
		// recovered concentrations reproduce the target quotient
		if q := s.Conc[1] / s.Conc[0]; math.Abs(q-s.Q) > 1e-6*s.Q {
			t.Errorf("t=%g: recovered Q = %g, propagated Q = %g", s.T, q, s.Q)
		}
		if s.Q > prev {
			t.Errorf("t=%g: Q = %g not monotone toward Keq", s.T, s.Q)
		}
		prev = s.Q
	}

	last := result.Samples[len(result.Samples)-1]
	if math.Abs(last.Q-0.6) > 1e-3 {
		t.Errorf("final Q = %g, want near Keq 0.6", last.Q)
	}
	if result.Clamped != 0 || result.NonConverged != 0 {
		t.Errorf("clamped=%d non-converged=%d, want 0/0", result.Clamped, result.NonConverged)
	}
}

// Scaling the pool must leave Q(t) untouched while scaling the recovered
// concentrations.
func TestConservationDecoupling(t *testing.T) {
	times := Grid(0, 10, 50)

	small, q0s, err := ForScenario(abScenario([]float64{0.25, 0.75}), extent.Options{})
	if err != nil {
		t.Fatalf("ForScenario: %v", err)
	}
	big, q0b, err := ForScenario(abScenario([]float64{0.75, 2.25}), extent.Options{})
	if err != nil {
		t.Fatalf("ForScenario: %v", err)
	}
	if math.Abs(q0s-q0b) > 1e-12 {
		t.Fatalf("initial quotients differ: %g vs %g", q0s, q0b)
	}

	rs, err := small.Run(context.Background(), q0s, times)
	if err != nil {
		t.Fatalf("Run small: %v", err)
	}
	rb, err := big.Run(context.Background(), q0b, times)
	if err != nil {
		t.Fatalf("Run big: %v", err)
	}

	for i := range rs.Samples {
		if d := math.Abs(rs.Samples[i].Q - rb.Samples[i].Q); d > 1e-9 {
			t.Errorf("t=%g: Q differs across pools by %g", times[i], d)
		}
		for j := range rs.Samples[i].Conc {
			want := 3 * rs.Samples[i].Conc[j]
			if math.Abs(rb.Samples[i].Conc[j]-want) > 1e-6 {
				t.Errorf("t=%g: c[%d] = %g, want %g", times[i], j, rb.Samples[i].Conc[j], want)
			}
		}
	}
}

// A drive strong enough to push the target quotient past the feasible
// boundary produces clamped samples, not an aborted run.
func TestClampedSamplesDoNotAbort(t *testing.T) {
	sc := abScenario([]float64{0.25, 0.75})
	sc.Drive = 100

	runner, q0, err := ForScenario(sc, extent.Options{})
	if err != nil {
		t.Fatalf("ForScenario: %v", err)
	}
	times := Grid(0, 10, 50)
	result, err := runner.Run(context.Background(), q0, times)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Samples) != len(times) {
		t.Fatalf("sweep stopped early: %d of %d samples", len(result.Samples), len(times))
	}
	if result.Clamped == 0 {
		t.Error("expected clamped samples under an extreme drive")
	}
	last := result.Samples[len(result.Samples)-1]
	if last.Status != extent.StatusClamped {
		t.Errorf("final status %v, want clamped", last.Status)
	}
	if last.Conc[0] != 0 {
		t.Errorf("exhausted reactant should be exactly 0, got %g", last.Conc[0])
	}
}

func TestRunValidation(t *testing.T) {
	runner, q0, err := ForScenario(abScenario([]float64{0.25, 0.75}), extent.Options{})
	if err != nil {
		t.Fatalf("ForScenario: %v", err)
	}
	ctx := context.Background()

	if _, err := runner.Run(ctx, -1, []float64{0, 1}); err == nil {
		t.Error("negative Q0 accepted")
	}
	if _, err := runner.Run(ctx, q0, nil); err == nil {
		t.Error("empty grid accepted")
	}
	if _, err := runner.Run(ctx, q0, []float64{-1, 0}); err == nil {
		t.Error("negative start time accepted")
	}
	if _, err := runner.Run(ctx, q0, []float64{0, 2, 1}); err == nil {
		t.Error("non-increasing grid accepted")
	}
}

func TestRunContextCancel(t *testing.T) {
	runner, q0, err := ForScenario(abScenario([]float64{0.25, 0.75}), extent.Options{})
	if err != nil {
		t.Fatalf("ForScenario: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runner.Run(ctx, q0, Grid(0, 10, 100))
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(result.Samples) != 0 {
		t.Errorf("expected no samples after immediate cancel, got %d", len(result.Samples))
	}
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string     { return "observed_samples" }
func (c *countingMetric) Observe(s Sample) { c.n++ }
func (c *countingMetric) Value() float64   { return float64(c.n) }
func (c *countingMetric) Reset()           { c.n = 0 }

func TestRunMetrics(t *testing.T) {
	runner, q0, err := ForScenario(abScenario([]float64{0.25, 0.75}), extent.Options{})
	if err != nil {
		t.Fatalf("ForScenario: %v", err)
	}
	runner.AddMetric(&countingMetric{})

	times := Grid(0, 5, 40)
	result, err := runner.Run(context.Background(), q0, times)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := result.Metrics["observed_samples"]; got != float64(len(times)) {
		t.Errorf("metric saw %g samples, want %d", got, len(times))
	}

	// metrics reset between runs
	result, err = runner.Run(context.Background(), q0, times)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if got := result.Metrics["observed_samples"]; got != float64(len(times)) {
		t.Errorf("metric not reset: %g", got)
	}
}

func TestGrid(t *testing.T) {
	g := Grid(0, 10, 11)
	if len(g) != 11 {
		t.Fatalf("len = %d, want 11", len(g))
	}
	if g[0] != 0 || g[10] != 10 {
		t.Errorf("endpoints %g, %g; want 0, 10", g[0], g[10])
	}
	for i := 1; i < len(g); i++ {
		if g[i] <= g[i-1] {
			t.Fatalf("grid not increasing at %d", i)
		}
	}
}

func TestEnsembleSharedQuotient(t *testing.T) {
	ens := NewEnsemble(abScenario([]float64{0.25, 0.75}), extent.Options{})
	times := Grid(0, 8, 40)
	totals := []float64{1, 3, 10}

	results, err := ens.Run(context.Background(), totals, times)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(totals) {
		t.Fatalf("got %d results for %d totals", len(results), len(totals))
	}

	base := results[0]
	for m := 1; m < len(results); m++ {
		ratio := totals[m] / totals[0]
		for i := range base.Samples {
			if d := math.Abs(results[m].Samples[i].Q - base.Samples[i].Q); d > 1e-9 {
				t.Errorf("member %d t=%g: Q differs by %g", m, times[i], d)
			}
			for j := range base.Samples[i].Conc {
				want := ratio * base.Samples[i].Conc[j]
				if math.Abs(results[m].Samples[i].Conc[j]-want) > 1e-6*ratio {
					t.Errorf("member %d t=%g: c[%d] = %g, want %g",
						m, times[i], j, results[m].Samples[i].Conc[j], want)
				}
			}
		}
	}
}

func TestEnsembleEmptyTotals(t *testing.T) {
	ens := NewEnsemble(abScenario([]float64{0.25, 0.75}), extent.Options{})
	if _, err := ens.Run(context.Background(), nil, Grid(0, 1, 5)); err == nil {
		t.Error("empty totals accepted")
	}
}
