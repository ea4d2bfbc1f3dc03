package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/rqlab/internal/extent"
	"github.com/san-kum/rqlab/internal/sim"
)

func testSamples() []sim.Sample {
	return []sim.Sample{
		{T: 0, Q: 3, Xi: 0, Conc: []float64{0.25, 0.75}, Status: extent.StatusConverged},
		{T: 1, Q: 1.5, Xi: 0.15, Conc: []float64{0.4, 0.6}, Status: extent.StatusConverged},
		{T: 2, Q: 0.8, Xi: 0.25, Conc: []float64{0.5, 0.5}, Status: extent.StatusClamped},
	}
}

func TestViewShowsSpeciesAndStatus(t *testing.T) {
	m := NewModel("simple_ab", "A <=> B", []string{"A", "B"}, 0.6, testSamples())

	view := m.View()
	if !strings.Contains(view, "simple_ab") || !strings.Contains(view, "A <=> B") {
		t.Error("title or reaction missing from view")
	}
	if !strings.Contains(view, "A") || !strings.Contains(view, "B") {
		t.Error("species rows missing")
	}

	// scrub to the clamped sample
	m.idx = 2
	if !strings.Contains(m.View(), "clamped") {
		t.Error("clamp indicator missing")
	}
}

func TestViewEmpty(t *testing.T) {
	m := NewModel("x", "", nil, 1, nil)
	if !strings.Contains(m.View(), "no samples") {
		t.Error("empty model should say so")
	}
}

func TestUpdateKeys(t *testing.T) {
	m := NewModel("x", "", []string{"A", "B"}, 1, testSamples())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(Model)
	if !m.paused {
		t.Error("space should pause")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = next.(Model)
	if m.idx != 1 {
		t.Errorf("idx = %d after scrub right, want 1", m.idx)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if m.idx != 0 {
		t.Errorf("idx = %d after restart, want 0", m.idx)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestTickAdvances(t *testing.T) {
	m := NewModel("x", "", nil, 1, testSamples())
	next, cmd := m.Update(tickMsg{})
	m = next.(Model)
	if m.idx != 1 {
		t.Errorf("idx = %d after tick, want 1", m.idx)
	}
	if cmd == nil {
		t.Error("tick should reschedule itself")
	}

	// stops at the last sample
	m.idx = 2
	next, _ = m.Update(tickMsg{})
	m = next.(Model)
	if m.idx != 2 {
		t.Errorf("idx = %d, want to stay at the last sample", m.idx)
	}
}
