package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rqlab/internal/extent"
	"github.com/san-kum/rqlab/internal/sim"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const barWidth = 40

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model replays a precomputed trajectory as an animated bar view of the
// species concentrations.
type Model struct {
	title    string
	reaction string
	species  []string
	keq      float64
	samples  []sim.Sample

	idx    int
	paused bool
	maxC   float64
	width  int
}

func NewModel(title, reaction string, species []string, keq float64, samples []sim.Sample) Model {
	maxC := 0.0
	for _, s := range samples {
		for _, c := range s.Conc {
			if c > maxC {
				maxC = c
			}
		}
	}
	if maxC == 0 {
		maxC = 1
	}
	return Model{
		title:    title,
		reaction: reaction,
		species:  species,
		keq:      keq,
		samples:  samples,
		maxC:     maxC,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.idx = 0
		case "left", "h":
			if m.idx > 0 {
				m.idx--
			}
		case "right", "l":
			if m.idx < len(m.samples)-1 {
				m.idx++
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		if !m.paused && m.idx < len(m.samples)-1 {
			m.idx++
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.samples) == 0 {
		return dim.Render("no samples")
	}
	s := m.samples[m.idx]

	var b strings.Builder
	b.WriteString(cyan.Render(m.title) + "  " + dim.Render(m.reaction) + "\n\n")
	b.WriteString(white.Render(fmt.Sprintf("t = %-8.3f", s.T)))
	b.WriteString(white.Render(fmt.Sprintf("Q = %-12.5g", s.Q)))
	b.WriteString(dim.Render(fmt.Sprintf("Keq = %-10.5g", m.keq)))
	b.WriteString(white.Render(fmt.Sprintf("xi = %.5g", s.Xi)))
	b.WriteString("\n")

	switch s.Status {
	case extent.StatusClamped:
		b.WriteString(yellow.Render("clamped at feasibility boundary") + "\n")
	case extent.StatusNoConvergence:
		b.WriteString(magenta.Render("root search did not converge") + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, c := range s.Conc {
		name := fmt.Sprintf("c%d", i)
		if i < len(m.species) {
			name = m.species[i]
		}
		filled := int(c / m.maxC * barWidth)
		if filled > barWidth {
			filled = barWidth
		}
		bar := green.Render(strings.Repeat("█", filled)) + dim.Render(strings.Repeat("░", barWidth-filled))
		b.WriteString(fmt.Sprintf("  %-6s %s %8.4f\n", name, bar, c))
	}

	b.WriteString("\n")
	progress := float64(m.idx) / float64(len(m.samples)-1)
	pb := int(progress * float64(barWidth))
	b.WriteString("  " + dim.Render(fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("=", pb), strings.Repeat(" ", barWidth-pb), progress*100)) + "\n\n")
	b.WriteString(dim.Render("  space pause · h/l scrub · r restart · q quit") + "\n")

	return b.String()
}
