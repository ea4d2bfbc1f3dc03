package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTrajectoriesToSVG(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	series := [][]float64{
		{3, 2, 1.2, 1},
		{0.25, 0.4, 0.45, 0.5},
	}
	svg := TrajectoriesToSVG(times, series, []string{"Q", "A"}, 800, 400)

	if !strings.HasPrefix(svg, "<?xml") {
		t.Error("missing XML header")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
	if !strings.Contains(svg, ">Q</text>") || !strings.Contains(svg, ">A</text>") {
		t.Error("series labels missing")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("unterminated document")
	}
}

func TestTrajectoriesToSVGInsufficientData(t *testing.T) {
	if svg := TrajectoriesToSVG([]float64{0}, [][]float64{{1}}, nil, 100, 100); svg != "" {
		t.Error("expected empty output for a single point")
	}
	if svg := TrajectoriesToSVG([]float64{0, 1}, nil, nil, 100, 100); svg != "" {
		t.Error("expected empty output with no series")
	}
}

func TestTrajectoriesToSVGFlatSeries(t *testing.T) {
	// constant series must not divide by a zero range
	svg := TrajectoriesToSVG([]float64{0, 1}, [][]float64{{2, 2}}, nil, 100, 100)
	if svg == "" {
		t.Fatal("flat series should still render")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("rendered NaN coordinates")
	}
}

func TestSaveSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	err := SaveSVG(path, []float64{0, 1, 2}, [][]float64{{1, 2, 3}}, []string{"Q"}, 200, 100)
	if err != nil {
		t.Fatalf("SaveSVG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not an SVG document")
	}
}

func TestSaveSVGRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := SaveSVG(path, []float64{0}, nil, nil, 100, 100); err == nil {
		t.Error("expected an error for empty data")
	}
}
