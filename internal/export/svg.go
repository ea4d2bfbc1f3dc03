package export

import (
	"fmt"
	"os"
	"strings"
)

var seriesColors = []string{
	"#00ff00", "#00bfff", "#ff7f0e", "#ff4d4d", "#d478ff", "#ffd700",
}

// TrajectoriesToSVG renders one polyline per series against a shared time
// axis. Series shorter than the time vector are truncated to their own
// length.
func TrajectoriesToSVG(times []float64, series [][]float64, labels []string, width, height int) string {
	if len(times) < 2 || len(series) == 0 {
		return ""
	}

	minY, maxY := series[0][0], series[0][0]
	for _, s := range series {
		for _, v := range s {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	minX, maxX := times[0], times[len(times)-1]
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for si, s := range series {
		n := len(s)
		if len(times) < n {
			n = len(times)
		}
		if n < 2 {
			continue
		}
		color := seriesColors[si%len(seriesColors)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i := 0; i < n; i++ {
			x := (times[i] - minX) / rangeX * float64(width)
			y := float64(height) - (s[i]-minY)/rangeY*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		if si < len(labels) {
			sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16+si*16, color, labels[si]))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SaveSVG writes the rendered chart to path.
func SaveSVG(path string, times []float64, series [][]float64, labels []string, width, height int) error {
	svg := TrajectoriesToSVG(times, series, labels, width, height)
	if svg == "" {
		return fmt.Errorf("export: not enough data to render")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
