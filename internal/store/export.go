package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/rqlab/internal/sim"
)

type ExportData struct {
	Scenario string             `json:"scenario"`
	Reaction string             `json:"reaction"`
	Species  []string           `json:"species"`
	Rate     float64            `json:"rate"`
	Keq      float64            `json:"keq"`
	Drive    float64            `json:"drive"`
	Times    []float64          `json:"times"`
	Q        []float64          `json:"q"`
	Xi       []float64          `json:"xi"`
	Conc     [][]float64        `json:"concentrations"`
	Statuses []string           `json:"statuses"`
	Metrics  map[string]float64 `json:"metrics"`
}

func buildExport(meta *RunMetadata, samples []sim.Sample) ExportData {
	data := ExportData{
		Scenario: meta.Scenario,
		Reaction: meta.Reaction,
		Species:  meta.Species,
		Rate:     meta.Rate,
		Keq:      meta.Keq,
		Drive:    meta.Drive,
		Times:    make([]float64, len(samples)),
		Q:        make([]float64, len(samples)),
		Xi:       make([]float64, len(samples)),
		Conc:     make([][]float64, len(samples)),
		Statuses: make([]string, len(samples)),
		Metrics:  meta.Metrics,
	}
	for i, s := range samples {
		data.Times[i] = s.T
		data.Q[i] = s.Q
		data.Xi[i] = s.Xi
		data.Conc[i] = s.Conc
		data.Statuses[i] = s.Status.String()
	}
	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, samples []sim.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildExport(meta, samples))
}

func ExportJSONFile(path string, meta *RunMetadata, samples []sim.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, samples)
}
