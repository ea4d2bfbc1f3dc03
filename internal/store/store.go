package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/rqlab/internal/extent"
	"github.com/san-kum/rqlab/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Scenario     string             `json:"scenario"`
	Reaction     string             `json:"reaction"`
	Timestamp    time.Time          `json:"timestamp"`
	Species      []string           `json:"species"`
	Rate         float64            `json:"rate"`
	Keq          float64            `json:"keq"`
	Drive        float64            `json:"drive"`
	Duration     float64            `json:"duration"`
	Samples      int                `json:"samples"`
	Clamped      int                `json:"clamped"`
	NonConverged int                `json:"non_converged"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes metadata.json plus samples.csv (time, Q, xi, one column per
// species, status) under a fresh run directory and returns the run id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Samples = len(result.Samples)
	meta.Clamped = result.Clamped
	meta.NonConverged = result.NonConverged
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Samples) == 0 {
		return runID, nil
	}

	header := []string{"time", "Q", "xi"}
	for i := range result.Samples[0].Conc {
		name := fmt.Sprintf("c%d", i)
		if i < len(meta.Species) {
			name = meta.Species[i]
		}
		header = append(header, name)
	}
	header = append(header, "status")
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sample := range result.Samples {
		row := []string{
			strconv.FormatFloat(sample.T, 'f', 6, 64),
			strconv.FormatFloat(sample.Q, 'g', -1, 64),
			strconv.FormatFloat(sample.Xi, 'g', -1, 64),
		}
		for _, c := range sample.Conc {
			row = append(row, strconv.FormatFloat(c, 'g', -1, 64))
		}
		row = append(row, sample.Status.String())
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reconstructs the saved trajectory.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 4 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		q, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		xi, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}

		last := len(record) - 1
		conc := make([]float64, 0, last-3)
		for _, field := range record[3:last] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			conc = append(conc, v)
		}

		samples = append(samples, sim.Sample{
			T:      t,
			Q:      q,
			LnQ:    logOrNaN(q),
			Xi:     xi,
			Conc:   conc,
			Status: parseStatus(record[last]),
		})
	}
	return samples, nil
}

func logOrNaN(q float64) float64 {
	if q <= 0 {
		return math.NaN()
	}
	return math.Log(q)
}

func parseStatus(s string) extent.Status {
	switch s {
	case extent.StatusClamped.String():
		return extent.StatusClamped
	case extent.StatusNoConvergence.String():
		return extent.StatusNoConvergence
	}
	return extent.StatusConverged
}
