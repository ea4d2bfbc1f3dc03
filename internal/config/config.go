package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rqlab/internal/chem"
)

const (
	DefaultRate     = 1.0
	DefaultKeq      = 1.0
	DefaultDuration = 10.0
	DefaultSamples  = 400
	DefaultKf       = 1.0
)

type Config struct {
	Scenario      string    `yaml:"scenario"`
	Species       []string  `yaml:"species"`
	Alpha         []float64 `yaml:"alpha"`
	Beta          []float64 `yaml:"beta"`
	Conc0         []float64 `yaml:"conc0"`
	Rate          float64   `yaml:"rate"`
	Keq           float64   `yaml:"keq"`
	Drive         float64   `yaml:"drive"`
	Duration      float64   `yaml:"duration"`
	Samples       int       `yaml:"samples"`
	Tolerance     float64   `yaml:"tolerance"`
	MaxIterations int       `yaml:"max_iterations"`
	Compare       bool      `yaml:"compare_mass_action"`
	Kf            float64   `yaml:"kf"`
}

func DefaultConfig() *Config {
	return &Config{
		Rate:     DefaultRate,
		Keq:      DefaultKeq,
		Duration: DefaultDuration,
		Samples:  DefaultSamples,
		Kf:       DefaultKf,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToScenario maps the file values onto a validated reaction scenario.
func (c *Config) ToScenario() (chem.Scenario, error) {
	sc := chem.Scenario{
		Species: c.Species,
		Stoich: chem.Stoichiometry{
			Alpha: c.Alpha,
			Beta:  c.Beta,
		},
		Conc0: c.Conc0,
		RateK: c.Rate,
		Keq:   c.Keq,
		Drive: c.Drive,
	}
	if err := sc.Validate(); err != nil {
		return chem.Scenario{}, err
	}
	return sc, nil
}
