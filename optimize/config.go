package optimize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dowser/dowser-go/cluster"
)

// Config is the on-disk shape of a tuning run: the distance coefficients
// being fitted plus the annealing schedule.
type Config struct {
	Costs    cluster.Costs `yaml:"costs"`
	Annealer Parameters    `yaml:"annealer"`
}

// DefaultConfig returns stock costs and schedule.
func DefaultConfig() Config {
	return Config{
		Costs:    cluster.DefaultCosts(),
		Annealer: DefaultParameters(),
	}
}

// LoadConfig reads a YAML config, filling omitted sections with defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes a config as YAML.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
