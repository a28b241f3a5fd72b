package ontolearn

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds pipeline-level configuration. Component configuration is
// not nested here: each component receives its own typed config struct
// at construction time, so there is no ambient lookup at run time.
type Config struct {
	// Language tags the corpus; informational, forwarded to reports.
	Language string `json:"language" yaml:"language"`

	// SkipUnavailable makes the pipeline skip (with a warning) components
	// whose resource check fails, instead of aborting the run. Other
	// component failures always abort.
	SkipUnavailable bool `json:"skip_unavailable" yaml:"skip_unavailable"`

	// MaxDocs caps how many records are taken from the corpus loader.
	// Zero means no cap.
	MaxDocs int `json:"max_docs" yaml:"max_docs"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Language: "en",
	}
}

// LoadConfig reads a YAML configuration file. Missing keys keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
