// Package config loads the YAML batch-compile option file accepted by
// "stachec batch" (§4.7/§1A), grounded on sambeau-basil's
// server/config/config.go + load.go: a plain struct with yaml tags and
// a Load function that applies defaults before unmarshalling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry describes one glob of template sources to compile with shared
// options.
type Entry struct {
	Glob       string `yaml:"glob"`
	SourceName string `yaml:"sourceName"`
	IsTemplate bool   `yaml:"isTemplate"`
	Exclude    string `yaml:"exclude"`
}

// Batch is the top-level shape of a batch-compile YAML document.
type Batch struct {
	OutDir  string  `yaml:"outDir"`
	Entries []Entry `yaml:"entries"`
}

// Defaults returns the Batch that Load unmarshals into: no entries (a
// file must list at least one) and an empty OutDir, so output is written
// as a ".js" sibling of each source unless the file sets outDir.
func Defaults() *Batch {
	return &Batch{}
}

// Load reads and parses a batch-compile option file at path.
func Load(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Batch) error {
	if len(cfg.Entries) == 0 {
		return fmt.Errorf("config: at least one entry is required")
	}
	for i, e := range cfg.Entries {
		if e.Glob == "" {
			return fmt.Errorf("config: entries[%d]: glob is required", i)
		}
	}
	return nil
}
