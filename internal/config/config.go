// Package config loads the optional per-directory session configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/michaelblawrence/xpress-calc/internal/prettyprinter"
)

// Config is the session configuration. All fields are optional; zero values
// fall back to defaults.
type Config struct {
	// Seed pins the rand builtin to a deterministic sequence.
	Seed *int64 `yaml:"seed,omitempty"`
	// Format selects the fmt output style: minified, spaced or indented.
	Format string `yaml:"format,omitempty"`
	// Prompt overrides the interactive prompt string.
	Prompt string `yaml:"prompt,omitempty"`
}

func Default() *Config {
	return &Config{Prompt: DefaultPrompt}
}

// Load reads a config file. A missing file is not an error and yields the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	return cfg, nil
}

// Discover walks from dir upward looking for a config file, returning the
// defaults when none is found.
func Discover(dir string) (*Config, error) {
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// FormatMode resolves the configured format name to a printer mode.
func (c *Config) FormatMode() prettyprinter.Mode {
	return prettyprinter.ParseMode(c.Format)
}
