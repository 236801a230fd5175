package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the base directory.
const ConfigFileName = ".lockfreeze.yaml"

// CompilerConfig holds settings for the external dependency compiler.
type CompilerConfig struct {
	// Command is the compiler binary path or name (default: pip-compile).
	// CI environments override this to pin an exact version.
	Command string `yaml:"command"`
}

// Config holds all configuration for a freeze run.
// It is immutable after creation via Load().
type Config struct {
	// Compiler contains external tool settings
	Compiler CompilerConfig `yaml:"compiler"`

	// Parallelism is the worker pool size
	Parallelism int `yaml:"parallelism"`

	// LogLevel sets the zerolog level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// Load reads configuration for the given base directory: defaults,
// overlaid by the config file when present, overlaid by environment
// variables. The result is validated.
func Load(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Config file is optional.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Compiler.Command == "" {
		return fmt.Errorf("compiler command must not be empty")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be greater than 0, got %d", c.Parallelism)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}
