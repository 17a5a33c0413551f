// Package config loads the scope CLI configuration.
package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenarios lists the demo scenarios the CLI knows about, in run order.
var Scenarios = []string{"fd", "secret", "kv", "guest", "failure"}

// Config holds the runtime configuration.
type Config struct {
	Path      string        `yaml:"-"`
	Log       LogConfig     `yaml:"log"`
	Scenarios []string      `yaml:"scenarios"`
	KV        KVConfig      `yaml:"kv"`
	Secret    SecretConfig  `yaml:"secret"`
	Guest     GuestConfig   `yaml:"guest"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// KVConfig configures the pebble scenario. An empty Dir uses a temporary
// directory removed after the run.
type KVConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// SecretConfig configures the memguard scenario.
type SecretConfig struct {
	Size int `yaml:"size"`
}

// GuestConfig configures the wazero scenario.
type GuestConfig struct {
	BlockSize uint32 `yaml:"block_size"`
}

// MetricsConfig toggles the Prometheus observer.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Scenarios: slices.Clone(Scenarios),
		Secret:    SecretConfig{Size: 32},
		Guest:     GuestConfig{BlockSize: 64},
		Metrics:   MetricsConfig{Enabled: true},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.Path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("scenarios: at least one scenario is required")
	}
	for _, s := range c.Scenarios {
		if !slices.Contains(Scenarios, s) {
			return fmt.Errorf("scenarios: unknown scenario %q", s)
		}
	}
	if c.Secret.Size <= 0 {
		return fmt.Errorf("secret.size: must be positive, got %d", c.Secret.Size)
	}
	if c.Guest.BlockSize == 0 {
		return fmt.Errorf("guest.block_size: must be positive")
	}
	return nil
}
