package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rrsim/sim"
	"github.com/inference-sim/rrsim/sim/trace"
)

// Config represents the full defaults.yaml structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Config struct {
	Version           string      `yaml:"version"`
	ContextSwitchTime float64     `yaml:"context_switch_time"` // overhead per dispatch, in ticks
	Quanta            []int64     `yaml:"quanta"`              // quanta simulated by sweep
	LogLevel          string      `yaml:"log_level"`
	TraceLevel        string      `yaml:"trace_level"` // "none" or "dispatches"
	Serve             ServeConfig `yaml:"serve"`
}

// ServeConfig holds the HTTP API settings.
type ServeConfig struct {
	Port       int   `yaml:"port"`
	MaxHorizon int64 `yaml:"max_horizon"` // cap on latest arrival plus total burst per request, in ticks
}

// DefaultMaxHorizon is the per-request simulated-time cap of the HTTP API.
const DefaultMaxHorizon = 10_000_000

// DefaultConfig returns the built-in defaults used when no file is given.
func DefaultConfig() Config {
	return Config{
		Version:           "1",
		ContextSwitchTime: sim.DefaultContextSwitchTime,
		Quanta:            []int64{1, 2, 3, 4, 5},
		LogLevel:          "error",
		TraceLevel:        string(trace.TraceLevelNone),
		Serve:             ServeConfig{Port: 9095, MaxHorizon: DefaultMaxHorizon},
	}
}

// LoadConfig parses a defaults YAML file on top of DefaultConfig.
// Keys absent from the file keep their defaults; unknown keys are rejected.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading defaults file: %w", err)
	}

	// Parse YAML with strict field checking: typos must cause errors
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parsing defaults file %s: %v", sim.ErrInvalidConfiguration, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("Loaded defaults from %s: %+v", path, cfg)
	return cfg, nil
}

// Validate checks that all fields in the config are usable.
func (c Config) Validate() error {
	if err := validateContextSwitchTime(c.ContextSwitchTime); err != nil {
		return err
	}
	for i, q := range c.Quanta {
		if q <= 0 {
			return fmt.Errorf("%w: quanta[%d] must be positive, got %d", sim.ErrInvalidConfiguration, i, q)
		}
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", sim.ErrInvalidConfiguration, err)
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return fmt.Errorf("%w: unknown trace_level %q; valid: none, dispatches", sim.ErrInvalidConfiguration, c.TraceLevel)
	}
	if c.Serve.Port <= 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("%w: serve.port must be in [1, 65535], got %d", sim.ErrInvalidConfiguration, c.Serve.Port)
	}
	if c.Serve.MaxHorizon <= 0 {
		return fmt.Errorf("%w: serve.max_horizon must be positive, got %d", sim.ErrInvalidConfiguration, c.Serve.MaxHorizon)
	}
	return nil
}

func validateContextSwitchTime(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: context_switch_time must be a finite number, got %f", sim.ErrInvalidConfiguration, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: context_switch_time must be non-negative, got %f", sim.ErrInvalidConfiguration, v)
	}
	return nil
}
