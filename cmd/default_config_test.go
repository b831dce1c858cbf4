package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rrsim/sim"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_EmptyPath_ReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, sim.DefaultContextSwitchTime, cfg.ContextSwitchTime)
}

func TestLoadConfig_RepoDefaultsFile_MatchesBuiltins(t *testing.T) {
	path := "../defaults.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("defaults.yaml not found, skipping integration test")
	}

	// GIVEN the checked-in defaults file
	cfg, err := LoadConfig(path)

	// THEN it parses strictly and agrees with the built-in defaults
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_PartialFile_KeepsRemainingDefaults(t *testing.T) {
	// GIVEN a file that only overrides the context switch time
	path := writeYAML(t, "context_switch_time: 0.5\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// THEN the override applies and everything else keeps its default
	assert.Equal(t, 0.5, cfg.ContextSwitchTime)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, cfg.Quanta)
	assert.Equal(t, 9095, cfg.Serve.Port)
	assert.Equal(t, int64(DefaultMaxHorizon), cfg.Serve.MaxHorizon)
}

func TestLoadConfig_UnknownKey_IsRejected(t *testing.T) {
	// GIVEN a typo in a key name
	path := writeYAML(t, "context_swich_time: 0.5\n")

	_, err := LoadConfig(path)

	// THEN strict parsing reports it as a configuration error
	require.Error(t, err)
	assert.ErrorIs(t, err, sim.ErrInvalidConfiguration)
}

func TestLoadConfig_MissingFile_ReturnsOSError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, sim.ErrInvalidConfiguration)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative context switch time", func(c *Config) { c.ContextSwitchTime = -0.1 }},
		{"NaN context switch time", func(c *Config) { c.ContextSwitchTime = math.NaN() }},
		{"infinite context switch time", func(c *Config) { c.ContextSwitchTime = math.Inf(1) }},
		{"zero quantum", func(c *Config) { c.Quanta = []int64{2, 0} }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad trace level", func(c *Config) { c.TraceLevel = "everything" }},
		{"port out of range", func(c *Config) { c.Serve.Port = 70000 }},
		{"zero max horizon", func(c *Config) { c.Serve.MaxHorizon = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, sim.ErrInvalidConfiguration)
		})
	}

	t.Run("zero context switch time is allowed", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ContextSwitchTime = 0
		assert.NoError(t, cfg.Validate())
	})
}
