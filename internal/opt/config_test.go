package opt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 1.0/200, cfg.Indpb(), 1e-12)
}

func TestConfigIndpbOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GeneMutationProb = 0.25
	assert.Equal(t, 0.25, cfg.Indpb())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"genome too short", func(c *Config) { c.GenomeLength = 2 }, "GenomeLength"},
		{"empty alphabet", func(c *Config) { c.AlphabetSize = 0 }, "AlphabetSize"},
		{"tiny population", func(c *Config) { c.PopulationSize = 1 }, "PopulationSize"},
		{"no hall of fame", func(c *Config) { c.HallOfFameSize = 0 }, "HallOfFameSize"},
		{"hall of fame equals population", func(c *Config) { c.HallOfFameSize = c.PopulationSize }, "HallOfFameSize"},
		{"zero tournament", func(c *Config) { c.TournamentSize = 0 }, "TournamentSize"},
		{"zero generations", func(c *Config) { c.MaxGenerations = 0 }, "MaxGenerations"},
		{"crossover above one", func(c *Config) { c.CrossoverProb = 1.5 }, "CrossoverProb"},
		{"negative mutation", func(c *Config) { c.MutationProb = -0.1 }, "MutationProb"},
		{"gene mutation above one", func(c *Config) { c.GeneMutationProb = 2 }, "GeneMutationProb"},
		{"negative replay", func(c *Config) { c.ReplayFrequency = -1 }, "ReplayFrequency"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "Workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfigValidate_HallOfFameBoundary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 10
	cfg.HallOfFameSize = 9
	assert.NoError(t, cfg.Validate())
}
