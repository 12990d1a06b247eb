// Package config loads run settings from an INI file.
//
// Example:
//
//	[ga]
//	population_size = 100
//	max_generations = 300
//	seed = 42
//
//	[convergence]
//	enabled = true
//	patience = 25
//
//	[environment]
//	seed = 42
//	replay_backend = terminal
//
//	[store]
//	backend = sqlite
//	data_dir = ./data
//
//	[server]
//	port = 8080
//	checkpoint_interval = 10
package config

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"

	"github.com/cwbudde/mountaincarga/internal/opt"
)

// Config is the full file configuration. Keys missing from the file keep
// the values from Default.
type Config struct {
	GA          opt.Config
	Convergence opt.ConvergenceConfig
	Environment EnvironmentConfig
	Store       StoreConfig
	Server      ServerConfig
}

// EnvironmentConfig holds the [environment] section.
type EnvironmentConfig struct {
	// Seed is passed to every environment reset
	Seed int64 `ini:"seed"`
	// ReplayBackend is "terminal", "log" or "none"
	ReplayBackend string `ini:"replay_backend"`
	ReplayDelayMs int    `ini:"replay_delay_ms"`
}

// ReplayDelay returns the pause between replayed frames.
func (e EnvironmentConfig) ReplayDelay() time.Duration {
	return time.Duration(e.ReplayDelayMs) * time.Millisecond
}

// StoreConfig holds the [store] section.
type StoreConfig struct {
	// Backend is "fs" or "sqlite"
	Backend string `ini:"backend"`
	DataDir string `ini:"data_dir"`
}

// ServerConfig holds the [server] section.
type ServerConfig struct {
	Port int `ini:"port"`
	// CheckpointInterval saves the running best every N generations (0 = only at the end)
	CheckpointInterval int `ini:"checkpoint_interval"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		GA:          opt.DefaultConfig(),
		Convergence: opt.DisabledConvergenceConfig(),
		Environment: EnvironmentConfig{
			Seed:          42,
			ReplayBackend: "terminal",
			ReplayDelayMs: 20,
		},
		Store: StoreConfig{
			Backend: "fs",
			DataDir: "./data",
		},
		Server: ServerConfig{
			Port:               8080,
			CheckpointInterval: 10,
		},
	}
}

// Load reads an INI file on top of Default and validates the GA section.
func Load(path string) (*Config, error) {
	return LoadSource(path)
}

// LoadSource reads an INI source (file path or []byte) on top of Default.
func LoadSource(source any) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config := Default()

	sections := []struct {
		name   string
		target any
	}{
		{"ga", &config.GA},
		{"convergence", &config.Convergence},
		{"environment", &config.Environment},
		{"store", &config.Store},
		{"server", &config.Server},
	}
	for _, s := range sections {
		if err := file.Section(s.name).MapTo(s.target); err != nil {
			return nil, fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := c.GA.Validate(); err != nil {
		return fmt.Errorf("[ga]: %w", err)
	}
	if c.Convergence.Enabled && c.Convergence.Patience < 1 {
		return fmt.Errorf("[convergence]: patience must be at least 1")
	}
	switch c.Store.Backend {
	case "fs", "sqlite":
	default:
		return fmt.Errorf("[store]: unsupported backend %q", c.Store.Backend)
	}
	if c.Server.CheckpointInterval < 0 {
		return fmt.Errorf("[server]: checkpoint_interval cannot be negative")
	}
	return nil
}
