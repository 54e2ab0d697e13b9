// Package config loads rootfind settings from the environment and batch jobs
// from YAML files.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/zephyrtronium/rootfind/internal/logging"
	"github.com/zephyrtronium/rootfind/methods"
)

// Prefix is the prefix of every environment variable Load reads.
const Prefix = "ROOTFIND"

// Config holds all application configuration. Each field is read from the
// environment variable named by its tag with the prefix, e.g.
// ROOTFIND_TOLERANCE.
type Config struct {
	SolverConfig
	ServerConfig
	LogConfig
}

// SolverConfig holds the defaults for root-finding runs.
type SolverConfig struct {
	Tolerance float64 `envconfig:"TOLERANCE" default:"1e-4"`
	MaxIter   int     `envconfig:"MAX_ITER" default:"100"`
	// Workers is the number of runs a batch executes at once.
	Workers int `envconfig:"WORKERS" default:"4"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	AllowOrigins    []string      `envconfig:"ALLOW_ORIGINS" default:"*"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Methods().Validate(); err != nil {
		return nil, fmt.Errorf("invalid solver config: %w", err)
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("invalid solver config: workers must be positive, got %d", cfg.Workers)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		SolverConfig: SolverConfig{
			Tolerance: methods.DefaultTolerance,
			MaxIter:   methods.DefaultMaxIter,
			Workers:   4,
		},
		ServerConfig: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
			AllowOrigins:    []string{"*"},
		},
		LogConfig: LogConfig{
			Level: "info",
		},
	}
}

// Methods returns the run settings without a logger.
func (c *Config) Methods() methods.Config {
	return methods.Config{Tolerance: c.Tolerance, MaxIter: c.MaxIter}
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Level, Development: c.Development}
}

// Usage writes a table of the environment variables Load reads.
func Usage(w io.Writer) error {
	var cfg Config
	return envconfig.Usagef(Prefix, &cfg, w, envconfig.DefaultTableFormat)
}
