package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every configuration validation error.
var ErrInvalid = errors.New("invalid configuration")

// Run modes.
const (
	ModeConvergence = "convergence"
	ModeFixed       = "fixed"
)

// Config holds all runtime configuration for a ranking run.
// Values are populated from .linkrank.yaml, LINKRANK_* env vars, and CLI flags.
type Config struct {
	Input         string  `mapstructure:"input"`
	Teleport      float64 `mapstructure:"teleport"`
	Tolerance     float64 `mapstructure:"tolerance"`
	Iterations    int     `mapstructure:"iterations"` // 0 selects convergence mode
	MaxIterations int     `mapstructure:"max_iterations"`
	InlinksOut    string  `mapstructure:"inlinks_out"`
	PageRankOut   string  `mapstructure:"pagerank_out"`
	TopK          int     `mapstructure:"top_k"`
	LogLevel      string  `mapstructure:"log_level"`
	TelemetryPath string  `mapstructure:"telemetry_path"`
	Manifest      bool    `mapstructure:"manifest"`
	HistoryDB     string  `mapstructure:"history_db"`
}

// SetDefaults registers built-in defaults on the global viper instance.
func SetDefaults() {
	viper.SetDefault("input", "links.srt.gz")
	viper.SetDefault("teleport", 0.2)
	viper.SetDefault("tolerance", 0.005)
	viper.SetDefault("iterations", 0)
	viper.SetDefault("max_iterations", 10000)
	viper.SetDefault("inlinks_out", "inlinks.txt")
	viper.SetDefault("pagerank_out", "pagerank.txt")
	viper.SetDefault("top_k", 100)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("manifest", true)
	viper.SetDefault("history_db", "")
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Mode returns ModeFixed when an exact iteration count is set and
// ModeConvergence otherwise.
func (c Config) Mode() string {
	if c.Iterations > 0 {
		return ModeFixed
	}
	return ModeConvergence
}

// Validate checks every parameter before any computation starts. Nothing is
// clamped; the first bad parameter is reported by name.
func (c Config) Validate() error {
	switch {
	case c.Input == "":
		return fmt.Errorf("%w: input path is empty", ErrInvalid)
	case c.InlinksOut == "":
		return fmt.Errorf("%w: inlinks_out path is empty", ErrInvalid)
	case c.PageRankOut == "":
		return fmt.Errorf("%w: pagerank_out path is empty", ErrInvalid)
	case !(c.Teleport > 0 && c.Teleport < 1):
		return fmt.Errorf("%w: teleport must be in (0, 1), got %v", ErrInvalid, c.Teleport)
	case c.Iterations < 0:
		return fmt.Errorf("%w: iterations must be >= 0, got %d", ErrInvalid, c.Iterations)
	case c.TopK <= 0:
		return fmt.Errorf("%w: top_k must be > 0, got %d", ErrInvalid, c.TopK)
	}
	if c.Mode() == ModeConvergence {
		if math.IsNaN(c.Tolerance) || c.Tolerance <= 0 {
			return fmt.Errorf("%w: tolerance must be > 0, got %v", ErrInvalid, c.Tolerance)
		}
		if c.MaxIterations <= 0 {
			return fmt.Errorf("%w: max_iterations must be > 0, got %d", ErrInvalid, c.MaxIterations)
		}
	}
	return nil
}
