// Package config loads the gosolve configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	gosolve "github.com/njchilds90/gosolve"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the root of gosolve.yaml.
type Config struct {
	Solver SolverConfig `yaml:"solver" json:"solver"`
	Server ServerConfig `yaml:"server" json:"server"`
	Cache  CacheConfig  `yaml:"cache" json:"cache"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

type SolverConfig struct {
	QuadraticMethod  string `yaml:"quadratic_method" json:"quadratic_method"`
	ComplexMode      bool   `yaml:"complex_mode" json:"complex_mode"`
	MaxLinearRepeats int    `yaml:"max_linear_repeats" json:"max_linear_repeats"`
	MaxEquations     int    `yaml:"max_equations" json:"max_equations"`
	MaxDepth         int    `yaml:"max_depth" json:"max_depth"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" json:"addr"`
	SolveTimeout time.Duration `yaml:"solve_timeout" json:"solve_timeout"`
}

// CacheConfig selects the result cache. Backend is none, memory, redis or
// sqlite.
type CacheConfig struct {
	Backend    string        `yaml:"backend" json:"backend"`
	TTL        time.Duration `yaml:"ttl" json:"ttl"`
	MaxEntries int           `yaml:"max_entries" json:"max_entries"`
	Redis      RedisConfig   `yaml:"redis" json:"redis"`
	SQLitePath string        `yaml:"sqlite_path" json:"sqlite_path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			QuadraticMethod:  gosolve.QuadraticFactor.String(),
			MaxLinearRepeats: gosolve.DefaultMaxLinearRepeats,
			MaxEquations:     gosolve.DefaultMaxEquations,
			MaxDepth:         gosolve.DefaultMaxDepth,
		},
		Server: ServerConfig{Addr: ":8080", SolveTimeout: 5 * time.Second},
		Cache:  CacheConfig{Backend: "memory", MaxEntries: 1024, Redis: RedisConfig{Addr: "localhost:6379", Prefix: "gosolve:"}, SQLitePath: "gosolve-cache.db"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML (or, by extension, JSON) file over the defaults. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and bounds.
func (c *Config) Validate() error {
	if c.Solver.QuadraticMethod != "" {
		if _, ok := gosolve.ParseQuadraticMethod(c.Solver.QuadraticMethod); !ok {
			return fmt.Errorf("%w: solver.quadratic_method %q", ErrInvalidConfig, c.Solver.QuadraticMethod)
		}
	}
	if c.Solver.MaxEquations < 0 || c.Solver.MaxDepth < 0 || c.Solver.MaxLinearRepeats < 0 {
		return fmt.Errorf("%w: solver caps must not be negative", ErrInvalidConfig)
	}
	switch c.Cache.Backend {
	case "", "none", "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("%w: cache.backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	if c.Server.SolveTimeout < 0 {
		return fmt.Errorf("%w: server.solve_timeout must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// SolverOptions converts the solver section to engine options. Zero caps
// keep the engine defaults.
func (c *Config) SolverOptions(logger *slog.Logger) []gosolve.Option {
	opts := []gosolve.Option{
		gosolve.WithComplexMode(c.Solver.ComplexMode),
		gosolve.WithMaxLinearRepeats(c.Solver.MaxLinearRepeats),
		gosolve.WithMaxEquations(c.Solver.MaxEquations),
		gosolve.WithMaxDepth(c.Solver.MaxDepth),
		gosolve.WithLogger(logger),
	}
	if m, ok := gosolve.ParseQuadraticMethod(c.Solver.QuadraticMethod); ok {
		opts = append(opts, gosolve.WithQuadraticMethod(m))
	}
	return opts
}
