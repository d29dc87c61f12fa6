package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/config"
	"github.com/njchilds90/gosolve/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "gosolve.yaml", `
solver:
  quadratic_method: complete-square
  complex_mode: true
  max_equations: 2
server:
  addr: ":9090"
  solve_timeout: 250ms
cache:
  backend: redis
  ttl: 1h
  redis:
    addr: "cache:6379"
log:
  level: debug
  format: json
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "complete-square", cfg.Solver.QuadraticMethod)
	assert.True(t, cfg.Solver.ComplexMode)
	assert.Equal(t, 2, cfg.Solver.MaxEquations)
	assert.Equal(t, gosolve.DefaultMaxDepth, cfg.Solver.MaxDepth)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.SolveTimeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "gosolve:", cfg.Cache.Redis.Prefix)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "gosolve.json", `{"cache": {"backend": "none"}}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Cache.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"method":  "solver:\n  quadratic_method: guess\n",
		"backend": "cache:\n  backend: memcached\n",
		"format":  "log:\n  format: xml\n",
		"caps":    "solver:\n  max_depth: -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "gosolve.yaml", content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrInvalidConfig), "%v", err)
		})
	}

	_, err := config.Load(writeFile(t, "broken.yaml", "solver: [1, 2"))
	assert.Error(t, err)
}

func TestSolverOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.QuadraticMethod = "formula"
	cfg.Solver.ComplexMode = true
	cfg.Solver.MaxEquations = 0

	opts := gosolve.NewSolver(cfg.SolverOptions(logging.NewNop())...).Options()
	assert.Equal(t, gosolve.QuadraticFormula, opts.QuadraticMethod)
	assert.True(t, opts.ComplexMode)
	assert.Equal(t, gosolve.DefaultMaxEquations, opts.MaxEquations)
}
