package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pushfold.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10000, cfg.Engine.Trials)
	assert.Equal(t, 5, cfg.Engine.RetryFactor)
	assert.Equal(t, "treys", cfg.Engine.Evaluator)
	assert.Nil(t, cfg.Engine.Seed)
	assert.Equal(t, "push_ranges.csv", cfg.PushFold.Table)
	assert.Equal(t, "localhost:8080", cfg.Server.ListenAddress())
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "pushfold.db", cfg.Store.DSN)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadFile(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
engine {
  trials       = 2000
  seed         = 42
  workers      = 2
  timeout      = "3s"
  evaluator    = "hankin"
}

pushfold {
  table = "charts/mtt.csv"
}

server {
  port      = 9090
  log_level = "debug"
}
`)
	cfg, err := loadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2000, cfg.Engine.Trials)
	require.NotNil(t, cfg.Engine.Seed)
	assert.Equal(t, int64(42), *cfg.Engine.Seed)
	assert.Equal(t, 5, cfg.Engine.RetryFactor)
	assert.Equal(t, 2, cfg.Engine.Workers)
	assert.Equal(t, "hankin", cfg.Engine.Evaluator)
	d, err := cfg.Engine.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	assert.Equal(t, "charts/mtt.csv", cfg.PushFold.Table)
	assert.Equal(t, "localhost:9090", cfg.Server.ListenAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	t.Parallel()

	_, err := loadFile(writeConfig(t, `engine { trials = `))
	assert.Error(t, err)

	_, err = loadFile(writeConfig(t, `engine { bogus = 1 }`))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.ApplyEnv(noEnv)
	assert.Equal(t, Default(), cfg)

	env := map[string]string{
		EnvDatabaseURL: "postgres://localhost/pushfold",
		EnvTable:       "/data/chart.csv",
	}
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/pushfold", cfg.Store.DSN)
	assert.Equal(t, "/data/chart.csv", cfg.PushFold.Table)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero trials", func(c *Config) { c.Engine.Trials = -1 }},
		{"retry factor", func(c *Config) { c.Engine.RetryFactor = 0 }},
		{"negative workers", func(c *Config) { c.Engine.Workers = -2 }},
		{"bad timeout", func(c *Config) { c.Engine.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Engine.Timeout = "-1s" }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"log level", func(c *Config) { c.Server.LogLevel = "loud" }},
		{"driver", func(c *Config) { c.Store.Driver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres; c.Store.DSN = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
