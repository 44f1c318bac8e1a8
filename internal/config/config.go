// Package config loads pushfold settings from an HCL file with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Environment variables that override file settings.
const (
	EnvDatabaseURL = "PUSHFOLD_DATABASE_URL"
	EnvTable       = "PUSHFOLD_TABLE"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the complete configuration. Every block is optional in the file
// and non-nil after Load.
type Config struct {
	Engine   *EngineConfig   `hcl:"engine,block"`
	PushFold *PushFoldConfig `hcl:"pushfold,block"`
	Server   *ServerConfig   `hcl:"server,block"`
	Store    *StoreConfig    `hcl:"store,block"`
}

// EngineConfig controls equity simulations.
type EngineConfig struct {
	Trials      int    `hcl:"trials,optional"`
	Seed        *int64 `hcl:"seed,optional"`
	RetryFactor int    `hcl:"retry_factor,optional"`
	Workers     int    `hcl:"workers,optional"`
	Timeout     string `hcl:"timeout,optional"`
	Evaluator   string `hcl:"evaluator,optional"`
}

// PushFoldConfig locates the push/fold chart.
type PushFoldConfig struct {
	Table string `hcl:"table,optional"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// StoreConfig selects the saved-range backend.
type StoreConfig struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename, falling back to defaults when it does not exist, then
// applies environment overrides.
func Load(filename string) (*Config, error) {
	cfg, err := loadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

func loadFile(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine == nil {
		c.Engine = &EngineConfig{}
	}
	if c.Engine.Trials == 0 {
		c.Engine.Trials = 10000
	}
	if c.Engine.RetryFactor == 0 {
		c.Engine.RetryFactor = 5
	}
	if c.Engine.Evaluator == "" {
		c.Engine.Evaluator = "treys"
	}

	if c.PushFold == nil {
		c.PushFold = &PushFoldConfig{}
	}
	if c.PushFold.Table == "" {
		c.PushFold.Table = "push_ranges.csv"
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.Store.DSN == "" && c.Store.Driver == DriverSQLite {
		c.Store.DSN = "pushfold.db"
	}
}

// ApplyEnv overrides settings from the environment. A database URL switches
// the store to postgres.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDatabaseURL); ok && v != "" {
		c.Store.Driver = DriverPostgres
		c.Store.DSN = v
	}
	if v, ok := lookup(EnvTable); ok && v != "" {
		c.PushFold.Table = v
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Engine.Trials <= 0 {
		return fmt.Errorf("engine: trials must be positive, got %d", c.Engine.Trials)
	}
	if c.Engine.RetryFactor < 1 {
		return fmt.Errorf("engine: retry_factor must be at least 1, got %d", c.Engine.RetryFactor)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine: workers must not be negative, got %d", c.Engine.Workers)
	}
	if _, err := c.Engine.TimeoutDuration(); err != nil {
		return err
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("server: invalid log_level %q", c.Server.LogLevel)
	}

	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("store: unknown driver %q", c.Store.Driver)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store: dsn is required for %s", c.Store.Driver)
	}
	return nil
}

// TimeoutDuration parses the engine timeout. Empty means no timeout.
func (e *EngineConfig) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(e.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, fmt.Errorf("engine: invalid timeout %q: %w", e.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("engine: timeout must not be negative")
	}
	return d, nil
}

// ListenAddress returns host:port for the HTTP server.
func (s *ServerConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}
