// package config loads and validates the todo service configuration
//
// Values are layered: defaults, then an optional YAML file, then a .env file,
// then TODO_* environment variables. Command line flags are applied last by
// the caller
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreSQL    = "sql"
)

// DefaultSQLiteDSN is a file-backed SQLite database in the working directory
const DefaultSQLiteDSN = "file:todos.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    string         `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds the SQL store settings. Only used when Store is "sql"
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreMemory,
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             DefaultSQLiteDSN,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from configPath (if set and present), loads .env
// into the process environment and applies TODO_* overrides
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// not found is fine, using defaults
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	// a missing .env is the common case
	_ = godotenv.Load(".env")

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return &cfg, nil
}

type lookupFunc func(key string) (string, bool)

// applyEnv overrides fields from TODO_* variables. Malformed numbers and
// durations are reported per variable
func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs criterio.FieldErrorsBuilder

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = errs.Append(key, fmt.Errorf("invalid integer %q", v))
			return
		}
		*dst = n
	}
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = errs.Append(key, fmt.Errorf("invalid duration %q", v))
			return
		}
		*dst = d
	}

	str("TODO_SERVER_ADDR", &c.Server.Addr)
	dur("TODO_SERVER_READ_TIMEOUT", &c.Server.ReadTimeout)
	dur("TODO_SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout)
	dur("TODO_SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	str("TODO_STORE", &c.Store)
	str("TODO_DB_DRIVER", &c.Database.Driver)
	str("TODO_DB_DSN", &c.Database.DSN)
	num("TODO_DB_MAX_OPEN_CONNS", &c.Database.MaxOpenConns)
	num("TODO_DB_MAX_IDLE_CONNS", &c.Database.MaxIdleConns)
	dur("TODO_DB_CONN_MAX_LIFETIME", &c.Database.ConnMaxLifetime)
	str("TODO_LOG_LEVEL", &c.Log.Level)
	str("TODO_LOG_FORMAT", &c.Log.Format)

	return errs.ToError()
}
