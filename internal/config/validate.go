package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hay-kot/criterio"
	"go.uber.org/zap/zapcore"

	"github.com/cirocosta/todo-service/internal/db"
	"github.com/cirocosta/todo-service/pkg/logutils"
)

var stores = []string{StoreMemory, StoreSQL}

// Validate checks the configuration for structural errors. Every failing
// field is reported in a single criterio.FieldErrors
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder
	check := func(field string, err error) {
		if err != nil {
			errs = errs.Append(field, err)
		}
	}

	check("store", oneOf(stores)(c.Store))
	check("server.addr", required(c.Server.Addr))
	check("server.read_timeout", positive(c.Server.ReadTimeout))
	check("server.write_timeout", positive(c.Server.WriteTimeout))
	check("server.shutdown_timeout", positive(c.Server.ShutdownTimeout))
	check("log.level", logLevel(c.Log.Level))
	check("log.format", oneOf([]string{logutils.FormatJSON, logutils.FormatConsole})(c.Log.Format))

	// database settings only apply to the SQL store
	if c.Store == StoreSQL {
		check("database.driver", oneOf(db.Drivers)(c.Database.Driver))
		check("database.dsn", required(c.Database.DSN))
		check("database.max_open_conns", notNegative(c.Database.MaxOpenConns))
		check("database.max_idle_conns", notNegative(c.Database.MaxIdleConns))
		check("database.conn_max_lifetime", notNegative(c.Database.ConnMaxLifetime))
	}

	return errs.ToError()
}

func required(s string) error {
	if s == "" {
		return errors.New("is required")
	}
	return nil
}

func positive(d time.Duration) error {
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func notNegative[T int | time.Duration](v T) error {
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func logLevel(s string) error {
	if _, err := zapcore.ParseLevel(s); err != nil {
		return fmt.Errorf("unknown level %q", s)
	}
	return nil
}

func oneOf(allowed []string) func(string) error {
	return func(s string) error {
		if !slices.Contains(allowed, s) {
			return fmt.Errorf("must be one of %v, got %q", allowed, s)
		}
		return nil
	}
}
