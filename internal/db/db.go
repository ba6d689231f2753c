// package db manages the SQL connection pool and schema migrations
package db

import (
	"context"
	"fmt"
	"slices"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Supported driver names, as registered with database/sql
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Drivers lists every driver Open accepts
var Drivers = []string{DriverSQLite, DriverMySQL, DriverPostgres}

const (
	maxRetries  = 5
	initialWait = 100 * time.Millisecond
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options configures the connection pool
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB wraps a sqlx connection together with the driver it was opened with
type DB struct {
	conn   *sqlx.DB
	driver string
}

// Open creates a new connection pool and verifies connectivity with retries
func Open(ctx context.Context, opts Options) (*DB, error) {
	if !slices.Contains(Drivers, opts.Driver) {
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}

	conn, err := sqlx.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	maxOpen := opts.MaxOpenConns
	if opts.Driver == DriverSQLite && isMemoryDSN(opts.DSN) {
		// every connection to :memory: is a separate database
		maxOpen = 1
	}
	if maxOpen > 0 {
		conn.SetMaxOpenConns(maxOpen)
	}
	if opts.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(opts.MaxIdleConns)
	}
	conn.SetConnMaxLifetime(opts.ConnMaxLifetime)

	db := &DB{conn: conn, driver: opts.Driver}

	if err := db.pingWithRetry(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

// Conn returns the underlying sqlx handle
func (db *DB) Conn() *sqlx.DB {
	return db.conn
}

// Driver returns the driver name
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the connection pool
func (db *DB) Close() error {
	return db.conn.Close()
}

// pingWithRetry attempts to ping the database with exponential backoff
func (db *DB) pingWithRetry(ctx context.Context) error {
	var err error
	wait := initialWait
	for i := 0; i < maxRetries; i++ {
		if err = db.conn.PingContext(ctx); err == nil {
			return nil
		}

		zap.L().Debug("database ping failed",
			zap.String("driver", db.driver),
			zap.Int("attempt", i+1),
			zap.Error(err),
		)

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
	}

	return fmt.Errorf("ping database after %d retries: %w", maxRetries, err)
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || dsn == "file::memory:"
}
