package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

var migrationFile = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// Migration is one schema version of the todos table
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrationStatus reports whether a migration has been applied
type MigrationStatus struct {
	Version int
	Name    string
	Applied bool
}

// loadMigrations reads migrations/<driver>, sorted by version
func loadMigrations(driver string) ([]Migration, error) {
	dir := path.Join("migrations", driver)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s migrations: %w", driver, err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		version, name, direction, err := parseFilename(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", entry.Name(), err)
		}
		content, err := fs.ReadFile(migrationsFS, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		dst := &m.UpSQL
		if direction == "down" {
			dst = &m.DownSQL
		}
		if *dst != "" {
			return nil, fmt.Errorf("migration %04d: duplicate %s file", version, direction)
		}
		*dst = string(content)
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration %04d: needs both up and down files", m.Version)
		}
		migrations = append(migrations, *m)
	}
	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })

	return migrations, nil
}

// parseFilename splits NNNN_name.{up,down}.sql
func parseFilename(filename string) (version int, name, direction string, err error) {
	match := migrationFile.FindStringSubmatch(filename)
	if match == nil {
		return 0, "", "", fmt.Errorf("want NNNN_name.{up,down}.sql")
	}
	version, err = strconv.Atoi(match[1])
	if err != nil || version <= 0 {
		return 0, "", "", fmt.Errorf("bad version %q", match[1])
	}
	return version, match[2], match[3], nil
}

// plan loads the driver's migrations together with the applied versions
func (db *DB) plan(ctx context.Context) ([]Migration, map[int]bool, error) {
	migrations, err := loadMigrations(db.driver)
	if err != nil {
		return nil, nil, err
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER      PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			applied_at BIGINT       NOT NULL
		)
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var versions []int
	if err := db.conn.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations"); err != nil {
		return nil, nil, fmt.Errorf("list applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	return migrations, applied, nil
}

// MigrateUp applies every pending migration
func (db *DB) MigrateUp(ctx context.Context) error {
	migrations, applied, err := db.plan(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		zap.L().Info("applying migration", zap.Int("version", m.Version), zap.String("name", m.Name))
		err := db.inTx(ctx, m.UpSQL,
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("migration %04d_%s: %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// MigrateDown reverts the n most recent applied migrations
func (db *DB) MigrateDown(ctx context.Context, n int) error {
	if n <= 0 {
		return fmt.Errorf("n must be positive, got %d", n)
	}

	migrations, applied, err := db.plan(ctx)
	if err != nil {
		return err
	}

	var revert []Migration
	for _, m := range slices.Backward(migrations) {
		if applied[m.Version] {
			revert = append(revert, m)
		}
	}
	if n > len(revert) {
		return fmt.Errorf("cannot revert %d migrations, only %d are applied", n, len(revert))
	}

	for _, m := range revert[:n] {
		zap.L().Info("reverting migration", zap.Int("version", m.Version), zap.String("name", m.Name))
		err := db.inTx(ctx, m.DownSQL, "DELETE FROM schema_migrations WHERE version = ?", m.Version)
		if err != nil {
			return fmt.Errorf("revert %04d_%s: %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// MigrationStatus lists every migration for the driver
func (db *DB) MigrationStatus(ctx context.Context) ([]MigrationStatus, error) {
	migrations, applied, err := db.plan(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		statuses = append(statuses, MigrationStatus{Version: m.Version, Name: m.Name, Applied: applied[m.Version]})
	}
	return statuses, nil
}

// inTx runs a schema change and its bookkeeping statement atomically
func (db *DB) inTx(ctx context.Context, schemaSQL, bookkeeping string, args ...any) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(bookkeeping), args...); err != nil {
		return fmt.Errorf("schema_migrations: %w", err)
	}
	return tx.Commit()
}
