package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/config"
	"github.com/cirocosta/todo-service/internal/db"
	"github.com/cirocosta/todo-service/internal/repository"
)

// Flags holds global flag values and what the Before hook builds from them
type Flags struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string

	// Config and Logger are set in the Before hook and available to all commands
	Config *config.Config
	Logger *zap.Logger
}

// openDB connects to the configured SQL database
func (f *Flags) openDB(ctx context.Context) (*db.DB, error) {
	database, err := db.Open(ctx, db.Options{
		Driver:          f.Config.Database.Driver,
		DSN:             f.Config.Database.DSN,
		MaxOpenConns:    f.Config.Database.MaxOpenConns,
		MaxIdleConns:    f.Config.Database.MaxIdleConns,
		ConnMaxLifetime: f.Config.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}

// openStore returns the configured repository. The SQL store is migrated to
// the latest version before use. The returned close func is never nil
func (f *Flags) openStore(ctx context.Context) (repository.TodoRepository, func() error, error) {
	if f.Config.Store != config.StoreSQL {
		return repository.NewInMemoryTodoRepository(), func() error { return nil }, nil
	}

	database, err := f.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := database.MigrateUp(ctx); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	f.Logger.Info("using sql store", zap.String("driver", database.Driver()))
	return repository.NewSQLTodoRepository(database.Conn()), database.Close, nil
}
