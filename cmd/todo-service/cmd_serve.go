package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/api"
	"github.com/cirocosta/todo-service/internal/service"
	"github.com/cirocosta/todo-service/pkg/translator"
)

type ServeCmd struct {
	flags *Flags
	seed  bool
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Start the HTTP server",
		UsageText: "todo-service serve [--seed]",
		Description: `Serves the todo API on the configured address until SIGINT or SIGTERM.

The SQL store is migrated to the latest version on startup.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "seed",
				Usage:       "insert the sample todos before serving",
				Destination: &cmd.seed,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	logger := cmd.flags.Logger

	repo, closeStore, err := cmd.flags.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("close store", zap.Error(err))
		}
	}()

	tr, err := translator.New()
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	todoService := service.NewTodoService(repo, tr, logger)
	if cmd.seed {
		created, err := todoService.Seed(ctx, service.SeedTodos)
		if err != nil {
			return err
		}
		logger.Info("seeded todos", zap.Int("created", len(created)))
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(todoService, tr, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr), zap.String("store", cfg.Store))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
