// main is the entry point for the todo service
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/config"
	"github.com/cirocosta/todo-service/pkg/logutils"
)

var version = "dev"

func main() {
	ctx := context.Background()
	flags := &Flags{}

	app := &cli.Command{
		Name:      "todo-service",
		Usage:     "Manage todo items over HTTP",
		UsageText: "todo-service [global options] command [command options]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to YAML config file",
				Sources:     cli.EnvVars("TODO_CONFIG"),
				Value:       "todo-service.yaml",
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("TODO_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (json, console)",
				Sources:     cli.EnvVars("TODO_LOG_FORMAT"),
				Destination: &flags.LogFormat,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.LogLevel != "" {
				cfg.Log.Level = flags.LogLevel
			}
			if flags.LogFormat != "" {
				cfg.Log.Format = flags.LogFormat
			}
			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid config: %w", err)
			}

			logger, err := logutils.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			zap.ReplaceGlobals(logger)

			flags.Config = cfg
			flags.Logger = logger
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if flags.Logger != nil {
				_ = flags.Logger.Sync()
			}
			return nil
		},
	}

	app = NewServeCmd(flags).Register(app)
	app = NewMigrateCmd(flags).Register(app)
	app = NewSeedCmd(flags).Register(app)
	app = NewOpenAPIGenCmd(flags).Register(app)

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
