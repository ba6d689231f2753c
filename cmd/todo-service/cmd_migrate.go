package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/config"
	"github.com/cirocosta/todo-service/internal/db"
)

type MigrateCmd struct {
	flags *Flags
	steps int64
}

// NewMigrateCmd creates a new migrate command
func NewMigrateCmd(flags *Flags) *MigrateCmd {
	return &MigrateCmd{flags: flags}
}

// Register adds the migrate command and its subcommands to the application
func (cmd *MigrateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "migrate",
		Usage:     "Manage the SQL schema",
		UsageText: "todo-service migrate up|down|status",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply every pending migration",
				Action: cmd.withDB(cmd.up),
			},
			{
				Name:  "down",
				Usage: "Revert the most recent migrations",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:        "steps",
						Aliases:     []string{"n"},
						Usage:       "number of migrations to revert",
						Value:       1,
						Destination: &cmd.steps,
					},
				},
				Action: cmd.withDB(cmd.down),
			},
			{
				Name:   "status",
				Usage:  "List migrations and whether they are applied",
				Action: cmd.withDB(cmd.status),
			},
		},
	})

	return app
}

func (cmd *MigrateCmd) withDB(fn func(context.Context, *cli.Command, *db.DB) error) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if cmd.flags.Config.Store != config.StoreSQL {
			return errors.New("migrations require store: sql")
		}

		database, err := cmd.flags.openDB(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := database.Close(); err != nil {
				cmd.flags.Logger.Error("close database", zap.Error(err))
			}
		}()

		return fn(ctx, c, database)
	}
}

func (cmd *MigrateCmd) up(ctx context.Context, c *cli.Command, database *db.DB) error {
	if err := database.MigrateUp(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	fmt.Fprintln(c.Root().Writer, "Database is up to date")
	return nil
}

func (cmd *MigrateCmd) down(ctx context.Context, c *cli.Command, database *db.DB) error {
	if err := database.MigrateDown(ctx, int(cmd.steps)); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	fmt.Fprintf(c.Root().Writer, "Reverted %d migration(s)\n", cmd.steps)
	return nil
}

func (cmd *MigrateCmd) status(ctx context.Context, c *cli.Command, database *db.DB) error {
	statuses, err := database.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
	for _, s := range statuses {
		fmt.Fprintf(w, "%04d\t%s\t%t\n", s.Version, s.Name, s.Applied)
	}
	return w.Flush()
}
