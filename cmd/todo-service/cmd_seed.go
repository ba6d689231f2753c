package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/cirocosta/todo-service/internal/config"
	"github.com/cirocosta/todo-service/internal/service"
	"github.com/cirocosta/todo-service/pkg/translator"
)

type SeedCmd struct {
	flags *Flags
}

// NewSeedCmd creates a new seed command
func NewSeedCmd(flags *Flags) *SeedCmd {
	return &SeedCmd{flags: flags}
}

// Register adds the seed command to the application
func (cmd *SeedCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "seed",
		Usage:     "Insert the sample todos",
		UsageText: "todo-service seed",
		Description: `Inserts the sample todos into the SQL store, skipping tasks that
already exist. Use 'serve --seed' for the in-memory store.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *SeedCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.Config.Store != config.StoreSQL {
		return errors.New("seed requires store: sql; use 'serve --seed' for the memory store")
	}

	repo, closeStore, err := cmd.flags.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			cmd.flags.Logger.Error("close store", zap.Error(err))
		}
	}()

	tr, err := translator.New()
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	created, err := service.NewTodoService(repo, tr, cmd.flags.Logger).Seed(ctx, service.SeedTodos)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Seeded %d todo(s)\n", len(created))
	return nil
}
