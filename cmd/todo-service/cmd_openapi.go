package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cirocosta/todo-service/internal/api"
)

type OpenAPIGenCmd struct {
	flags  *Flags
	output string
}

// NewOpenAPIGenCmd creates a new openapi-gen command
func NewOpenAPIGenCmd(flags *Flags) *OpenAPIGenCmd {
	return &OpenAPIGenCmd{flags: flags}
}

// Register adds the openapi-gen command to the application
func (cmd *OpenAPIGenCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "openapi-gen",
		Usage:     "Generate OpenAPI documentation",
		UsageText: "todo-service openapi-gen [-o openapi.json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output file path",
				Value:       "openapi.json",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *OpenAPIGenCmd) run(ctx context.Context, c *cli.Command) error {
	data, err := api.GenerateOpenAPI()
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}

	if err := os.WriteFile(cmd.output, data, 0o644); err != nil {
		return fmt.Errorf("write openapi document to file '%s': %w", cmd.output, err)
	}

	fmt.Fprintf(c.Root().Writer, "OpenAPI document generated at %s\n", cmd.output)
	return nil
}
