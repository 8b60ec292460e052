package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenize/cmd/app/commands"
	"github.com/allisson/tokenize/internal/app"
	"github.com/allisson/tokenize/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run the SQL vault database migrations",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "driver",
					Usage: "Database driver (postgres or mysql), defaults to DB_DRIVER",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if driver := cmd.String("driver"); driver != "" {
					cfg.DBDriver = driver
				}
				if cfg.DBConnectionString == "" {
					return errors.New("DB_CONNECTION_STRING is required to run migrations")
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
