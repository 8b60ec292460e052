package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenize/cmd/app/commands"
	"github.com/allisson/tokenize/internal/app"
	"github.com/allisson/tokenize/internal/config"
	tokenizationUseCase "github.com/allisson/tokenize/internal/tokenization/usecase"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "token",
		Aliases:  []string{"t"},
		Required: true,
		Usage:    "Token issued by the vault",
	}
}

// gatewayAction opens the gateway from the environment configuration and runs fn with it.
func gatewayAction(
	fn func(ctx context.Context, cmd *cli.Command, container *app.Container, gateway tokenizationUseCase.Gateway) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		container := app.NewContainer(cfg)
		defer func() { _ = container.Shutdown(ctx) }()

		gateway, err := container.Gateway(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, container, gateway)
	}
}

func tokenOptions(cmd *cli.Command) commands.TokenOptions {
	return commands.TokenOptions{
		Format: cmd.String("format"),
		IO:     commands.DefaultIO(),
	}
}

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "store",
			Usage: "Tokenize data and print the token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "data",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Data to tokenize",
				},
				&cli.BoolFlag{
					Name:  "json",
					Value: false,
					Usage: "Parse data as a JSON document",
				},
				&cli.StringFlag{
					Name:    "scheme",
					Aliases: []string{"s"},
					Value:   "",
					Usage:   "Token scheme (defaults to GUID)",
				},
				formatFlag(),
			},
			Action: gatewayAction(
				func(ctx context.Context, cmd *cli.Command, container *app.Container, gateway tokenizationUseCase.Gateway) error {
					return commands.RunStore(
						ctx,
						gateway,
						container.Logger(),
						cmd.String("data"),
						cmd.Bool("json"),
						cmd.String("scheme"),
						tokenOptions(cmd),
					)
				},
			),
		},
		{
			Name:  "get",
			Usage: "Detokenize a token and print the stored data",
			Flags: []cli.Flag{tokenFlag(), formatFlag()},
			Action: gatewayAction(
				func(ctx context.Context, cmd *cli.Command, container *app.Container, gateway tokenizationUseCase.Gateway) error {
					return commands.RunGet(ctx, gateway, container.Logger(), cmd.String("token"), tokenOptions(cmd))
				},
			),
		},
		{
			Name:  "validate",
			Usage: "Check whether the vault holds a token",
			Flags: []cli.Flag{tokenFlag(), formatFlag()},
			Action: gatewayAction(
				func(ctx context.Context, cmd *cli.Command, container *app.Container, gateway tokenizationUseCase.Gateway) error {
					return commands.RunValidate(ctx, gateway, container.Logger(), cmd.String("token"), tokenOptions(cmd))
				},
			),
		},
		{
			Name:  "delete",
			Usage: "Delete a token from the vault",
			Flags: []cli.Flag{tokenFlag(), formatFlag()},
			Action: gatewayAction(
				func(ctx context.Context, cmd *cli.Command, container *app.Container, gateway tokenizationUseCase.Gateway) error {
					return commands.RunDelete(ctx, gateway, container.Logger(), cmd.String("token"), tokenOptions(cmd))
				},
			),
		},
		{
			Name:  "usage-stats",
			Usage: "Print the account usage report and token count",
			Flags: []cli.Flag{formatFlag()},
			Action: gatewayAction(
				func(ctx context.Context, cmd *cli.Command, container *app.Container, gateway tokenizationUseCase.Gateway) error {
					return commands.RunUsageStats(ctx, gateway, container.Logger(), tokenOptions(cmd))
				},
			),
		},
	}
}
