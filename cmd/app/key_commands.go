package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tokenize/cmd/app/commands"
	"github.com/allisson/tokenize/internal/app"
	"github.com/allisson/tokenize/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-envelope-key",
			Usage: "Generate a local envelope encryption key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Value:   "aes-gcm",
					Usage:   "Encryption algorithm to use (aes-gcm or chacha20-poly1305)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunCreateEnvelopeKey(
					container.Logger(),
					cmd.String("algorithm"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "hash-api-token",
			Usage: "Hash an API token for the clients file (generates one when omitted)",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "token",
					Aliases: []string{"t"},
					Value:   "",
					Usage:   "Plain API token to hash",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunHashAPIToken(
					container.SecretService(),
					container.Logger(),
					cmd.String("token"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
