// Package main provides the entry point for the tokenization gateway CLI.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:     "tokenize",
		Usage:    "Vault-backed tokenization gateway",
		Version:  version,
		Commands: getCommands(version),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
