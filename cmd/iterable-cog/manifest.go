package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dukex/iterable-cog/pkg/cmd"
	"github.com/dukex/iterable-cog/pkg/cog"
	"github.com/dukex/iterable-cog/pkg/iterable"
	cli "github.com/urfave/cli/v3"
)

func manifestCommand() *cli.Command {
	return &cli.Command{
		Name:  "manifest",
		Usage: "Print the cog manifest as JSON",
		Action: func(_ context.Context, command *cli.Command) error {
			logger := slog.New(slog.DiscardHandler)

			c, err := cog.New(cmd.NewRegistry(logger), cmd.NewClientFactory(iterable.DefaultConfig(), logger), logger)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(command.Root().Writer)
			encoder.SetIndent("", "  ")

			return encoder.Encode(c.GetManifest())
		},
	}
}
