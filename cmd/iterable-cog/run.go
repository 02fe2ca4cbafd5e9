package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/rpc"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func runStepCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Run a step against a running cog",
		ArgsUsage: "<step-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "Address of the cog gRPC server",
				Value:   fmt.Sprintf("localhost:%d", defaultGRPCPort),
				Sources: cli.EnvVars("COG_ADDRESS"),
			},
			&cli.StringFlag{
				Name:     "api-key",
				Usage:    "Iterable API key",
				Required: true,
				Sources:  cli.EnvVars("ITERABLE_API_KEY"),
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Step data as a JSON object",
				Value: "{}",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the step",
				Value: time.Minute,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			stepID := command.Args().First()
			if stepID == "" {
				return fmt.Errorf("a step id is required")
			}

			req, err := buildRequest(stepID, command.String("data"))
			if err != nil {
				return err
			}

			conn, err := grpc.NewClient(command.String("address"), grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to connect to cog: %w", err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(ctx, command.Duration("timeout"))
			defer cancel()

			ctx = rpc.WithAuth(ctx, models.AuthMetadata{models.AuthFieldAPIKey: command.String("api-key")})

			resp, err := rpc.NewClient(conn).RunStep(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to run step: %w", err)
			}

			_, err = fmt.Fprintf(command.Root().Writer, "%s: %s\n", resp.Outcome, resp.Message())

			return err
		},
	}
}

func buildRequest(stepID string, data string) (*models.RunStepRequest, error) {
	var stepData map[string]any

	if err := json.Unmarshal([]byte(data), &stepData); err != nil {
		return nil, fmt.Errorf("invalid step data: %w", err)
	}

	return &models.RunStepRequest{
		Step:      models.Step{StepID: stepID, Data: stepData},
		RequestID: uuid.NewString(),
	}, nil
}
