package main

import (
	"context"
	"os"

	"github.com/dukex/iterable-cog/pkg/cache"
	"github.com/dukex/iterable-cog/pkg/cmd"
	"github.com/dukex/iterable-cog/pkg/iterable"
	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
)

const defaultGRPCPort = 28866

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	err := newCommand().Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "iterable-cog",
		Usage:                 "Serve Iterable contact steps over gRPC",
		EnableShellCompletion: true,
		Flags:                 serveFlags(),
		Action:                serve,
		Commands: []*cli.Command{
			manifestCommand(),
			runStepCommand(),
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "grpc-port",
			Aliases: []string{"p"},
			Usage:   "Port to serve the cog gRPC service on",
			Value:   defaultGRPCPort,
			Sources: cli.EnvVars("PORT"),
		},
		&cli.IntFlag{
			Name:    "http-port",
			Usage:   "Port to serve the HTTP API on (0 disables it)",
			Value:   0,
			Sources: cli.EnvVars("HTTP_PORT"),
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis URL for the contact cache (empty disables caching)",
			Sources: cli.EnvVars("REDIS_URL"),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "How long contact lookups stay cached",
			Value:   cache.DefaultTTL,
			Sources: cli.EnvVars("CACHE_TTL"),
		},
		&cli.StringFlag{
			Name:    "iterable-base-url",
			Usage:   "Base URL of the Iterable API",
			Value:   iterable.DefaultBaseURL,
			Sources: cli.EnvVars("ITERABLE_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus for step events (none, gochannel, kafka)",
			Value:   cmd.EventBusNone,
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "Comma separated Kafka brokers",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.BoolFlag{
			Name:    "log-events",
			Usage:   "Log step events consumed from the event bus",
			Sources: cli.EnvVars("LOG_EVENTS"),
		},
		&cli.BoolFlag{
			Name:    "otel-enabled",
			Usage:   "Export traces over OTLP/HTTP",
			Sources: cli.EnvVars("OTEL_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text, json, tint)",
			Value:   "text",
			Sources: cli.EnvVars("LOG_FORMAT"),
		},
	}
}
