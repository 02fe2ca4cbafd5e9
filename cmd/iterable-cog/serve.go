package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dukex/iterable-cog/pkg/cmd"
	"github.com/dukex/iterable-cog/pkg/cog"
	"github.com/dukex/iterable-cog/pkg/eventbus"
	"github.com/dukex/iterable-cog/pkg/events"
	"github.com/dukex/iterable-cog/pkg/iterable"
	"github.com/dukex/iterable-cog/pkg/log"
	"github.com/dukex/iterable-cog/pkg/otelhelper"
	"github.com/dukex/iterable-cog/pkg/rpc"
	"github.com/dukex/iterable-cog/pkg/web"
	"github.com/gofiber/fiber/v3"
	cli "github.com/urfave/cli/v3"
	"google.golang.org/grpc"
)

const serviceName = "iterable-cog"

func serve(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule(serviceName)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "Initializing Iterable cog")

	opts := []cog.Option{}

	if command.Bool("otel-enabled") {
		tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}

		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
			}
		}()

		opts = append(opts, cog.WithTracer(tracer))
	}

	bus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := bus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	opts = append(opts, cog.WithPublisher(bus))

	if command.Bool("log-events") {
		if err := logEvents(ctx, bus, logger); err != nil {
			return err
		}
	}

	store, err := cmd.NewCacheStore(ctx, command.String("redis-url"), logger)
	if err != nil {
		return err
	}

	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.ErrorContext(ctx, "Failed to close cache", "error", err)
			}
		}()

		opts = append(opts, cog.WithCache(store, command.Duration("cache-ttl")))
	}

	config := iterable.DefaultConfig()
	config.BaseURL = command.String("iterable-base-url")

	c, err := cog.New(cmd.NewRegistry(logger), cmd.NewClientFactory(config, logger), logger, opts...)
	if err != nil {
		return err
	}

	return run(ctx, logger, c, int(command.Int("grpc-port")), int(command.Int("http-port")))
}

func run(ctx context.Context, logger *slog.Logger, c *cog.Cog, grpcPort int, httpPort int) error {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", grpcPort, err)
	}

	grpcServer := rpc.NewGRPCServer(rpc.NewServer(c, logger))
	errCh := make(chan error, 2)

	go func() {
		logger.InfoContext(ctx, "Serving gRPC", "port", grpcPort)

		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var app *fiber.App

	if httpPort > 0 {
		app = web.NewApp(c)

		go func() {
			logger.InfoContext(ctx, "Serving HTTP", "port", httpPort)

			if err := app.Listen(":" + strconv.Itoa(httpPort)); err != nil {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutting down")
	case err = <-errCh:
		logger.ErrorContext(ctx, "Server failed", "error", err)
	}

	grpcServer.GracefulStop()

	if app != nil {
		if shutdownErr := app.Shutdown(); shutdownErr != nil {
			logger.ErrorContext(ctx, "Failed to shutdown HTTP server", "error", shutdownErr)
		}
	}

	return err
}

func logEvents(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) error {
	err := bus.Handle(events.StepFinishedEvent, func(ctx context.Context, event any) error {
		finished, ok := event.(*events.StepFinished)
		if !ok {
			return nil
		}

		logger.InfoContext(ctx, "Step event",
			"step_id", finished.StepID,
			"request_id", finished.RequestID,
			"outcome", finished.Outcome,
			"duration", finished.Duration,
		)

		return nil
	})
	if err != nil {
		return err
	}

	if err := bus.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to step events: %w", err)
	}

	return nil
}
