// Package cog dispatches step requests to the registered steps.
package cog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dukex/iterable-cog/pkg/cache"
	"github.com/dukex/iterable-cog/pkg/eventbus"
	"github.com/dukex/iterable-cog/pkg/events"
	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/otelhelper"
	"github.com/dukex/iterable-cog/pkg/protocol"
	"github.com/dukex/iterable-cog/pkg/registry"
	"github.com/dukex/iterable-cog/pkg/steps"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "iterable-cog"

// ErrMalformedRequest marks a streamed request that could not be decoded.
// The stream answers it with an ERROR outcome and keeps reading.
var ErrMalformedRequest = errors.New("malformed step request")

// StepStream is one side of a bidirectional step stream.
type StepStream interface {
	Recv() (*models.RunStepRequest, error)
	Send(resp *models.RunStepResponse) error
}

type Option func(*Cog)

// WithCache wraps every request's client with a read-through cache backed by store.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(c *Cog) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(c *Cog) {
		c.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Cog) {
		c.tracer = tracer
	}
}

func WithInstanceID(id string) Option {
	return func(c *Cog) {
		c.instanceID = id
	}
}

type Cog struct {
	registry   *registry.Registry
	clients    protocol.ClientFactory
	cache      cache.Store
	cacheTTL   time.Duration
	publisher  eventbus.EventPublisher
	tracer     trace.Tracer
	instanceID string
	manifest   models.CogManifest
	logger     *slog.Logger
}

func New(reg *registry.Registry, clients protocol.ClientFactory, logger *slog.Logger, opts ...Option) (*Cog, error) {
	manifest, err := LoadManifest()
	if err != nil {
		return nil, err
	}

	c := &Cog{
		registry:   reg,
		clients:    clients,
		cacheTTL:   cache.DefaultTTL,
		publisher:  eventbus.Nop{},
		tracer:     otelhelper.Tracer(tracerName),
		instanceID: uuid.NewString(),
		manifest:   manifest,
		logger:     logger.With("module", "cog"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GetManifest describes the cog and its steps in registration order.
func (c *Cog) GetManifest() models.CogManifest {
	manifest := c.manifest
	manifest.AuthFields = append([]models.FieldDefinition(nil), c.manifest.AuthFields...)
	manifest.StepDefinitions = c.registry.Definitions()

	return manifest
}

// RunStep runs a single step. It always returns a response; failures of any
// kind are reported through the outcome.
func (c *Cog) RunStep(ctx context.Context, req *models.RunStepRequest, auth models.AuthMetadata) *models.RunStepResponse {
	if req == nil {
		return steps.Error("A step request is required", nil)
	}

	request := *req
	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}

	stepID := request.Step.StepID
	start := time.Now()

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "cog.run_step",
		attribute.String(otelhelper.StepIDKey, stepID),
		attribute.String(otelhelper.RequestIDKey, request.RequestID),
		attribute.String(otelhelper.ScenarioIDKey, request.ScenarioID),
		attribute.String(otelhelper.RequestorIDKey, request.RequestorID),
	)
	defer span.End()

	logger := c.logger.With(
		"step_id", stepID,
		"request_id", request.RequestID,
		"scenario_id", request.ScenarioID,
	)

	resp := c.dispatch(ctx, logger, &request, auth)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.String(otelhelper.OutcomeKey, string(resp.Outcome)))

	if resp.Outcome == models.OutcomeError {
		otelhelper.SetError(span, errors.New(resp.Message()))
	}

	logger.InfoContext(ctx, "Step finished", "outcome", resp.Outcome, "duration", elapsed)

	c.publish(ctx, logger, &request, resp, elapsed)

	return resp
}

func (c *Cog) dispatch(
	ctx context.Context,
	logger *slog.Logger,
	req *models.RunStepRequest,
	auth models.AuthMetadata,
) (resp *models.RunStepResponse) {
	stepID := req.Step.StepID

	if !c.registry.Has(stepID) {
		logger.WarnContext(ctx, "Unknown step requested")

		return steps.Error("Unknown step %s", []any{stepID})
	}

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Step panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))

			resp = steps.Error("An unexpected error occurred while running step %s", []any{stepID})
		}
	}()

	step, err := c.registry.Create(stepID, c.client(auth, req.IDs()))
	if err != nil {
		return steps.Error("Unknown step %s", []any{stepID})
	}

	resp = step.Execute(ctx, req.Step)
	if resp == nil {
		return steps.Error("Step %s returned no response", []any{stepID})
	}

	return resp
}

func (c *Cog) client(auth models.AuthMetadata, ids models.IDMap) protocol.ContactRepository {
	client := c.clients(auth)
	if c.cache == nil {
		return client
	}

	return cache.NewCachingClient(client, c.cache, ids, c.cacheTTL, c.logger)
}

func (c *Cog) publish(
	ctx context.Context,
	logger *slog.Logger,
	req *models.RunStepRequest,
	resp *models.RunStepResponse,
	elapsed time.Duration,
) {
	event := events.StepFinished{
		BaseEvent:     events.NewBaseEvent(events.StepFinishedEvent, c.instanceID),
		StepID:        req.Step.StepID,
		RequestID:     req.RequestID,
		ScenarioID:    req.ScenarioID,
		RequestorID:   req.RequestorID,
		Outcome:       string(resp.Outcome),
		MessageFormat: resp.MessageFormat,
		Duration:      elapsed,
	}

	if err := c.publisher.Publish(ctx, req.RequestID, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish step event", "error", err)
	}
}

// RunSteps serves a step stream until the client closes its side. Requests
// run concurrently and each response is sent as soon as its step completes.
func (c *Cog) RunSteps(ctx context.Context, stream StepStream, auth models.AuthMetadata) error {
	var (
		wg      sync.WaitGroup
		sendMu  sync.Mutex
		sendErr error
	)

	send := func(resp *models.RunStepResponse) {
		sendMu.Lock()
		defer sendMu.Unlock()

		if sendErr != nil {
			return
		}

		if err := stream.Send(resp); err != nil {
			sendErr = err
		}
	}

	var recvErr error

	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}

		if errors.Is(err, ErrMalformedRequest) {
			c.logger.WarnContext(ctx, "Skipping malformed step request", "error", err)
			send(steps.Error("Invalid step request: %s", []any{err.Error()}))

			continue
		}

		if err != nil {
			recvErr = err

			break
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			send(c.RunStep(ctx, req, auth))
		}()
	}

	wg.Wait()

	if recvErr != nil {
		return fmt.Errorf("failed to receive step request: %w", recvErr)
	}

	if sendErr != nil {
		return fmt.Errorf("failed to send step response: %w", sendErr)
	}

	return nil
}
