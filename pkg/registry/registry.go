// Package registry maps step ids to the factories that build them.
package registry

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/protocol"
)

var (
	ErrStepNotRegistered = errors.New("step not registered")
	ErrDuplicateStep     = errors.New("step already registered")
)

// Registry is populated once at startup and read concurrently afterwards.
type Registry struct {
	logger      *slog.Logger
	factories   map[string]protocol.StepFactory
	definitions []models.StepDefinition
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:    log,
		factories: make(map[string]protocol.StepFactory),
	}
}

// Register adds a step factory. The step id is read from the definition of a
// step built without a client.
func (r *Registry) Register(factory protocol.StepFactory) error {
	def := factory(nil).Definition()

	if _, ok := r.factories[def.StepID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, def.StepID)
	}

	r.factories[def.StepID] = factory
	r.definitions = append(r.definitions, def)

	r.logger.Debug("Registered step", slog.String("step_id", def.StepID))

	return nil
}

func (r *Registry) Has(stepID string) bool {
	_, ok := r.factories[stepID]

	return ok
}

func (r *Registry) Create(stepID string, client protocol.ContactRepository) (protocol.Step, error) {
	factory, ok := r.factories[stepID]
	if !ok {
		return nil, fmt.Errorf("step ID '%s' not registered: %w", stepID, ErrStepNotRegistered)
	}

	return factory(client), nil
}

// Definitions returns the step definitions in registration order.
func (r *Registry) Definitions() []models.StepDefinition {
	defs := make([]models.StepDefinition, len(r.definitions))
	copy(defs, r.definitions)

	return defs
}
