// Package protocol defines the contracts between the cog dispatcher, its steps
// and the upstream CRM client.
package protocol

import (
	"context"

	"github.com/dukex/iterable-cog/pkg/models"
)

// Step is one self-describing CRM operation.
type Step interface {
	// Definition returns the static metadata of the step. It must not depend on
	// the injected client.
	Definition() models.StepDefinition

	// Execute runs the step. Every failure is reported through the returned
	// response; Execute never returns nil.
	Execute(ctx context.Context, step models.Step) *models.RunStepResponse
}

// StepFactory creates a step bound to an authenticated client. Factories must
// accept a nil client when only the definition is needed.
type StepFactory func(client ContactRepository) Step
