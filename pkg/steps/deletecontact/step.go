// Package deletecontact provides the step that deletes an Iterable contact.
package deletecontact

import (
	"context"

	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/protocol"
	"github.com/dukex/iterable-cog/pkg/steps"
)

const ID = "DeleteContact"

type Step struct {
	client protocol.ContactRepository
}

func New(client protocol.ContactRepository) protocol.Step {
	return &Step{client: client}
}

func (s *Step) Definition() models.StepDefinition {
	return models.StepDefinition{
		StepID:     ID,
		Name:       "Delete an Iterable Contact",
		Type:       models.StepTypeAction,
		Expression: `delete the (?<email>.+) iterable contact`,
		ExpectedFields: []models.FieldDefinition{
			{
				Key:         "email",
				Type:        models.FieldTypeEmail,
				Optionality: models.Required,
				Description: "Contact's email address",
			},
		},
	}
}

// Execute looks the contact up first so that deleting an unknown contact is a
// failure rather than an upstream error.
func (s *Step) Execute(ctx context.Context, step models.Step) *models.RunStepResponse {
	if err := steps.ValidateInput(s.Definition(), step.Data); err != nil {
		return steps.Error("Unable to delete contact: %s", []any{err.Error()})
	}

	email := steps.StringValue(step.Data, "email")

	found, err := s.client.GetContactByEmail(ctx, email)
	if err != nil {
		return steps.UpstreamError(err, "There was an error deleting the contact: %s")
	}

	if !found.Found() {
		return steps.Fail("Contact with email %s does not exist", []any{email})
	}

	resp, err := s.client.DeleteContactByEmail(ctx, email)
	if err != nil {
		return steps.UpstreamError(err, "There was an error deleting the contact: %s")
	}

	if !resp.Succeeded() {
		return steps.Error("Failed to delete contact: %s", []any{steps.Diagnostics(resp)})
	}

	return steps.Pass("Successfully deleted contact %s", []any{email})
}
