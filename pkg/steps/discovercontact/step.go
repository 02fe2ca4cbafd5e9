// Package discovercontact provides the step that reports every scalar profile
// field of an Iterable contact.
package discovercontact

import (
	"context"

	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/protocol"
	"github.com/dukex/iterable-cog/pkg/steps"
)

const (
	ID       = "DiscoverContact"
	RecordID = "discoverContact"
)

type Step struct {
	client protocol.ContactRepository
}

func New(client protocol.ContactRepository) protocol.Step {
	return &Step{client: client}
}

func (s *Step) Definition() models.StepDefinition {
	return models.StepDefinition{
		StepID:     ID,
		Name:       "Discover fields on an Iterable contact",
		Type:       models.StepTypeAction,
		Expression: `discover fields on iterable contact (?<email>.+)`,
		ExpectedFields: []models.FieldDefinition{
			{
				Key:         "email",
				Type:        models.FieldTypeEmail,
				Optionality: models.Required,
				Description: "Contact's email address",
			},
		},
		ExpectedRecords: []models.RecordDefinition{
			{
				ID:                RecordID,
				Type:              models.RecordTypeKeyValue,
				Fields:            steps.ContactRecordFields(),
				MayHaveMoreFields: true,
			},
		},
	}
}

func (s *Step) Execute(ctx context.Context, step models.Step) *models.RunStepResponse {
	if err := steps.ValidateInput(s.Definition(), step.Data); err != nil {
		return steps.Error("Unable to discover contact fields: %s", []any{err.Error()})
	}

	email := steps.StringValue(step.Data, "email")

	resp, err := s.client.GetContactByEmail(ctx, email)
	if err != nil {
		return steps.UpstreamError(err, "There was an error checking the contact: %s")
	}

	if !resp.Found() {
		return steps.Fail("No contact found for email %s", []any{email})
	}

	record := steps.KeyValueRecord(RecordID, "Discovered Contact", resp.User.DataFields)

	return steps.Pass("Successfully discovered fields on contact %s", []any{email}, record)
}
