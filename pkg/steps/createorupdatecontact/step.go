// Package createorupdatecontact provides the step that upserts an Iterable
// contact and reports the profile the upstream API ends up with.
package createorupdatecontact

import (
	"context"

	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/protocol"
	"github.com/dukex/iterable-cog/pkg/retry"
	"github.com/dukex/iterable-cog/pkg/steps"
)

const (
	ID       = "CreateOrUpdateContact"
	RecordID = "contact"
)

type Step struct {
	client protocol.ContactRepository
	policy retry.Policy
}

func New(client protocol.ContactRepository) protocol.Step {
	return NewWithPolicy(client, retry.DefaultPolicy())
}

// NewWithPolicy sets the policy used while waiting for the written contact to
// become readable.
func NewWithPolicy(client protocol.ContactRepository, policy retry.Policy) protocol.Step {
	return &Step{client: client, policy: policy}
}

func (s *Step) Definition() models.StepDefinition {
	return models.StepDefinition{
		StepID:     ID,
		Name:       "Create or update an Iterable Contact",
		Type:       models.StepTypeAction,
		Expression: `create or update an iterable contact`,
		ExpectedFields: []models.FieldDefinition{
			{
				Key:         "contact",
				Type:        models.FieldTypeMap,
				Optionality: models.Required,
				Description: "Where keys represent contact profile field names as represented in the Iterable API (including email).",
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
		return steps.Error("Unable to create contact: %s", []any{err.Error()})
	}

	profile, _ := step.Data["contact"].(map[string]any)

	email, _ := profile["email"].(string)
	if email == "" {
		return steps.Error("An email address must be provided in order to create an Iterable contact", nil)
	}

	dataFields := make(models.Fields, 0, len(profile))

	for _, field := range models.FieldsFromMap(profile) {
		if field.Key != "email" {
			dataFields = append(dataFields, field)
		}
	}

	resp, err := s.client.CreateOrUpdateContact(ctx, models.Contact{Email: email, DataFields: dataFields})
	if err != nil {
		return steps.UpstreamError(err, "There was an error creating the contact: %s")
	}

	if !resp.Succeeded() {
		return steps.Fail("Failed to create contact: %s", []any{steps.Diagnostics(resp)})
	}

	confirmed, err := retry.Until(ctx, s.policy, func(ctx context.Context) (*models.UserResponse, error) {
		return s.client.GetContactByEmail(ctx, email)
	}, hasProfile)
	if err != nil {
		return steps.UpstreamError(err, "There was an error confirming the created contact: %s")
	}

	record := steps.KeyValueRecord(RecordID, "Contact", confirmed.User.DataFields)

	return steps.Pass("Successfully created or updated contact %s", []any{email}, record)
}

// hasProfile reports whether the upstream read reflects the write yet.
func hasProfile(resp *models.UserResponse) bool {
	return resp.Found() && len(resp.User.DataFields) > 0
}
