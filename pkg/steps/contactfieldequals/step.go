// Package contactfieldequals provides the validation step that checks one
// profile field of an Iterable contact.
package contactfieldequals

import (
	"context"
	"errors"

	"github.com/dukex/iterable-cog/pkg/compare"
	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/protocol"
	"github.com/dukex/iterable-cog/pkg/steps"
)

const (
	ID       = "ContactFieldEquals"
	RecordID = "contact"
)

type Step struct {
	client protocol.ContactRepository
}

func New(client protocol.ContactRepository) protocol.Step {
	return &Step{client: client}
}

func (s *Step) Definition() models.StepDefinition {
	return models.StepDefinition{
		StepID: ID,
		Name:   "Check a field on an Iterable Contact",
		Type:   models.StepTypeValidation,
		Expression: `the (?<field>[a-zA-Z0-9_ ]+) field on iterable contact (?<email>.+) should ` +
			`(?<operator>be set|not be set|be less than|be greater than|be one of|be|contain|not be one of|not be|not contain) ?(?<expectedValue>.+)?`,
		ExpectedFields: []models.FieldDefinition{
			{
				Key:         "email",
				Type:        models.FieldTypeEmail,
				Optionality: models.Required,
				Description: "Contact's email address",
			},
			{
				Key:         "field",
				Type:        models.FieldTypeString,
				Optionality: models.Required,
				Description: "Field name to check",
			},
			{
				Key:         "operator",
				Type:        models.FieldTypeString,
				Optionality: models.Optional,
				Description: "Check Logic (be, not be, contain, not contain, be greater than, be less than, be set, not be set, be one of, or not be one of)",
			},
			{
				Key:         "expectedValue",
				Type:        models.FieldTypeAnyScalar,
				Optionality: models.Optional,
				Description: "Expected field value",
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
		return steps.Error("Unable to check contact field: %s", []any{err.Error()})
	}

	email := steps.StringValue(step.Data, "email")
	field := steps.StringValue(step.Data, "field")
	expected := step.Data["expectedValue"]

	operator := steps.StringValue(step.Data, "operator")
	if operator == "" {
		operator = string(compare.OpBe)
	}

	if _, err := compare.ParseOperator(operator); err != nil {
		return comparisonError(err)
	}

	resp, err := s.client.GetContactByEmail(ctx, email)
	if err != nil {
		return steps.UpstreamError(err, "There was an error during validation: %s")
	}

	if !resp.Found() {
		return steps.Fail("No contact found for email %s", []any{email})
	}

	// A field missing from the profile compares as unset.
	actual, _ := resp.User.DataFields.Get(field)

	result, err := compare.Compare(field, operator, actual, expected)
	if err != nil {
		return comparisonError(err)
	}

	record := steps.KeyValueRecord(RecordID, "Contact", resp.User.DataFields)

	if result.Valid {
		return steps.Pass(result.Format, result.Args, record)
	}

	return steps.Fail(result.Format, result.Args, record)
}

func comparisonError(err error) *models.RunStepResponse {
	if errors.Is(err, compare.ErrUnknownOperator) {
		return steps.Error("%s Please provide one of: %s", []any{err.Error(), compare.OperatorList()})
	}

	if errors.Is(err, compare.ErrInvalidOperand) {
		return steps.Error("%s", []any{err.Error()})
	}

	return steps.Error("There was an error during validation: %s", []any{err.Error()})
}
