package createorupdatecontact

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/dukex/iterable-cog/pkg/mocks"
	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const email = "bob@example.com"

var fastPolicy = retry.Policy{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     2 * time.Millisecond,
	Multiplier:   2,
}

func contactData() map[string]any {
	return map[string]any{
		"contact": map[string]any{
			"email":     email,
			"firstName": "Bob",
		},
	}
}

func expectedContact() models.Contact {
	return models.Contact{
		Email:      email,
		DataFields: models.Fields{{Key: "firstName", Value: "Bob"}},
	}
}

func storedUser() *models.UserResponse {
	return &models.UserResponse{User: &models.Contact{
		Email: email,
		DataFields: models.Fields{
			{Key: "email", Value: email},
			{Key: "firstName", Value: "Bob"},
			{Key: "signupDate", Value: "2021-06-01 10:00:00 +02:00"},
		},
	}}
}

func TestDefinition(t *testing.T) {
	def := New(nil).Definition()

	assert.Equal(t, "CreateOrUpdateContact", def.StepID)
	assert.Equal(t, models.StepTypeAction, def.Type)
	assert.Equal(t, "create or update an iterable contact", def.Expression)

	i := slices.IndexFunc(def.ExpectedFields, func(f models.FieldDefinition) bool { return f.Key == "contact" })
	require.GreaterOrEqual(t, i, 0)

	field := def.ExpectedFields[i]
	assert.Equal(t, models.FieldTypeMap, field.Type)
	assert.Equal(t, models.Required, field.Optionality)
}

func TestExecute_Created(t *testing.T) {
	client := &mocks.MockContactRepository{}
	client.On("CreateOrUpdateContact", mock.Anything, expectedContact()).
		Return(&models.APIResponse{Code: models.CodeSuccess}, nil)
	client.On("GetContactByEmail", mock.Anything, email).Return(storedUser(), nil)

	resp := NewWithPolicy(client, fastPolicy).Execute(context.Background(), models.Step{Data: contactData()})

	require.Equal(t, models.OutcomePassed, resp.Outcome)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, RecordID, resp.Records[0].ID)

	signup, ok := resp.Records[0].KeyValue.Get("signupDate")
	require.True(t, ok)
	assert.Equal(t, "2021-06-01T08:00:00.000Z", signup)
	client.AssertExpectations(t)
}

func TestExecute_WaitsForProfile(t *testing.T) {
	client := &mocks.MockContactRepository{}
	client.On("CreateOrUpdateContact", mock.Anything, mock.Anything).
		Return(&models.APIResponse{Code: models.CodeSuccess}, nil)
	client.On("GetContactByEmail", mock.Anything, email).Return(&models.UserResponse{}, nil).Once()
	client.On("GetContactByEmail", mock.Anything, email).
		Return(&models.UserResponse{User: &models.Contact{Email: email}}, nil).Once()
	client.On("GetContactByEmail", mock.Anything, email).Return(storedUser(), nil).Once()

	resp := NewWithPolicy(client, fastPolicy).Execute(context.Background(), models.Step{Data: contactData()})

	assert.Equal(t, models.OutcomePassed, resp.Outcome)
	client.AssertNumberOfCalls(t, "GetContactByEmail", 3)
}

func TestExecute_ProfileNeverAppears(t *testing.T) {
	client := &mocks.MockContactRepository{}
	client.On("CreateOrUpdateContact", mock.Anything, mock.Anything).
		Return(&models.APIResponse{Code: models.CodeSuccess}, nil)
	client.On("GetContactByEmail", mock.Anything, email).Return(&models.UserResponse{}, nil)

	resp := NewWithPolicy(client, fastPolicy).Execute(context.Background(), models.Step{Data: contactData()})

	assert.Equal(t, models.OutcomeError, resp.Outcome)
	client.AssertNumberOfCalls(t, "GetContactByEmail", 3)
}

func TestExecute_MissingEmail(t *testing.T) {
	client := &mocks.MockContactRepository{}

	resp := New(client).Execute(context.Background(), models.Step{Data: map[string]any{
		"contact": map[string]any{"name": "Bob"},
	}})

	assert.Equal(t, models.OutcomeError, resp.Outcome)
	assert.Equal(t, "An email address must be provided in order to create an Iterable contact", resp.Message())
	client.AssertNotCalled(t, "CreateOrUpdateContact", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "GetContactByEmail", mock.Anything, mock.Anything)
}

func TestExecute_MissingContact(t *testing.T) {
	client := &mocks.MockContactRepository{}

	resp := New(client).Execute(context.Background(), models.Step{Data: map[string]any{}})

	assert.Equal(t, models.OutcomeError, resp.Outcome)
	client.AssertNotCalled(t, "CreateOrUpdateContact", mock.Anything, mock.Anything)
}

func TestExecute_Rejected(t *testing.T) {
	client := &mocks.MockContactRepository{}
	client.On("CreateOrUpdateContact", mock.Anything, mock.Anything).
		Return(&models.APIResponse{Code: "InvalidEmailAddressError", Msg: "Invalid email"}, nil)

	resp := NewWithPolicy(client, fastPolicy).Execute(context.Background(), models.Step{Data: contactData()})

	assert.Equal(t, models.OutcomeFailed, resp.Outcome)
	assert.Equal(t, "Failed to create contact: Invalid email", resp.Message())
	client.AssertNotCalled(t, "GetContactByEmail", mock.Anything, mock.Anything)
}

func TestExecute_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected models.Outcome
		message  string
	}{
		{
			name:     "unauthorized",
			err:      &mocks.HTTPStatusError{Status: 401},
			expected: models.OutcomeFailed,
			message:  "Credentials are invalid. Please check them and try again.",
		},
		{
			name:     "transport error",
			err:      errors.New("anyMessage"),
			expected: models.OutcomeError,
			message:  "There was an error creating the contact: anyMessage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mocks.MockContactRepository{}
			client.On("CreateOrUpdateContact", mock.Anything, mock.Anything).Return(nil, tt.err)

			resp := NewWithPolicy(client, fastPolicy).Execute(context.Background(), models.Step{Data: contactData()})

			assert.Equal(t, tt.expected, resp.Outcome)
			assert.Equal(t, tt.message, resp.Message())
		})
	}
}

func TestExecute_ConfirmingReadFails(t *testing.T) {
	client := &mocks.MockContactRepository{}
	client.On("CreateOrUpdateContact", mock.Anything, mock.Anything).
		Return(&models.APIResponse{Code: models.CodeSuccess}, nil)
	client.On("GetContactByEmail", mock.Anything, email).Return(nil, &mocks.HTTPStatusError{Status: 401})

	resp := NewWithPolicy(client, fastPolicy).Execute(context.Background(), models.Step{Data: contactData()})

	assert.Equal(t, models.OutcomeFailed, resp.Outcome)
	client.AssertNumberOfCalls(t, "GetContactByEmail", 1)
}

func TestExecute_Idempotent(t *testing.T) {
	client := &mocks.MockContactRepository{}
	client.On("CreateOrUpdateContact", mock.Anything, expectedContact()).
		Return(&models.APIResponse{Code: models.CodeSuccess}, nil).Twice()
	client.On("GetContactByEmail", mock.Anything, email).Return(storedUser(), nil).Twice()

	step := NewWithPolicy(client, fastPolicy)

	first := step.Execute(context.Background(), models.Step{Data: contactData()})
	second := step.Execute(context.Background(), models.Step{Data: contactData()})

	require.Equal(t, models.OutcomePassed, first.Outcome)
	require.Equal(t, models.OutcomePassed, second.Outcome)
	require.Len(t, first.Records, 1)
	require.Len(t, second.Records, 1)
	assert.Equal(t, first.Records[0].KeyValue.Keys(), second.Records[0].KeyValue.Keys())
	assert.Equal(t, first, second)
	client.AssertExpectations(t)
}
