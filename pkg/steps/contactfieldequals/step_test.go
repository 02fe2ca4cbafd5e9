package contactfieldequals

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/dukex/iterable-cog/pkg/mocks"
	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const email = "anything@example.com"

func user() *models.UserResponse {
	return &models.UserResponse{User: &models.Contact{
		Email: email,
		DataFields: models.Fields{
			{Key: "email", Value: email},
			{Key: "firstName", Value: "Atoma"},
			{Key: "score", Value: float64(42)},
		},
	}}
}

func clientReturning(resp *models.UserResponse, err error) *mocks.MockContactRepository {
	client := &mocks.MockContactRepository{}
	client.On("GetContactByEmail", mock.Anything, email).Return(resp, err)

	return client
}

func data(field, operator string, expected any) map[string]any {
	d := map[string]any{
		"email": email,
		"field": field,
	}

	if operator != "" {
		d["operator"] = operator
	}

	if expected != nil {
		d["expectedValue"] = expected
	}

	return d
}

func TestDefinition(t *testing.T) {
	def := New(nil).Definition()

	assert.Equal(t, "ContactFieldEquals", def.StepID)
	assert.Equal(t, models.StepTypeValidation, def.Type)

	re := regexp.MustCompile(def.Expression)
	match := re.FindStringSubmatch("the firstName field on iterable contact a@b.com should be Atoma")
	require.NotNil(t, match)
	assert.Equal(t, "firstName", match[re.SubexpIndex("field")])
	assert.Equal(t, "a@b.com", match[re.SubexpIndex("email")])
	assert.Equal(t, "be", match[re.SubexpIndex("operator")])
	assert.Equal(t, "Atoma", match[re.SubexpIndex("expectedValue")])

	keys := make([]string, 0, len(def.ExpectedFields))
	for _, field := range def.ExpectedFields {
		keys = append(keys, field.Key)
	}

	assert.Equal(t, []string{"email", "field", "operator", "expectedValue"}, keys)
}

func TestExecute_Comparisons(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		operator string
		expected any
		outcome  models.Outcome
	}{
		{"equal", "firstName", "be", "Atoma", models.OutcomePassed},
		{"default operator", "firstName", "", "Atoma", models.OutcomePassed},
		{"not equal", "firstName", "be", "Someone", models.OutcomeFailed},
		{"contain", "firstName", "contain", "tom", models.OutcomePassed},
		{"greater than", "score", "be greater than", "41", models.OutcomePassed},
		{"less than", "score", "be less than", float64(10), models.OutcomeFailed},
		{"one of", "firstName", "be one of", "Bob, Atoma", models.OutcomePassed},
		{"set", "firstName", "be set", nil, models.OutcomePassed},
		{"missing field set", "age", "be set", nil, models.OutcomeFailed},
		{"missing field not set", "age", "not be set", nil, models.OutcomePassed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := clientReturning(user(), nil)

			resp := New(client).Execute(context.Background(), models.Step{Data: data(tt.field, tt.operator, tt.expected)})

			assert.Equal(t, tt.outcome, resp.Outcome, resp.Message())
			require.Len(t, resp.Records, 1)
			assert.Equal(t, RecordID, resp.Records[0].ID)
		})
	}
}

func TestExecute_UnknownOperator(t *testing.T) {
	client := &mocks.MockContactRepository{}

	resp := New(client).Execute(context.Background(), models.Step{Data: data("firstName", "resemble", "Atoma")})

	assert.Equal(t, models.OutcomeError, resp.Outcome)
	assert.Contains(t, resp.Message(), "be greater than")
	client.AssertNotCalled(t, "GetContactByEmail", mock.Anything, mock.Anything)
}

func TestExecute_NonNumericOperand(t *testing.T) {
	client := clientReturning(user(), nil)

	resp := New(client).Execute(context.Background(), models.Step{Data: data("firstName", "be greater than", "3")})

	assert.Equal(t, models.OutcomeError, resp.Outcome)
}

func TestExecute_MissingExpectedValue(t *testing.T) {
	client := clientReturning(user(), nil)

	resp := New(client).Execute(context.Background(), models.Step{Data: data("firstName", "be", nil)})

	assert.Equal(t, models.OutcomeError, resp.Outcome)
}

func TestExecute_ContactNotFound(t *testing.T) {
	client := clientReturning(&models.UserResponse{}, nil)

	resp := New(client).Execute(context.Background(), models.Step{Data: data("firstName", "be", "Atoma")})

	assert.Equal(t, models.OutcomeFailed, resp.Outcome)
	assert.Empty(t, resp.Records)
}

func TestExecute_UpstreamErrors(t *testing.T) {
	unauthorized := New(clientReturning(nil, &mocks.HTTPStatusError{Status: 401})).
		Execute(context.Background(), models.Step{Data: data("firstName", "be", "Atoma")})
	assert.Equal(t, models.OutcomeFailed, unauthorized.Outcome)
	assert.Equal(t, "Credentials are invalid. Please check them and try again.", unauthorized.Message())

	broken := New(clientReturning(nil, errors.New("boom"))).
		Execute(context.Background(), models.Step{Data: data("firstName", "be", "Atoma")})
	assert.Equal(t, models.OutcomeError, broken.Outcome)
	assert.Equal(t, "There was an error during validation: boom", broken.Message())
}

func TestExecute_Idempotent(t *testing.T) {
	client := clientReturning(user(), nil)
	step := New(client)
	req := models.Step{Data: data("firstName", "be", "Atoma")}

	first := step.Execute(context.Background(), req)
	second := step.Execute(context.Background(), req)

	assert.Equal(t, first, second)
}
