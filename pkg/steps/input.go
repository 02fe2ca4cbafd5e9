package steps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidInput is returned when step data does not match the step's
// expected fields.
var ErrInvalidInput = errors.New("invalid step input")

// ValidateInput checks data against the expected fields of def: required
// fields must be present and non-null, and present fields must have a
// compatible JSON type.
func ValidateInput(def models.StepDefinition, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(InputSchema(def)),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to validate step input: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
}

// InputSchema derives a JSON schema from the expected fields of def.
func InputSchema(def models.StepDefinition) map[string]any {
	properties := make(map[string]any, len(def.ExpectedFields))
	required := make([]string, 0, len(def.ExpectedFields))

	for _, field := range def.ExpectedFields {
		types := jsonTypes(field.Type)

		if field.Optionality == models.Required {
			required = append(required, field.Key)
		} else {
			types = append(types, "null")
		}

		properties[field.Key] = map[string]any{
			"type":        types,
			"description": field.Description,
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

func jsonTypes(t models.FieldType) []string {
	switch t {
	case models.FieldTypeBoolean:
		return []string{"boolean"}
	case models.FieldTypeNumeric:
		return []string{"number"}
	case models.FieldTypeMap:
		return []string{"object"}
	case models.FieldTypeAnyScalar:
		return []string{"string", "number", "boolean"}
	case models.FieldTypeAnyNonScalar:
		return []string{"object", "array"}
	default:
		return []string{"string"}
	}
}

// StringValue returns data[key] when it is a string.
func StringValue(data map[string]any, key string) string {
	s, _ := data[key].(string)

	return s
}
