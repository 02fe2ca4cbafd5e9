package steps

import (
	"regexp"
	"time"

	"github.com/dukex/iterable-cog/pkg/models"
)

const (
	upstreamDateLayout = "2006-01-02 15:04:05 -07:00"
	isoDateLayout      = "2006-01-02T15:04:05.000Z"
)

var upstreamDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} [+-]\d{2}:\d{2}$`)

// KeyValueRecord builds a key/value record from fields. Non-scalar values are
// dropped, order is kept, and upstream date strings become ISO-8601 UTC.
func KeyValueRecord(id string, name string, fields models.Fields) models.StepRecord {
	kept := make(models.Fields, 0, len(fields))

	for _, field := range fields {
		if !isScalar(field.Value) {
			continue
		}

		kept = append(kept, models.Field{Key: field.Key, Value: normalizeDate(field.Value)})
	}

	return models.StepRecord{
		ID:       id,
		Name:     name,
		KeyValue: kept,
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, map[string]any, []any, models.Fields:
		return false
	}

	return true
}

func normalizeDate(v any) any {
	s, ok := v.(string)
	if !ok || !upstreamDatePattern.MatchString(s) {
		return v
	}

	t, err := time.Parse(upstreamDateLayout, s)
	if err != nil {
		return v
	}

	return t.UTC().Format(isoDateLayout)
}

// ContactRecordFields are the fields every contact record is guaranteed to carry.
func ContactRecordFields() []models.FieldDefinition {
	return []models.FieldDefinition{
		{Key: "email", Type: models.FieldTypeEmail, Description: "Contact's Email Address"},
		{Key: "signupDate", Type: models.FieldTypeDatetime, Description: "The date/time the Contact was created"},
		{Key: "profileUpdatedAt", Type: models.FieldTypeDatetime, Description: "The date/time the Contact was updated"},
	}
}
