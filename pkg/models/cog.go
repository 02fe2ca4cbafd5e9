// Package models holds the data types shared by the cog, its steps and its transports.
package models

type StepType string

const (
	StepTypeAction     StepType = "ACTION"
	StepTypeValidation StepType = "VALIDATION"
)

type FieldType string

const (
	FieldTypeString       FieldType = "STRING"
	FieldTypeBoolean      FieldType = "BOOLEAN"
	FieldTypeNumeric      FieldType = "NUMERIC"
	FieldTypeDate         FieldType = "DATE"
	FieldTypeDatetime     FieldType = "DATETIME"
	FieldTypeEmail        FieldType = "EMAIL"
	FieldTypePhone        FieldType = "PHONE"
	FieldTypeURL          FieldType = "URL"
	FieldTypeAnyScalar    FieldType = "ANYSCALAR"
	FieldTypeAnyNonScalar FieldType = "ANYNONSCALAR"
	FieldTypeMap          FieldType = "MAP"
)

type Optionality string

const (
	Required Optionality = "REQUIRED"
	Optional Optionality = "OPTIONAL"
)

type RecordType string

const (
	RecordTypeKeyValue RecordType = "KEYVALUE"
	RecordTypeTable    RecordType = "TABLE"
)

// FieldDefinition describes one input field of a step, one auth field of the
// cog, or one field of an emitted record.
type FieldDefinition struct {
	Key         string      `json:"key"`
	Optionality Optionality `json:"optionality"`
	Type        FieldType   `json:"type"`
	Description string      `json:"description"`
}

// RecordDefinition describes the shape of a record a step may emit. When
// MayHaveMoreFields is set the listed fields are a minimum, not the full set.
type RecordDefinition struct {
	ID                string            `json:"id"`
	Type              RecordType        `json:"type"`
	Fields            []FieldDefinition `json:"fields"`
	MayHaveMoreFields bool              `json:"mayHaveMoreFields"`
}

type StepDefinition struct {
	StepID          string             `json:"stepId"`
	Name            string             `json:"name"`
	Type            StepType           `json:"type"`
	Expression      string             `json:"expression"`
	ExpectedFields  []FieldDefinition  `json:"expectedFields"`
	ExpectedRecords []RecordDefinition `json:"expectedRecords,omitempty"`
}

type CogManifest struct {
	Name            string            `json:"name"            yaml:"name"`
	Label           string            `json:"label"           yaml:"label"`
	Version         string            `json:"version"         yaml:"version"`
	Homepage        string            `json:"homepage"        yaml:"homepage"`
	AuthHelpURL     string            `json:"authHelpUrl"     yaml:"authHelpUrl"`
	AuthFields      []FieldDefinition `json:"authFields"      yaml:"-"`
	StepDefinitions []StepDefinition  `json:"stepDefinitions" yaml:"-"`
}
