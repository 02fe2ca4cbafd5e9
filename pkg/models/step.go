package models

import (
	"fmt"
	"strings"
)

type Outcome string

const (
	OutcomePassed Outcome = "PASSED"
	OutcomeFailed Outcome = "FAILED"
	OutcomeError  Outcome = "ERROR"
)

// Step is the step invocation carried by a RunStepRequest.
type Step struct {
	StepID string         `json:"stepId" validate:"required"`
	Data   map[string]any `json:"data"`
}

type RunStepRequest struct {
	Step        Step   `json:"step"        validate:"required"`
	RequestID   string `json:"requestId"`
	ScenarioID  string `json:"scenarioId"`
	RequestorID string `json:"requestorId"`
}

// IDs returns the identity triple of the request.
func (r *RunStepRequest) IDs() IDMap {
	return IDMap{
		RequestID:   r.RequestID,
		ScenarioID:  r.ScenarioID,
		RequestorID: r.RequestorID,
	}
}

// IDMap identifies the request, scenario and requestor a step runs for.
type IDMap struct {
	RequestID   string
	ScenarioID  string
	RequestorID string
}

type StepRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	KeyValue Fields `json:"keyValue"`
}

type RunStepResponse struct {
	Outcome       Outcome      `json:"outcome"`
	MessageFormat string       `json:"messageFormat"`
	MessageArgs   []any        `json:"messageArgs,omitempty"`
	Records       []StepRecord `json:"records,omitempty"`
}

// Message renders MessageFormat with MessageArgs.
func (r *RunStepResponse) Message() string {
	if len(r.MessageArgs) == 0 {
		return r.MessageFormat
	}

	return fmt.Sprintf(r.MessageFormat, r.MessageArgs...)
}

// AuthMetadata carries the credentials presented with a request. Keys are
// matched case-insensitively since transports such as gRPC lowercase them.
type AuthMetadata map[string]string

const AuthFieldAPIKey = "apiKey"

func (a AuthMetadata) Get(key string) string {
	if v, ok := a[key]; ok {
		return v
	}

	for k, v := range a {
		if strings.EqualFold(k, key) {
			return v
		}
	}

	return ""
}
