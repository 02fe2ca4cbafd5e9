package web

import "github.com/dukex/iterable-cog/pkg/models"

// APIKeyHeader carries the Iterable API key of the caller.
const APIKeyHeader = "Api-Key"

// RunStepRequest is the body of POST /steps/run.
type RunStepRequest struct {
	Step        RunStepBody `json:"step"        validate:"required"`
	RequestID   string      `json:"requestId"`
	ScenarioID  string      `json:"scenarioId"`
	RequestorID string      `json:"requestorId"`
}

type RunStepBody struct {
	StepID string         `json:"stepId" validate:"required"`
	Data   map[string]any `json:"data"`
}

func (r *RunStepRequest) toModel() *models.RunStepRequest {
	return &models.RunStepRequest{
		Step:        models.Step{StepID: r.Step.StepID, Data: r.Step.Data},
		RequestID:   r.RequestID,
		ScenarioID:  r.ScenarioID,
		RequestorID: r.RequestorID,
	}
}
