// Package steps holds the behavior shared by every cog step: outcome and record
// construction, input validation and upstream error classification.
package steps

import "github.com/dukex/iterable-cog/pkg/models"

// Pass reports that the step's expectation was met.
func Pass(format string, args []any, records ...models.StepRecord) *models.RunStepResponse {
	return outcome(models.OutcomePassed, format, args, records)
}

// Fail reports that the step's expectation was not met.
func Fail(format string, args []any, records ...models.StepRecord) *models.RunStepResponse {
	return outcome(models.OutcomeFailed, format, args, records)
}

// Error reports an input or operational fault.
func Error(format string, args []any, records ...models.StepRecord) *models.RunStepResponse {
	return outcome(models.OutcomeError, format, args, records)
}

func outcome(result models.Outcome, format string, args []any, records []models.StepRecord) *models.RunStepResponse {
	return &models.RunStepResponse{
		Outcome:       result,
		MessageFormat: format,
		MessageArgs:   args,
		Records:       records,
	}
}
