package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	event := NewBaseEvent(StepFinishedEvent, "instance-1")

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, StepFinishedEvent, event.Type)
	assert.Equal(t, "instance-1", event.InstanceID)
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Second)
}

func TestStepFinished_JSON(t *testing.T) {
	event := StepFinished{
		BaseEvent:     NewBaseEvent(StepFinishedEvent, "instance-1"),
		StepID:        "DeleteContact",
		RequestID:     "req-1",
		Outcome:       "PASSED",
		MessageFormat: "Successfully deleted contact %s",
		Duration:      time.Second,
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded StepFinished
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, StepFinishedEvent, decoded.GetType())
	assert.Equal(t, "step.finished", string(decoded.Type))
	assert.Equal(t, event.StepID, decoded.StepID)
	assert.Equal(t, event.Duration, decoded.Duration)
	assert.NotContains(t, string(payload), "scenario_id")
}
