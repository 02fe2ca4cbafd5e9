// Package events defines the notifications the cog emits about step runs.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const Topic = "iterable-cog.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const StepFinishedEvent EventType = "step.finished"

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	InstanceID string         `json:"instance_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, instanceID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		InstanceID: instanceID,
	}
}

// StepFinished is published once per dispatched step, whatever its outcome.
type StepFinished struct {
	BaseEvent

	StepID        string        `json:"step_id"`
	RequestID     string        `json:"request_id"`
	ScenarioID    string        `json:"scenario_id,omitempty"`
	RequestorID   string        `json:"requestor_id,omitempty"`
	Outcome       string        `json:"outcome"`
	MessageFormat string        `json:"message_format"`
	Duration      time.Duration `json:"duration"`
}

func (s StepFinished) GetType() EventType {
	return StepFinishedEvent
}
