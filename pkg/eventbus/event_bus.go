// Package eventbus publishes and consumes step run events.
package eventbus

import (
	"context"

	"github.com/dukex/iterable-cog/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// Nop discards every event. It is used when no bus is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }

func (Nop) Handle(events.EventType, EventHandler) error { return nil }

func (Nop) Subscribe(context.Context) error { return nil }

func (Nop) Close() error { return nil }

func (Nop) GenerateID() string { return "" }
