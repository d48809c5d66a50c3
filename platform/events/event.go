// Package events provides a lightweight in-process event bus for
// decoupling modules. Publishers emit domain events; subscribers react
// without the publisher knowing who listens.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the interface all domain events implement.
type Event interface {
	// EventName returns the unique name of the event, e.g. "lead.submitted".
	EventName() string
	// OccurredAt returns when the event happened.
	OccurredAt() time.Time
}

// BaseEvent provides common event fields. Embed it in concrete events.
type BaseEvent struct {
	ID        uuid.UUID
	Timestamp time.Time
}

// NewBaseEvent creates a BaseEvent with a fresh ID and the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
	}
}

// OccurredAt returns when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// Handler processes events of a particular type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the wrapped function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes published events to subscribed handlers.
type Bus interface {
	// Publish delivers the event to subscribers asynchronously.
	// It never blocks the caller on handler execution.
	Publish(ctx context.Context, event Event)
	// PublishSync delivers the event to subscribers and waits for all
	// handlers to finish. The first handler error is returned.
	PublishSync(ctx context.Context, event Event) error
	// Subscribe registers a handler for the named event.
	Subscribe(eventName string, handler Handler)
}
