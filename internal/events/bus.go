// Package events defines the application's domain events and re-exports
// the platform event bus types so modules depend on a single package.
package events

import (
	"cleardoor_backend/platform/events"
)

// Re-exported platform types.
type (
	Event       = events.Event
	BaseEvent   = events.BaseEvent
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	Bus         = events.Bus
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)
