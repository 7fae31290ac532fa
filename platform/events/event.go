// Package events is the in-process publish/subscribe layer the session
// engine reports through. It carries no domain types; those live in
// internal/events.
package events

import (
	"context"
	"time"
)

// Event is anything published on a Bus. EventName is the subscription key.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events to supply OccurredAt.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler consumes one event. Returned errors are reported by the bus and
// never reach the publisher of an asynchronous Publish.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events to the handlers subscribed under their name.
type Bus interface {
	// Publish hands the event to every handler without waiting for them.
	Publish(ctx context.Context, event Event)
	// PublishSync runs every handler before returning their joined errors.
	PublishSync(ctx context.Context, event Event) error
	// Subscribe adds handler for events whose EventName equals eventName.
	Subscribe(eventName string, handler Handler)
}
