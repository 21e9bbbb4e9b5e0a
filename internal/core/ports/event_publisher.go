package ports

import (
	"context"

	"porterage/internal/core/domain/model/event"
)

// EventPublisher delivers events after a Unit of Work commits.
// Delivery is best effort: implementations log their own failures and never
// fail the command that produced the events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.Event)
}

// EventSink is one delivery channel behind an EventPublisher fan-out.
type EventSink interface {
	Name() string
	Send(ctx context.Context, e event.Event) error
}
