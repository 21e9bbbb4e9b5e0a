// Package notify delivers engine events to every configured sink.
package notify

import (
	"context"
	"log/slog"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/ports"
)

// Fanout is the engine's ports.EventPublisher. It runs after the Unit of Work
// has committed, so a slow or failing sink delays the caller's reply but can
// never undo or block a state change. Sink errors are logged and dropped.
type Fanout struct {
	sinks  []ports.EventSink
	logger *slog.Logger
}

var _ ports.EventPublisher = (*Fanout)(nil)

func NewFanout(logger *slog.Logger, sinks ...ports.EventSink) *Fanout {
	return &Fanout{
		sinks:  sinks,
		logger: logger.With("component", "event_fanout"),
	}
}

// Publish sends each event to each sink in order.
func (f *Fanout) Publish(ctx context.Context, events ...event.Event) {
	for _, e := range events {
		for _, sink := range f.sinks {
			if err := sink.Send(ctx, e); err != nil {
				f.logger.WarnContext(ctx, "Event delivery failed",
					"sink", sink.Name(),
					"kind", string(e.Kind),
					"event_id", e.ID.String(),
					"error", err,
				)
			}
		}
	}
}

// Sinks returns the names of the configured sinks.
func (f *Fanout) Sinks() []string {
	names := make([]string, 0, len(f.sinks))
	for _, s := range f.sinks {
		names = append(names, s.Name())
	}
	return names
}
