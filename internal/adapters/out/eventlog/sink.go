// Package eventlog writes every engine event as one structured log line.
package eventlog

import (
	"context"
	"log/slog"

	"porterage/internal/core/domain/model/event"
)

// Sink logs events through slog. It never fails.
type Sink struct {
	logger *slog.Logger
}

func NewSink(logger *slog.Logger) *Sink {
	return &Sink{logger: logger.With("component", "event_log")}
}

func (s *Sink) Name() string { return "log" }

func (s *Sink) Send(ctx context.Context, e event.Event) error {
	attrs := []any{
		"event_id", e.ID.String(),
		"kind", string(e.Kind),
	}
	if e.HasRequest() {
		attrs = append(attrs,
			"request_id", e.RequestID,
			"status", e.Status.Code(),
			"priority", e.Priority.String(),
		)
	}
	if !e.Actor.IsZero() {
		attrs = append(attrs, "actor", e.Actor.String())
	}
	if !e.Porter.IsZero() {
		attrs = append(attrs, "porter", e.Porter.String())
	}
	if len(e.Notify) > 0 {
		notify := make([]string, 0, len(e.Notify))
		for _, n := range e.Notify {
			notify = append(notify, n.String())
		}
		attrs = append(attrs, "notify", notify)
	}

	s.logger.InfoContext(ctx, e.Summary(), attrs...)
	return nil
}
