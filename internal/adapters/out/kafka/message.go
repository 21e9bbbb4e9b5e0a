package kafka

import (
	"time"

	"porterage/internal/core/domain/model/event"
)

// TransportEventMessage is the JSON value written to the transport events topic.
type TransportEventMessage struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Actor      string    `json:"actor,omitempty"`
	RequestKey string    `json:"request_key,omitempty"`
	RequestID  int       `json:"request_id,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Priority   string    `json:"priority,omitempty"`
	Status     string    `json:"status,omitempty"`
	Requester  string    `json:"requester,omitempty"`
	Porter     string    `json:"porter,omitempty"`
	Notify     []string  `json:"notify,omitempty"`
	Summary    string    `json:"summary"`
}

func newTransportEventMessage(e event.Event) TransportEventMessage {
	msg := TransportEventMessage{
		EventID:    e.ID.String(),
		Kind:       string(e.Kind),
		OccurredAt: e.OccurredAt.UTC(),
		Actor:      e.Actor.String(),
		Porter:     e.Porter.String(),
		Summary:    e.Summary(),
	}
	if e.HasRequest() {
		msg.RequestKey = e.RequestKey.String()
		msg.RequestID = e.RequestID
		msg.From = e.From.String()
		msg.To = e.To.String()
		msg.Priority = e.Priority.String()
		msg.Status = e.Status.Code()
		msg.Requester = e.Requester.String()
	}
	for _, n := range e.Notify {
		msg.Notify = append(msg.Notify, n.String())
	}
	return msg
}

// messageKey keeps every event of one request, or of one porter, on one partition.
func messageKey(e event.Event) string {
	if e.HasRequest() {
		return e.RequestKey.String()
	}
	return e.Porter.String()
}
