// Package event defines the notifications the dispatch engine emits after a
// successful state change. Application commands build them; outbound adapters
// turn them into log lines, stream messages, requester notifications and audit rows.
package event

import (
	"fmt"
	"time"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
)

// Kind names what happened.
type Kind string

const (
	RequestCreated    Kind = "request_created"
	RequestPickedUp   Kind = "request_picked_up"
	TransportStarted  Kind = "transport_started"
	TransportFinished Kind = "transport_finished"
	RequestCancelled  Kind = "request_cancelled"
	PickupCancelled   Kind = "pickup_cancelled"
	RequestUndone     Kind = "request_undone"
	PorterSignedIn    Kind = "porter_signed_in"
	PorterSignedOut   Kind = "porter_signed_out"
)

// Kinds lists every kind, in lifecycle order.
func Kinds() []Kind {
	return []Kind{
		RequestCreated, RequestPickedUp, TransportStarted, TransportFinished,
		RequestCancelled, PickupCancelled, RequestUndone, PorterSignedIn, PorterSignedOut,
	}
}

// Event is an immutable record of one state change.
// Request fields are zero for porter registry events.
type Event struct {
	ID         kernel.UUID
	Kind       Kind
	OccurredAt time.Time
	Actor      kernel.Identity

	RequestKey kernel.UUID
	RequestID  int
	From       kernel.Location
	To         kernel.Location
	Priority   request.Priority
	Status     request.Status
	Requester  kernel.Identity
	Porter     kernel.Identity

	// Notify lists the parties who should hear about this event, excluding the actor.
	Notify []kernel.Identity
}

// ForRequest snapshots r after the change. porter is the porter involved in the
// change, which for cancel or undo is the one that was released.
func ForRequest(kind Kind, r *request.TransportRequest, actor, porter kernel.Identity, now time.Time) Event {
	return Event{
		ID:         kernel.NewUUID(),
		Kind:       kind,
		OccurredAt: now,
		Actor:      actor,
		RequestKey: r.Key(),
		RequestID:  r.ID(),
		From:       r.From(),
		To:         r.To(),
		Priority:   r.Priority(),
		Status:     r.Status(),
		Requester:  r.Requester(),
		Porter:     porter,
	}
}

// ForPorter records a registry change.
func ForPorter(kind Kind, porter kernel.Identity, now time.Time) Event {
	return Event{
		ID:         kernel.NewUUID(),
		Kind:       kind,
		OccurredAt: now,
		Actor:      porter,
		Porter:     porter,
	}
}

// NotifyingOthers sets Notify to the given parties, dropping zero identities,
// duplicates and the actor.
func (e Event) NotifyingOthers(parties ...kernel.Identity) Event {
	var out []kernel.Identity
	for _, p := range parties {
		if p.IsZero() || p.IsEqual(e.Actor) {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen.IsEqual(p) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	e.Notify = out
	return e
}

// HasRequest reports whether the event concerns a transport request.
func (e Event) HasRequest() bool {
	return e.RequestID > 0
}

// Summary renders the event as one human-readable line, used for log lines
// and outbound notifications.
func (e Event) Summary() string {
	switch e.Kind {
	case RequestCreated:
		return fmt.Sprintf("Request %d created: %s -> %s (%s)", e.RequestID, e.From, e.To, e.Priority)
	case RequestPickedUp:
		return fmt.Sprintf("Request %d picked up by %s", e.RequestID, e.Porter)
	case TransportStarted:
		return fmt.Sprintf("Transport started by %s for request %d", e.Porter, e.RequestID)
	case TransportFinished:
		return fmt.Sprintf("Transport finished for %d by %s", e.RequestID, e.Porter)
	case RequestCancelled:
		return fmt.Sprintf("Request %d cancelled by %s", e.RequestID, e.Actor)
	case PickupCancelled:
		return fmt.Sprintf("Pickup of request %d cancelled, back in the queue", e.RequestID)
	case RequestUndone:
		return fmt.Sprintf("Request %d returned to the queue", e.RequestID)
	case PorterSignedIn:
		return fmt.Sprintf("Porter %s signed in", e.Porter)
	case PorterSignedOut:
		return fmt.Sprintf("Porter %s signed out", e.Porter)
	default:
		return string(e.Kind)
	}
}
