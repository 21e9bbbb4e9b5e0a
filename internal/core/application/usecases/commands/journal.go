package commands

import (
	"fmt"
	"time"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
)

// describeTransition renders the transport log line for a porter-driven step.
func describeTransition(r *request.TransportRequest, cmd TransitionRequestCommand) string {
	switch cmd.Target() {
	case request.PickedUp:
		return fmt.Sprintf("Request %d picked up by %s", r.ID(), cmd.Actor())
	case request.InTransit:
		return fmt.Sprintf("Transport started by %s for request %d", cmd.Actor(), r.ID())
	case request.Finished:
		return fmt.Sprintf("Transport finished for %d by %s", r.ID(), cmd.Actor())
	default:
		return fmt.Sprintf("Request %d moved to %s by %s", r.ID(), cmd.Target(), cmd.Actor())
	}
}

func describeCancel(r *request.TransportRequest, actor kernel.Identity) string {
	return fmt.Sprintf("Request %d cancelled by %s", r.ID(), actor)
}

// transitionEvent tells the requester about pickup and start.
// Finishing is reported to the dashboard stream only.
func transitionEvent(r *request.TransportRequest, cmd TransitionRequestCommand, now time.Time) event.Event {
	switch cmd.Target() {
	case request.PickedUp:
		return event.ForRequest(event.RequestPickedUp, r, cmd.Actor(), cmd.Actor(), now).
			NotifyingOthers(r.Requester())
	case request.InTransit:
		return event.ForRequest(event.TransportStarted, r, cmd.Actor(), cmd.Actor(), now).
			NotifyingOthers(r.Requester())
	default:
		return event.ForRequest(event.TransportFinished, r, cmd.Actor(), cmd.Actor(), now)
	}
}
