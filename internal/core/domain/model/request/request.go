package request

import (
	"errors"
	"fmt"
	"time"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/pkg/errs"
	"porterage/internal/pkg/guard"
)

var (
	// ErrTransportRequestIsNotConstructed is returned when a TransportRequest was not
	// created through NewTransportRequest.
	ErrTransportRequestIsNotConstructed = errors.New(
		"TransportRequest must be created via NewTransportRequest constructor",
	)
	// ErrIDIsInvalid is returned for queue numbers below 1.
	ErrIDIsInvalid = errors.New("request id must be greater than 0")
)

// TransportRequest is the aggregate root of the Request Ledger: one transport task
// from one location to another, tracked from creation to completion.
//
// TransportRequest follows these invariants:
//   - key is unique for the life of the process; id (the queue number) is unique among live requests
//   - assignedPorter is set iff status is PickedUp or InTransit
//   - startedAt is set only after the request entered InTransit
//   - every mutating method is all-or-nothing: it validates first and mutates last
//
// The struct holds only value fields, so copying it yields an independent snapshot.
// The in-memory Unit of Work relies on this to stage changes.
type TransportRequest struct {
	key             kernel.UUID
	id              int
	from            kernel.Location
	to              kernel.Location
	status          Status
	priority        Priority
	requester       kernel.Identity
	assignedPorter  kernel.Identity
	createdAt       time.Time
	statusChangedAt time.Time
	startedAt       time.Time

	guard guard.ConstructorGuard
}

// NewTransportRequest creates a Waiting request with no porter.
//
// Example:
//
//	from, _ := kernel.NewLocation("10/F")
//	to, _ := kernel.NewLocation("3/F")
//	requester, _ := kernel.NewIdentity("+85291234567")
//	req, err := request.NewTransportRequest(kernel.NewUUID(), 1, from, to, request.Normal, requester, time.Now())
func NewTransportRequest(
	key kernel.UUID,
	id int,
	from, to kernel.Location,
	priority Priority,
	requester kernel.Identity,
	now time.Time,
) (*TransportRequest, error) {
	r := &TransportRequest{
		status:          Waiting,
		createdAt:       now,
		statusChangedAt: now,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setKey(key),
		r.setID(id),
		r.setFrom(from),
		r.setTo(to),
		r.setPriority(priority),
		r.setRequester(requester),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate ensures the request was built by NewTransportRequest.
func (r *TransportRequest) Validate() error {
	if r == nil {
		return ErrTransportRequestIsNotConstructed
	}
	return r.guard.Validate(ErrTransportRequestIsNotConstructed)
}

// Key returns the stable ledger key.
func (r *TransportRequest) Key() kernel.UUID { return r.key }

// ID returns the queue number shown to requesters and porters.
func (r *TransportRequest) ID() int { return r.id }

// From returns the pickup location.
func (r *TransportRequest) From() kernel.Location { return r.from }

// To returns the destination.
func (r *TransportRequest) To() kernel.Location { return r.to }

// Status returns the current lifecycle status.
func (r *TransportRequest) Status() Status { return r.status }

// Priority returns Normal or High.
func (r *TransportRequest) Priority() Priority { return r.priority }

// Requester returns the identity that raised the request.
func (r *TransportRequest) Requester() kernel.Identity { return r.requester }

// CreatedAt returns the creation time.
func (r *TransportRequest) CreatedAt() time.Time { return r.createdAt }

// StatusChangedAt returns the time of the last status change.
func (r *TransportRequest) StatusChangedAt() time.Time { return r.statusChangedAt }

// AssignedPorter returns the porter and true while the request is PickedUp or InTransit.
func (r *TransportRequest) AssignedPorter() (kernel.Identity, bool) {
	return r.assignedPorter, !r.assignedPorter.IsZero()
}

// StartedAt returns the moment the request entered InTransit, if it has.
func (r *TransportRequest) StartedAt() (time.Time, bool) {
	return r.startedAt, !r.startedAt.IsZero()
}

// IsLive reports whether a porter is currently working this request.
func (r *TransportRequest) IsLive() bool {
	return r.status.IsLive()
}

// IsAssignedTo reports whether porter is the assigned porter.
func (r *TransportRequest) IsAssignedTo(porter kernel.Identity) bool {
	return !r.assignedPorter.IsZero() && r.assignedPorter.IsEqual(porter)
}

// TransitDuration is the time from start to finish of a Finished request.
func (r *TransportRequest) TransitDuration() (time.Duration, bool) {
	if r.status != Finished || r.startedAt.IsZero() {
		return 0, false
	}
	return r.statusChangedAt.Sub(r.startedAt), true
}

// Transition performs one porter-driven step from expected to target.
//
// Rules:
//   - Waiting -> PickedUp assigns actor; whether actor is signed in and free is
//     checked beforehand by services.AssignmentCoordinator
//   - PickedUp -> InTransit and InTransit -> Finished require actor to be the assigned porter
//   - InTransit records startedAt; Finished releases the porter
//
// Returns errs.ErrInvalidTransition when the status precondition fails and
// errs.ErrUnauthorized when actor is not the assigned porter.
func (r *TransportRequest) Transition(expected, target Status, actor kernel.Identity, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	next, err := r.status.Transition(expected, target)
	if err != nil {
		return err
	}

	if expected != Waiting && !r.IsAssignedTo(actor) {
		return errs.NewUnauthorizedErrorWithCause(
			actor.String(),
			fmt.Sprintf("move request %d to %s", r.id, target),
			errors.New("only the assigned porter may do this"),
		)
	}

	switch next {
	case PickedUp:
		r.assignedPorter = actor
	case InTransit:
		r.startedAt = now
	case Finished:
		r.assignedPorter = kernel.Identity{}
	}
	r.status = next
	r.statusChangedAt = now
	return nil
}

// CancelPickup reverts a PickedUp request to Waiting and clears the porter.
func (r *TransportRequest) CancelPickup(now time.Time) error {
	next, err := r.status.CancelPickup()
	if err != nil {
		return err
	}

	r.status = next
	r.assignedPorter = kernel.Identity{}
	r.statusChangedAt = now
	return nil
}

// Undo reverts the request to Waiting from any other status and clears the porter
// and the start time. It reports false, and changes nothing, when already Waiting.
func (r *TransportRequest) Undo(now time.Time) (bool, error) {
	next, err := r.status.Undo()
	if err != nil {
		return false, err
	}
	if r.status == Waiting {
		return false, nil
	}

	r.status = next
	r.assignedPorter = kernel.Identity{}
	r.startedAt = time.Time{}
	r.statusChangedAt = now
	return true, nil
}

// AuthorizeCancel checks whether actor may remove the request.
// Finished requests cannot be cancelled; otherwise actor must be the requester
// or the assigned porter.
func (r *TransportRequest) AuthorizeCancel(actor kernel.Identity) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if r.status == Finished {
		return errs.NewAlreadyFinishedError("request", r.id)
	}
	if !r.requester.IsEqual(actor) && !r.IsAssignedTo(actor) {
		return errs.NewUnauthorizedError(actor.String(), fmt.Sprintf("cancel request %d", r.id))
	}
	return nil
}

func (r *TransportRequest) setKey(key kernel.UUID) error {
	if err := key.Validate(); err != nil {
		return err
	}
	r.key = key
	return nil
}

func (r *TransportRequest) setID(id int) error {
	if id <= 0 {
		return ErrIDIsInvalid
	}
	r.id = id
	return nil
}

func (r *TransportRequest) setFrom(from kernel.Location) error {
	if err := from.Validate(); err != nil {
		return err
	}
	r.from = from
	return nil
}

func (r *TransportRequest) setTo(to kernel.Location) error {
	if err := to.Validate(); err != nil {
		return err
	}
	r.to = to
	return nil
}

func (r *TransportRequest) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	r.priority = priority
	return nil
}

func (r *TransportRequest) setRequester(requester kernel.Identity) error {
	if err := requester.Validate(); err != nil {
		return err
	}
	r.requester = requester
	return nil
}
