package services

import (
	"errors"
	"fmt"
	"time"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/errs"
)

var (
	// ErrPorterNotSignedIn is the cause of an Unauthorized pickup by a porter outside the registry.
	ErrPorterNotSignedIn = errors.New("porter is not signed in")
	// ErrPorterIsBusy is the cause of an InvalidTransition pickup by a porter with a live assignment.
	ErrPorterIsBusy = errors.New("porter already has a live assignment")
)

// AssignmentCoordinator is a domain service enforcing the assignment invariants
// across the Request Ledger and the Porter Registry:
//   - a porter holds at most one live (PickedUp or InTransit) request
//   - a request has at most one assigned porter
//   - availability is derived from the ledger, never stored
//
// It holds no state. Callers pass the ledger as read inside the same Unit of Work
// as the mutation, which makes the check and the assignment one atomic step.
//
// Releasing a porter needs no coordinator call: cancel, cancel-pickup, undo and
// finish clear assignedPorter, and availability follows from that immediately.
type AssignmentCoordinator struct{}

// NewAssignmentCoordinator creates a new AssignmentCoordinator instance.
func NewAssignmentCoordinator() AssignmentCoordinator {
	return AssignmentCoordinator{}
}

// Pickup assigns p to target, moving it from Waiting to PickedUp.
//
// Checks, in order:
//   - p must be signed in (errs.ErrUnauthorized, cause ErrPorterNotSignedIn)
//   - p must not hold another live request (errs.ErrInvalidTransition, cause ErrPorterIsBusy)
//   - target must be Waiting (errs.ErrInvalidTransition)
//
// Nothing is mutated when a check fails.
func (c AssignmentCoordinator) Pickup(
	target *request.TransportRequest,
	p kernel.Identity,
	signedIn bool,
	ledger []*request.TransportRequest,
	now time.Time,
) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if !signedIn {
		return errs.NewUnauthorizedErrorWithCause(p.String(), fmt.Sprintf("pick up request %d", target.ID()), ErrPorterNotSignedIn)
	}

	if current, busy := c.ActiveAssignment(p, ledger); busy && !current.Key().IsEqual(target.Key()) {
		return errs.NewInvalidTransitionErrorWithCause(
			target.Status().String(),
			request.PickedUp.String(),
			fmt.Errorf("%w: request %d", ErrPorterIsBusy, current.ID()),
		)
	}

	return target.Transition(request.Waiting, request.PickedUp, p, now)
}

// ActiveAssignment returns the live request assigned to p, if any.
func (c AssignmentCoordinator) ActiveAssignment(
	p kernel.Identity,
	ledger []*request.TransportRequest,
) (*request.TransportRequest, bool) {
	for _, r := range ledger {
		if r.IsLive() && r.IsAssignedTo(p) {
			return r, true
		}
	}
	return nil, false
}

// Availability derives each porter's availability from the ledger, keeping
// the order of porters.
func (c AssignmentCoordinator) Availability(
	porters []porter.Porter,
	ledger []*request.TransportRequest,
) []porter.View {
	busy := make(map[string]struct{})
	for _, r := range ledger {
		if p, ok := r.AssignedPorter(); ok && r.IsLive() {
			busy[p.String()] = struct{}{}
		}
	}

	views := make([]porter.View, 0, len(porters))
	for _, p := range porters {
		a := porter.Available
		if _, ok := busy[p.Identity().String()]; ok {
			a = porter.Busy
		}
		views = append(views, porter.View{Porter: p, Availability: a})
	}
	return views
}
