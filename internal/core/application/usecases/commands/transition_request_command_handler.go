package commands

import (
	"context"
	"time"

	"porterage/internal/core/domain/model/journal"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/domain/services"
	"porterage/internal/core/ports"
)

// TransitionRequestCommandHandler applies pickup, start and finish.
//
// Pickup goes through services.AssignmentCoordinator, which needs the registry
// and the whole ledger; both are read in the same Unit of Work as the write,
// so two porters racing for one request cannot both win.
//
// Example:
//
//	handler := NewTransitionRequestCommandHandler(uowFactory, publisher, time.Now)
//	cmd, _ := NewStartCommand(3, "+85298765432")
//
//	_, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    reply("No such request")
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    reply("Request is not picked up")
//	case errors.Is(err, errs.ErrUnauthorized):
//	    reply("Only the assigned porter may start it")
//	}
type TransitionRequestCommandHandler struct {
	uowFactory  UoWFactory
	publisher   ports.EventPublisher
	clock       Clock
	coordinator services.AssignmentCoordinator
}

func NewTransitionRequestCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	clock Clock,
) TransitionRequestCommandHandler {
	return TransitionRequestCommandHandler{
		uowFactory:  uowFactory,
		publisher:   publisher,
		clock:       clock,
		coordinator: services.NewAssignmentCoordinator(),
	}
}

// Handle returns the request as it is after the transition.
// On success a journal entry is appended; on failure nothing changes.
func (h TransitionRequestCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionRequestCommand,
) (*request.TransportRequest, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()
	requestRepo := uow.RequestRepository()

	target, err := requestRepo.Get(ctx, cmd.ID())
	if err != nil {
		return nil, err
	}

	if cmd.Expected() == request.Waiting && cmd.Target() == request.PickedUp {
		err = h.pickup(ctx, uow, target, cmd, now)
	} else {
		err = target.Transition(cmd.Expected(), cmd.Target(), cmd.Actor(), now)
	}
	if err != nil {
		return nil, err
	}

	if err = requestRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	entry, err := journal.NewEntry(now, describeTransition(target, cmd))
	if err != nil {
		return nil, err
	}
	if err = uow.JournalRepository().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx, transitionEvent(target, cmd, now))
	return target, nil
}

func (h TransitionRequestCommandHandler) pickup(
	ctx context.Context,
	uow UoW,
	target *request.TransportRequest,
	cmd TransitionRequestCommand,
	now time.Time,
) error {
	signedIn, err := uow.PorterRepository().Contains(ctx, cmd.Actor())
	if err != nil {
		return err
	}

	ledger, err := uow.RequestRepository().ListLive(ctx)
	if err != nil {
		return err
	}

	return h.coordinator.Pickup(target, cmd.Actor(), signedIn, ledger, now)
}
