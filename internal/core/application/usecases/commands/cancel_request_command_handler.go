package commands

import (
	"context"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/journal"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/ports"
)

// CancelRequestCommandHandler removes a request from the ledger.
//
// Failure order: errs.ErrObjectNotFound for an unknown id, errs.ErrAlreadyFinished
// for a Finished request, errs.ErrUnauthorized when the actor is neither the
// requester nor the assigned porter. A removed request frees its porter at once
// because availability is derived from the ledger.
type CancelRequestCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewCancelRequestCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	clock Clock,
) CancelRequestCommandHandler {
	return CancelRequestCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clock,
	}
}

// Handle returns the request as it was just before removal.
func (h CancelRequestCommandHandler) Handle(
	ctx context.Context,
	cmd CancelRequestCommand,
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

	cancelled, err := requestRepo.Get(ctx, cmd.ID())
	if err != nil {
		return nil, err
	}

	if err = cancelled.AuthorizeCancel(cmd.Actor()); err != nil {
		return nil, err
	}

	if err = requestRepo.Remove(ctx, cancelled.Key()); err != nil {
		return nil, err
	}

	entry, err := journal.NewEntry(now, describeCancel(cancelled, cmd.Actor()))
	if err != nil {
		return nil, err
	}
	if err = uow.JournalRepository().Append(ctx, entry); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	released, _ := cancelled.AssignedPorter()
	h.publisher.Publish(ctx,
		event.ForRequest(event.RequestCancelled, cancelled, cmd.Actor(), released, now).
			NotifyingOthers(cancelled.Requester(), released),
	)
	return cancelled, nil
}
