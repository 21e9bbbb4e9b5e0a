package commands

import (
	"context"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/ports"
)

// UndoRequestCommandHandler returns a request to Waiting and clears its porter
// and start time. Undo of a Waiting request succeeds without changing anything
// and without emitting an event.
type UndoRequestCommandHandler struct {
	uowFactory RequestUoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewUndoRequestCommandHandler(
	uowFactory RequestUoWFactory,
	publisher ports.EventPublisher,
	clock Clock,
) UndoRequestCommandHandler {
	return UndoRequestCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clock,
	}
}

// Handle returns the request and whether it changed.
func (h UndoRequestCommandHandler) Handle(
	ctx context.Context,
	cmd UndoRequestCommand,
) (*request.TransportRequest, bool, error) {
	if err := cmd.Validate(); err != nil {
		return nil, false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()
	requestRepo := uow.RequestRepository()

	reverted, err := requestRepo.Get(ctx, cmd.ID())
	if err != nil {
		return nil, false, err
	}

	released, _ := reverted.AssignedPorter()
	changed, err := reverted.Undo(now)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return reverted, false, nil
	}

	if err = requestRepo.Update(ctx, reverted); err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	h.publisher.Publish(ctx,
		event.ForRequest(event.RequestUndone, reverted, kernel.Identity{}, released, now).
			NotifyingOthers(released),
	)
	return reverted, true, nil
}
