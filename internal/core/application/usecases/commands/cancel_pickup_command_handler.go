package commands

import (
	"context"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/ports"
)

// CancelPickupCommandHandler reverts PickedUp to Waiting and clears the porter.
// Any other status fails with errs.ErrInvalidTransition.
type CancelPickupCommandHandler struct {
	uowFactory RequestUoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewCancelPickupCommandHandler(
	uowFactory RequestUoWFactory,
	publisher ports.EventPublisher,
	clock Clock,
) CancelPickupCommandHandler {
	return CancelPickupCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clock,
	}
}

func (h CancelPickupCommandHandler) Handle(
	ctx context.Context,
	cmd CancelPickupCommand,
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

	reverted, err := requestRepo.Get(ctx, cmd.ID())
	if err != nil {
		return nil, err
	}

	released, _ := reverted.AssignedPorter()
	if err = reverted.CancelPickup(now); err != nil {
		return nil, err
	}

	if err = requestRepo.Update(ctx, reverted); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx,
		event.ForRequest(event.PickupCancelled, reverted, kernel.Identity{}, released, now).
			NotifyingOthers(released),
	)
	return reverted, nil
}
