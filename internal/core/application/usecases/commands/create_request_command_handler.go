package commands

import (
	"context"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/ports"
)

// CreateRequestCommandHandler allocates a queue number and appends a Waiting
// request to the ledger. Creation is not porter-visible, so no journal entry is written.
type CreateRequestCommandHandler struct {
	uowFactory RequestUoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewCreateRequestCommandHandler(
	uowFactory RequestUoWFactory,
	publisher ports.EventPublisher,
	clock Clock,
) CreateRequestCommandHandler {
	return CreateRequestCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clock,
	}
}

// Handle returns the created request. The id check and the insert happen in
// one Unit of Work, so concurrent creations never share a number.
func (h CreateRequestCommandHandler) Handle(
	ctx context.Context,
	cmd CreateRequestCommand,
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

	id, err := requestRepo.NextID(ctx, now)
	if err != nil {
		return nil, err
	}

	created, err := request.NewTransportRequest(
		kernel.NewUUID(), id, cmd.From(), cmd.To(), cmd.Priority(), cmd.Requester(), now,
	)
	if err != nil {
		return nil, err
	}

	if err = requestRepo.Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(ctx,
		event.ForRequest(event.RequestCreated, created, cmd.Requester(), kernel.Identity{}, now),
	)
	return created, nil
}
