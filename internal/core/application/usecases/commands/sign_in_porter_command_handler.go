package commands

import (
	"context"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/ports"
)

// SignInPorterCommandHandler registers porters.
type SignInPorterCommandHandler struct {
	uowFactory PorterUoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewSignInPorterCommandHandler(
	uowFactory PorterUoWFactory,
	publisher ports.EventPublisher,
	clock Clock,
) SignInPorterCommandHandler {
	return SignInPorterCommandHandler{uowFactory: uowFactory, publisher: publisher, clock: clock}
}

// Handle reports false when the porter was already signed in.
func (h SignInPorterCommandHandler) Handle(ctx context.Context, cmd SignInPorterCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	p, err := porter.NewPorter(cmd.Porter())
	if err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	added, err := uow.PorterRepository().Add(ctx, p)
	if err != nil || !added {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.publisher.Publish(ctx, event.ForPorter(event.PorterSignedIn, cmd.Porter(), h.clock()))
	return true, nil
}

// SignOutPorterCommandHandler unregisters porters.
type SignOutPorterCommandHandler struct {
	uowFactory PorterUoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewSignOutPorterCommandHandler(
	uowFactory PorterUoWFactory,
	publisher ports.EventPublisher,
	clock Clock,
) SignOutPorterCommandHandler {
	return SignOutPorterCommandHandler{uowFactory: uowFactory, publisher: publisher, clock: clock}
}

// Handle reports false when the porter was not signed in.
func (h SignOutPorterCommandHandler) Handle(ctx context.Context, cmd SignOutPorterCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	removed, err := uow.PorterRepository().Remove(ctx, cmd.Porter())
	if err != nil || !removed {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.publisher.Publish(ctx, event.ForPorter(event.PorterSignedOut, cmd.Porter(), h.clock()))
	return true, nil
}
