package commands

import (
	"errors"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/errs"
	"porterage/internal/pkg/guard"
)

var ErrTransitionRequestCommandIsNotConstructed = errors.New(
	"TransitionRequestCommand must be created via NewTransitionRequestCommand constructor",
)

// TransitionRequestCommand is one porter-driven step of the lifecycle:
// pickup (Waiting -> PickedUp), start (PickedUp -> InTransit) or
// finish (InTransit -> Finished).
//
// Example:
//
//	cmd, err := NewPickupCommand(3, "+85298765432")
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
type TransitionRequestCommand struct { //nolint:recvcheck //using for validation
	id       int
	expected request.Status
	target   request.Status
	actor    kernel.Identity

	guard guard.ConstructorGuard
}

// NewTransitionRequestCommand builds a transition from expected to target by actor.
// Whether the pair is a legal step is decided by the handler against the ledger.
func NewTransitionRequestCommand(
	id int,
	expected, target request.Status,
	actor string,
) (TransitionRequestCommand, error) {
	cmd := TransitionRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setID(id),
		cmd.setStatuses(expected, target),
		cmd.setActor(actor),
	); err != nil {
		return TransitionRequestCommand{}, err
	}

	return cmd, nil
}

// NewPickupCommand moves request id from Waiting to PickedUp for porter.
func NewPickupCommand(id int, porter string) (TransitionRequestCommand, error) {
	return NewTransitionRequestCommand(id, request.Waiting, request.PickedUp, porter)
}

// NewStartCommand moves request id from PickedUp to InTransit for porter.
func NewStartCommand(id int, porter string) (TransitionRequestCommand, error) {
	return NewTransitionRequestCommand(id, request.PickedUp, request.InTransit, porter)
}

// NewFinishCommand moves request id from InTransit to Finished for porter.
func NewFinishCommand(id int, porter string) (TransitionRequestCommand, error) {
	return NewTransitionRequestCommand(id, request.InTransit, request.Finished, porter)
}

func (c TransitionRequestCommand) Validate() error {
	return c.guard.Validate(ErrTransitionRequestCommandIsNotConstructed)
}

func (c TransitionRequestCommand) ID() int { return c.id }

func (c TransitionRequestCommand) Expected() request.Status { return c.expected }

func (c TransitionRequestCommand) Target() request.Status { return c.target }

func (c TransitionRequestCommand) Actor() kernel.Identity { return c.actor }

func (c *TransitionRequestCommand) setID(id int) error {
	if id <= 0 {
		return request.ErrIDIsInvalid
	}
	c.id = id
	return nil
}

func (c *TransitionRequestCommand) setStatuses(expected, target request.Status) error {
	if err := errors.Join(expected.Validate(), target.Validate()); err != nil {
		return err
	}
	if expected == target {
		return errs.NewInvalidTransitionError(expected.String(), target.String())
	}
	c.expected = expected
	c.target = target
	return nil
}

func (c *TransitionRequestCommand) setActor(actor string) error {
	identity, err := kernel.NewIdentity(actor)
	if err != nil {
		return err
	}
	c.actor = identity
	return nil
}
