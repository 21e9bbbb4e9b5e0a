package commands

import (
	"errors"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/guard"
)

var ErrCancelRequestCommandIsNotConstructed = errors.New(
	"CancelRequestCommand must be created via NewCancelRequestCommand constructor",
)

// CancelRequestCommand removes a request on behalf of its requester or its assigned porter.
type CancelRequestCommand struct { //nolint:recvcheck //using for validation
	id    int
	actor kernel.Identity

	guard guard.ConstructorGuard
}

func NewCancelRequestCommand(id int, actor string) (CancelRequestCommand, error) {
	cmd := CancelRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setID(id),
		cmd.setActor(actor),
	); err != nil {
		return CancelRequestCommand{}, err
	}

	return cmd, nil
}

func (c CancelRequestCommand) Validate() error {
	return c.guard.Validate(ErrCancelRequestCommandIsNotConstructed)
}

func (c CancelRequestCommand) ID() int { return c.id }

func (c CancelRequestCommand) Actor() kernel.Identity { return c.actor }

func (c *CancelRequestCommand) setID(id int) error {
	if id <= 0 {
		return request.ErrIDIsInvalid
	}
	c.id = id
	return nil
}

func (c *CancelRequestCommand) setActor(actor string) error {
	identity, err := kernel.NewIdentity(actor)
	if err != nil {
		return err
	}
	c.actor = identity
	return nil
}
