package commands

import (
	"errors"

	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/guard"
)

var ErrCancelPickupCommandIsNotConstructed = errors.New(
	"CancelPickupCommand must be created via NewCancelPickupCommand constructor",
)

// CancelPickupCommand is an administrative override returning a PickedUp
// request to the queue. Anyone may issue it.
type CancelPickupCommand struct { //nolint:recvcheck //using for validation
	id int

	guard guard.ConstructorGuard
}

func NewCancelPickupCommand(id int) (CancelPickupCommand, error) {
	cmd := CancelPickupCommand{
		guard: guard.NewConstructorGuard(),
	}
	if err := cmd.setID(id); err != nil {
		return CancelPickupCommand{}, err
	}
	return cmd, nil
}

func (c CancelPickupCommand) Validate() error {
	return c.guard.Validate(ErrCancelPickupCommandIsNotConstructed)
}

func (c CancelPickupCommand) ID() int { return c.id }

func (c *CancelPickupCommand) setID(id int) error {
	if id <= 0 {
		return request.ErrIDIsInvalid
	}
	c.id = id
	return nil
}
