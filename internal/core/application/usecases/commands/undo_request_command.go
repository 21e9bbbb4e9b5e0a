package commands

import (
	"errors"

	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/guard"
)

var ErrUndoRequestCommandIsNotConstructed = errors.New(
	"UndoRequestCommand must be created via NewUndoRequestCommand constructor",
)

// UndoRequestCommand corrects a mis-click by sending a request back to Waiting
// from any other status, Finished included.
type UndoRequestCommand struct { //nolint:recvcheck //using for validation
	id int

	guard guard.ConstructorGuard
}

func NewUndoRequestCommand(id int) (UndoRequestCommand, error) {
	cmd := UndoRequestCommand{
		guard: guard.NewConstructorGuard(),
	}
	if err := cmd.setID(id); err != nil {
		return UndoRequestCommand{}, err
	}
	return cmd, nil
}

func (c UndoRequestCommand) Validate() error {
	return c.guard.Validate(ErrUndoRequestCommandIsNotConstructed)
}

func (c UndoRequestCommand) ID() int { return c.id }

func (c *UndoRequestCommand) setID(id int) error {
	if id <= 0 {
		return request.ErrIDIsInvalid
	}
	c.id = id
	return nil
}
