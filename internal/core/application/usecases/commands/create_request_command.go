package commands

import (
	"errors"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/guard"
)

var ErrCreateRequestCommandIsNotConstructed = errors.New(
	"CreateRequestCommand must be created via NewCreateRequestCommand constructor",
)

// CreateRequestCommand asks for a new transport from one location to another.
//
// Example:
//
//	cmd, err := NewCreateRequestCommand("10/F", "3/F", request.High, "+85291234567")
//	if err != nil {
//	    return fmt.Errorf("invalid request: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Request %d queued\n", created.ID())
type CreateRequestCommand struct { //nolint:recvcheck //using for validation
	from      kernel.Location
	to        kernel.Location
	priority  request.Priority
	requester kernel.Identity

	guard guard.ConstructorGuard
}

// NewCreateRequestCommand normalises the locations and the requester identity.
// All validation errors are reported together.
func NewCreateRequestCommand(
	from, to string,
	priority request.Priority,
	requester string,
) (CreateRequestCommand, error) {
	cmd := CreateRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setFrom(from),
		cmd.setTo(to),
		cmd.setPriority(priority),
		cmd.setRequester(requester),
	); err != nil {
		return CreateRequestCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateRequestCommand) Validate() error {
	return c.guard.Validate(ErrCreateRequestCommandIsNotConstructed)
}

func (c CreateRequestCommand) From() kernel.Location { return c.from }

func (c CreateRequestCommand) To() kernel.Location { return c.to }

func (c CreateRequestCommand) Priority() request.Priority { return c.priority }

func (c CreateRequestCommand) Requester() kernel.Identity { return c.requester }

func (c *CreateRequestCommand) setFrom(from string) error {
	location, err := kernel.NewLocation(from)
	if err != nil {
		return err
	}
	c.from = location
	return nil
}

func (c *CreateRequestCommand) setTo(to string) error {
	location, err := kernel.NewLocation(to)
	if err != nil {
		return err
	}
	c.to = location
	return nil
}

func (c *CreateRequestCommand) setPriority(priority request.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	c.priority = priority
	return nil
}

func (c *CreateRequestCommand) setRequester(requester string) error {
	identity, err := kernel.NewIdentity(requester)
	if err != nil {
		return err
	}
	c.requester = identity
	return nil
}
