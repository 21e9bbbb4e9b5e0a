package commands

import (
	"errors"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/pkg/guard"
)

var (
	ErrSignInPorterCommandIsNotConstructed = errors.New(
		"SignInPorterCommand must be created via NewSignInPorterCommand constructor",
	)
	ErrSignOutPorterCommandIsNotConstructed = errors.New(
		"SignOutPorterCommand must be created via NewSignOutPorterCommand constructor",
	)
)

// SignInPorterCommand adds a porter to the registry. Signing in twice is harmless.
type SignInPorterCommand struct { //nolint:recvcheck //using for validation
	porter kernel.Identity

	guard guard.ConstructorGuard
}

func NewSignInPorterCommand(porter string) (SignInPorterCommand, error) {
	identity, err := kernel.NewIdentity(porter)
	if err != nil {
		return SignInPorterCommand{}, err
	}
	return SignInPorterCommand{porter: identity, guard: guard.NewConstructorGuard()}, nil
}

func (c SignInPorterCommand) Validate() error {
	return c.guard.Validate(ErrSignInPorterCommandIsNotConstructed)
}

func (c SignInPorterCommand) Porter() kernel.Identity { return c.porter }

// SignOutPorterCommand removes a porter from the registry. Signing out an
// unknown porter is harmless. Requests assigned to the porter keep their assignment.
type SignOutPorterCommand struct { //nolint:recvcheck //using for validation
	porter kernel.Identity

	guard guard.ConstructorGuard
}

func NewSignOutPorterCommand(porter string) (SignOutPorterCommand, error) {
	identity, err := kernel.NewIdentity(porter)
	if err != nil {
		return SignOutPorterCommand{}, err
	}
	return SignOutPorterCommand{porter: identity, guard: guard.NewConstructorGuard()}, nil
}

func (c SignOutPorterCommand) Validate() error {
	return c.guard.Validate(ErrSignOutPorterCommandIsNotConstructed)
}

func (c SignOutPorterCommand) Porter() kernel.Identity { return c.porter }
