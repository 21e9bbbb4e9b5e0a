package queries

import (
	"errors"

	"porterage/internal/core/domain/model/porter"
	"porterage/internal/pkg/guard"
)

var ErrListPortersQueryIsNotConstructed = errors.New(
	"ListPortersQuery must be created via NewListPortersQuery constructor",
)

// ListPortersQuery lists signed-in porters in sign-in order with their derived availability.
type ListPortersQuery struct {
	guard guard.ConstructorGuard
}

func NewListPortersQuery() ListPortersQuery {
	return ListPortersQuery{guard: guard.NewConstructorGuard()}
}

func (q ListPortersQuery) Validate() error {
	return q.guard.Validate(ErrListPortersQueryIsNotConstructed)
}

// PorterResponse pairs a porter with its availability.
type PorterResponse struct {
	Identity     string
	Availability porter.Availability
}
