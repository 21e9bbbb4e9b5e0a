// Package porter models the Porter Registry's entries and their derived availability.
package porter

import (
	"errors"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/pkg/guard"
)

// ErrPorterIsNotConstructed is returned when a Porter was not created through NewPorter.
var ErrPorterIsNotConstructed = errors.New("Porter must be created via NewPorter constructor")

// Porter is a signed-in worker. Only the identity is stored; whether the porter
// is busy is always computed from the ledger, never kept here.
type Porter struct { //nolint:recvcheck //using for validation
	identity kernel.Identity
	guard    guard.ConstructorGuard
}

// NewPorter wraps a validated identity.
func NewPorter(identity kernel.Identity) (Porter, error) {
	if err := identity.Validate(); err != nil {
		return Porter{}, err
	}
	return Porter{identity: identity, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the porter was built by NewPorter.
func (p Porter) Validate() error {
	return p.guard.Validate(ErrPorterIsNotConstructed)
}

// Identity returns the porter's contact identifier.
func (p Porter) Identity() kernel.Identity {
	return p.identity
}

// IsEqual compares porters by identity.
func (p Porter) IsEqual(other Porter) bool {
	return p.identity.IsEqual(other.identity)
}

// Availability is derived: Busy iff a live request names the porter.
type Availability int

const (
	Available Availability = iota + 1
	Busy
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

// View pairs a porter with its derived availability.
type View struct {
	Porter       Porter
	Availability Availability
}
