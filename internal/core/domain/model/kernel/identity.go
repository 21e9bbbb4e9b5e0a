package kernel

import (
	"strings"

	"porterage/internal/pkg/errs"
	"porterage/internal/pkg/guard"
)

// ErrIdentityIsNotConstructed is returned when an Identity was not created via NewIdentity.
var ErrIdentityIsNotConstructed = errs.NewValueIsRequiredError("identity must be created via NewIdentity constructor")

// Identity is an opaque contact identifier for a requester or a porter:
// a phone number, a messaging handle, a session token. It is compared
// verbatim after trimming surrounding whitespace and is never parsed.
type Identity struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// NewIdentity trims value and rejects an empty result.
func NewIdentity(value string) (Identity, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Identity{}, errs.NewValueIsRequiredError("identity")
	}
	return Identity{value: trimmed, guard: guard.NewConstructorGuard()}, nil
}

// Validate checks that the Identity was built by NewIdentity.
func (i Identity) Validate() error {
	return i.guard.Validate(ErrIdentityIsNotConstructed)
}

// String returns the identifier as given by the caller.
func (i Identity) String() string {
	return i.value
}

// IsEqual compares two identities verbatim.
func (i Identity) IsEqual(other Identity) bool {
	return i.value == other.value
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.value == ""
}
