package ports

import (
	"context"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/porter"
)

// PorterRepository is the Porter Registry's storage, bound to a Unit of Work.
// It stores identities only; availability is computed from the ledger.
type PorterRepository interface {
	// Add signs a porter in. It reports false when the porter was already signed in.
	Add(ctx context.Context, p porter.Porter) (bool, error)

	// Remove signs a porter out. It reports false when the porter was not signed in.
	Remove(ctx context.Context, identity kernel.Identity) (bool, error)

	// Contains reports whether identity is signed in.
	Contains(ctx context.Context, identity kernel.Identity) (bool, error)

	// GetAll returns signed-in porters in sign-in order.
	GetAll(ctx context.Context) ([]porter.Porter, error)
}
