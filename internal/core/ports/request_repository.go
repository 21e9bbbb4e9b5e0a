package ports

import (
	"context"
	"time"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
)

// RequestRepository is the Request Ledger's storage, bound to a Unit of Work.
// Returned aggregates are copies; changes become visible to others only through
// Update or Remove followed by a commit.
type RequestRepository interface {
	// NextID allocates the next queue number for a request created at now,
	// applying the id reset policy and skipping numbers held by live requests.
	NextID(ctx context.Context, now time.Time) (int, error)

	// Add appends a new request at the end of the ledger.
	Add(ctx context.Context, aggregate *request.TransportRequest) error

	// Update stores a changed request under its key.
	// Returns errs.ErrObjectNotFound when the key is unknown.
	Update(ctx context.Context, aggregate *request.TransportRequest) error

	// Remove deletes a request; used by cancellation.
	// Returns errs.ErrObjectNotFound when the key is unknown.
	Remove(ctx context.Context, key kernel.UUID) error

	// Get returns the newest request carrying queue number id.
	// Returns errs.ErrObjectNotFound when no request has that number.
	Get(ctx context.Context, id int) (*request.TransportRequest, error)

	// GetAll returns the whole ledger in creation order.
	GetAll(ctx context.Context) ([]*request.TransportRequest, error)

	// ListLive returns the requests that are not Finished, in creation order.
	ListLive(ctx context.Context) ([]*request.TransportRequest, error)
}
