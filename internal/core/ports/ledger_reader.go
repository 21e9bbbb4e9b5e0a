package ports

import (
	"context"

	"porterage/internal/core/domain/model/journal"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
)

// LedgerSnapshot is a consistent copy of the shared state taken at one instant.
type LedgerSnapshot struct {
	Requests []*request.TransportRequest
	Porters  []porter.Porter
	Journal  []journal.Entry
}

// LedgerReader serves read-only queries without taking exclusive access.
type LedgerReader interface {
	Snapshot(ctx context.Context) (LedgerSnapshot, error)
}
