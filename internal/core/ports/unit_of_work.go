package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the single mutual-exclusion scope over the Request Ledger,
// the Porter Registry and the journal. One command runs inside one Unit of Work:
// every read-check-write happens between Begin and Commit, and a Rollback
// leaves the shared state exactly as it was before Begin.
type UnitOfWork interface {
	// Begin acquires exclusive access to the shared state.
	Begin(ctx context.Context) error

	// Commit publishes all staged changes and releases exclusive access.
	// Returns error if no Unit of Work is active.
	Commit(ctx context.Context) error

	// Rollback discards staged changes and releases exclusive access.
	// Returns error if no Unit of Work is active.
	Rollback(ctx context.Context) error

	// RequestRepository returns the ledger bound to this Unit of Work.
	RequestRepository() RequestRepository

	// PorterRepository returns the registry bound to this Unit of Work.
	PorterRepository() PorterRepository

	// JournalRepository returns the transport log bound to this Unit of Work.
	JournalRepository() JournalRepository
}
