// Package commands contains business operations that modify engine state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, one Unit of Work,
// commit, then event publication outside the Unit of Work.
package commands

import (
	"context"
	"time"

	"porterage/internal/core/ports"
)

// Unit of Work interfaces provide the mutual-exclusion scope for command handlers.
// Each handler asks only for the repositories it touches.
type (
	// TxManager handles the Unit of Work lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// RequestRepoFactory provides access to the Request Ledger within a Unit of Work.
	RequestRepoFactory interface {
		RequestRepository() ports.RequestRepository
	}

	// PorterRepoFactory provides access to the Porter Registry within a Unit of Work.
	PorterRepoFactory interface {
		PorterRepository() ports.PorterRepository
	}

	// JournalRepoFactory provides access to the transport log within a Unit of Work.
	JournalRepoFactory interface {
		JournalRepository() ports.JournalRepository
	}

	// RequestUoW is used by commands that touch the ledger only.
	RequestUoW interface {
		TxManager
		RequestRepoFactory
	}

	// RequestUoWFactory creates new ledger-only units of work.
	RequestUoWFactory interface {
		Create() RequestUoW
	}

	// PorterUoW is used by sign-in and sign-out.
	PorterUoW interface {
		TxManager
		PorterRepoFactory
	}

	// PorterUoWFactory creates new registry-only units of work.
	PorterUoWFactory interface {
		Create() PorterUoW
	}

	// UoW spans the ledger, the registry and the journal.
	// Used by every porter-visible transition.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   requestRepo := uow.RequestRepository()
	//   porterRepo := uow.PorterRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		RequestRepoFactory
		PorterRepoFactory
		JournalRepoFactory
	}

	// UoWFactory creates new units of work spanning all engine state.
	UoWFactory interface {
		Create() UoW
	}
)

// Clock returns the current time. Handlers read it once per command.
type Clock func() time.Time
