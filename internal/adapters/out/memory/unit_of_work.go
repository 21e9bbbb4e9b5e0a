package memory

import (
	"context"
	"errors"

	"porterage/internal/core/ports"
)

// ErrNoActiveUnitOfWork is returned by Commit, Rollback and repository calls
// made outside Begin ... Commit/Rollback.
var ErrNoActiveUnitOfWork = errors.New("no active unit of work")

// UnitOfWorkFactory creates UnitOfWork instances bound to one Store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory for the given store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a fresh, inactive UnitOfWork. Instances must not be shared
// between goroutines.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages changes on a private copy of the store's state while
// holding the store's write lock.
type UnitOfWork struct {
	store *Store
	work  *state
}

// Begin acquires the write lock and clones the state.
// Calling Begin on an active UnitOfWork does nothing.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.work != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	uow.store.mu.Lock()
	work := uow.store.state.clone()
	uow.work = &work
	return nil
}

// Commit replaces the store's state with the staged copy and releases the lock.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	if uow.work == nil {
		return ErrNoActiveUnitOfWork
	}

	uow.store.state = *uow.work
	uow.work = nil
	uow.store.mu.Unlock()
	return nil
}

// Rollback drops the staged copy and releases the lock.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.work == nil {
		return ErrNoActiveUnitOfWork
	}

	uow.work = nil
	uow.store.mu.Unlock()
	return nil
}

func (uow *UnitOfWork) RequestRepository() ports.RequestRepository {
	return requestRepository{uow: uow}
}

func (uow *UnitOfWork) PorterRepository() ports.PorterRepository {
	return porterRepository{uow: uow}
}

func (uow *UnitOfWork) JournalRepository() ports.JournalRepository {
	return journalRepository{uow: uow}
}

func (uow *UnitOfWork) active() (*state, error) {
	if uow.work == nil {
		return nil, ErrNoActiveUnitOfWork
	}
	return uow.work, nil
}
