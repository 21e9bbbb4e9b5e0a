// Package memory holds the dispatch engine's shared state in process memory and
// implements the Unit of Work pattern on top of it.
//
// One Store owns the Request Ledger, the Porter Registry, the transport journal
// and the id sequence. A single sync.RWMutex guards all four:
//   - UnitOfWork.Begin takes the write lock and clones the mutable state
//   - repositories read and write the clone only
//   - Commit swaps the clone in and unlocks; Rollback drops it and unlocks
//
// A failed command therefore leaves the shared state exactly as it found it,
// and a read-check-write sequence (find request, check status, assign porter)
// can never interleave with another one.
//
// Only requests that are not Finished are copied by Begin; the finished history
// and the journal are appended to in place, so a command costs O(live requests)
// however long the process has run.
//
// Queries use Snapshot, which copies the state under the read lock.
//
// Usage:
//
//	store := memory.NewStore(sequence)
//	factory := memory.NewUnitOfWorkFactory(store)
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.RequestRepository().Add(ctx, req); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
package memory

import (
	"context"
	"slices"
	"sync"

	"porterage/internal/core/domain/model/journal"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/ports"
)

// entry is a stored request with its insertion number, which fixes ledger order.
type entry struct {
	seq uint64
	req request.TransportRequest
}

// state is everything a Unit of Work may change. Requests are stored by value
// so a shallow slice copy is a deep copy.
//
// live holds requests that are not Finished and is cloned per Unit of Work.
// finished and journal only grow in the common case, so a Unit of Work shares
// them with the store and appends past the committed length, which the store
// never sees until Commit. finished is cloned before its first in-place change.
type state struct {
	live          []entry
	finished      []entry
	finishedOwned bool
	porters       []porter.Porter
	journal       []journal.Entry
	sequence      request.Sequence
	nextSeq       uint64
}

func (s state) clone() state {
	return state{
		live:     slices.Clone(s.live),
		finished: s.finished,
		porters:  slices.Clone(s.porters),
		journal:  s.journal,
		sequence: s.sequence,
		nextSeq:  s.nextSeq,
	}
}

// ownFinished detaches the finished history from the store before it is edited in place.
func (s *state) ownFinished() {
	if !s.finishedOwned {
		s.finished = slices.Clone(s.finished)
		s.finishedOwned = true
	}
}

// ledger merges live and finished requests back into insertion order.
func (s *state) ledger() []*request.TransportRequest {
	out := make([]*request.TransportRequest, 0, len(s.live)+len(s.finished))
	i, j := 0, 0
	for i < len(s.live) || j < len(s.finished) {
		var e entry
		if j >= len(s.finished) || (i < len(s.live) && s.live[i].seq < s.finished[j].seq) {
			e = s.live[i]
			i++
		} else {
			e = s.finished[j]
			j++
		}
		r := e.req
		out = append(out, &r)
	}
	return out
}

// Store is the process-wide engine state. Its zero value is not usable.
type Store struct {
	mu    sync.RWMutex
	state state
}

var _ ports.LedgerReader = (*Store)(nil)

// NewStore creates an empty store that allocates queue numbers from sequence.
func NewStore(sequence request.Sequence) *Store {
	return &Store{
		state: state{sequence: sequence},
	}
}

// Snapshot copies the ledger, the registry and the journal under the read lock.
// The returned requests are independent of the store.
func (s *Store) Snapshot(ctx context.Context) (ports.LedgerSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return ports.LedgerSnapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return ports.LedgerSnapshot{
		Requests: s.state.ledger(),
		Porters:  slices.Clone(s.state.porters),
		Journal:  slices.Clone(s.state.journal),
	}, nil
}
