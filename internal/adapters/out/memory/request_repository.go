package memory

import (
	"context"
	"slices"
	"time"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/errs"
)

type requestRepository struct {
	uow *UnitOfWork
}

// NextID advances the staged sequence. Numbers held by requests still in the
// queue are skipped, so after a reset a new request never shadows an active one.
func (r requestRepository) NextID(_ context.Context, now time.Time) (int, error) {
	work, err := r.uow.active()
	if err != nil {
		return 0, err
	}

	live := make(map[int]struct{}, len(work.live))
	for i := range work.live {
		live[work.live[i].req.ID()] = struct{}{}
	}
	return work.sequence.Next(now, func(id int) bool {
		_, ok := live[id]
		return ok
	})
}

func (r requestRepository) Add(_ context.Context, aggregate *request.TransportRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	work, err := r.uow.active()
	if err != nil {
		return err
	}

	e := entry{seq: work.nextSeq, req: *aggregate}
	work.nextSeq++
	if aggregate.Status() == request.Finished {
		work.finished = append(work.finished, e)
	} else {
		work.live = append(work.live, e)
	}
	return nil
}

// Update stores aggregate under its key and moves it between the live set and
// the finished history when its status crosses Finished.
func (r requestRepository) Update(_ context.Context, aggregate *request.TransportRequest) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	work, err := r.uow.active()
	if err != nil {
		return err
	}
	finished := aggregate.Status() == request.Finished

	if i := indexByKey(work.live, aggregate.Key()); i >= 0 {
		e := entry{seq: work.live[i].seq, req: *aggregate}
		if !finished {
			work.live[i] = e
			return nil
		}
		work.live = slices.Delete(work.live, i, i+1)
		work.finished = insertBySeq(work.finished, e, work)
		return nil
	}

	i := indexByKey(work.finished, aggregate.Key())
	if i < 0 {
		return errs.NewObjectNotFoundError("request", aggregate.ID())
	}
	work.ownFinished()
	e := entry{seq: work.finished[i].seq, req: *aggregate}
	if finished {
		work.finished[i] = e
		return nil
	}
	work.finished = slices.Delete(work.finished, i, i+1)
	work.live = insertBySeq(work.live, e, nil)
	return nil
}

func (r requestRepository) Remove(_ context.Context, key kernel.UUID) error {
	work, err := r.uow.active()
	if err != nil {
		return err
	}

	if i := indexByKey(work.live, key); i >= 0 {
		work.live = slices.Delete(work.live, i, i+1)
		return nil
	}
	i := indexByKey(work.finished, key)
	if i < 0 {
		return errs.NewObjectNotFoundError("request", key.String())
	}
	work.ownFinished()
	work.finished = slices.Delete(work.finished, i, i+1)
	return nil
}

// Get returns the most recently inserted request with that number, live or finished.
func (r requestRepository) Get(_ context.Context, id int) (*request.TransportRequest, error) {
	work, err := r.uow.active()
	if err != nil {
		return nil, err
	}

	var newest *entry
	for _, entries := range [][]entry{work.live, work.finished} {
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].req.ID() != id {
				continue
			}
			if newest == nil || entries[i].seq > newest.seq {
				newest = &entries[i]
			}
			break
		}
	}
	if newest == nil {
		return nil, errs.NewObjectNotFoundError("request", id)
	}
	found := newest.req
	return &found, nil
}

func (r requestRepository) GetAll(_ context.Context) ([]*request.TransportRequest, error) {
	work, err := r.uow.active()
	if err != nil {
		return nil, err
	}
	return work.ledger(), nil
}

func (r requestRepository) ListLive(_ context.Context) ([]*request.TransportRequest, error) {
	work, err := r.uow.active()
	if err != nil {
		return nil, err
	}

	out := make([]*request.TransportRequest, 0, len(work.live))
	for i := range work.live {
		c := work.live[i].req
		out = append(out, &c)
	}
	return out, nil
}

func indexByKey(entries []entry, key kernel.UUID) int {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].req.Key().IsEqual(key) {
			return i
		}
	}
	return -1
}

// insertBySeq keeps entries ordered by insertion number. Appending at the end
// needs no copy; an insert into the finished history detaches it first.
func insertBySeq(entries []entry, e entry, owner *state) []entry {
	i, _ := slices.BinarySearchFunc(entries, e.seq, func(x entry, seq uint64) int {
		switch {
		case x.seq < seq:
			return -1
		case x.seq > seq:
			return 1
		default:
			return 0
		}
	})
	if i == len(entries) {
		return append(entries, e)
	}
	if owner != nil {
		owner.ownFinished()
		entries = owner.finished
	}
	return slices.Insert(entries, i, e)
}
