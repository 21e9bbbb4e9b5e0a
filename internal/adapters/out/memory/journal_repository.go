package memory

import (
	"context"

	"porterage/internal/core/domain/model/journal"
)

type journalRepository struct {
	uow *UnitOfWork
}

func (r journalRepository) Append(_ context.Context, entry journal.Entry) error {
	work, err := r.uow.active()
	if err != nil {
		return err
	}
	work.journal = append(work.journal, entry)
	return nil
}
