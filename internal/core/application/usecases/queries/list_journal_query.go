package queries

import (
	"errors"
	"time"

	"porterage/internal/pkg/guard"
)

var ErrListJournalQueryIsNotConstructed = errors.New(
	"ListJournalQuery must be created via NewListJournalQuery constructor",
)

// ListJournalQuery returns the transport log oldest first.
type ListJournalQuery struct {
	guard guard.ConstructorGuard
}

func NewListJournalQuery() ListJournalQuery {
	return ListJournalQuery{guard: guard.NewConstructorGuard()}
}

func (q ListJournalQuery) Validate() error {
	return q.guard.Validate(ErrListJournalQueryIsNotConstructed)
}

type JournalEntryResponse struct {
	OccurredAt  time.Time
	Description string
}
