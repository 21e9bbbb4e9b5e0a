package ports

import (
	"context"

	"porterage/internal/core/domain/model/journal"
)

// JournalRepository is the append-only transport log, bound to a Unit of Work.
type JournalRepository interface {
	Append(ctx context.Context, entry journal.Entry) error
}
