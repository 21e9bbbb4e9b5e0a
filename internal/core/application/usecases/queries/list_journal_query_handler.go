package queries

import (
	"context"

	"porterage/internal/core/ports"
)

type ListJournalQueryHandler struct {
	reader ports.LedgerReader
}

func NewListJournalQueryHandler(reader ports.LedgerReader) ListJournalQueryHandler {
	return ListJournalQueryHandler{reader: reader}
}

func (h ListJournalQueryHandler) Handle(ctx context.Context, query ListJournalQuery) ([]JournalEntryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := h.reader.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]JournalEntryResponse, 0, len(snapshot.Journal))
	for _, e := range snapshot.Journal {
		out = append(out, JournalEntryResponse{OccurredAt: e.OccurredAt(), Description: e.Description()})
	}
	return out, nil
}
