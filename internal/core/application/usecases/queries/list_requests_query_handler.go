package queries

import (
	"context"

	"porterage/internal/core/ports"
)

// ListRequestsQueryHandler reads the ledger from a consistent snapshot.
type ListRequestsQueryHandler struct {
	reader ports.LedgerReader
}

func NewListRequestsQueryHandler(reader ports.LedgerReader) ListRequestsQueryHandler {
	return ListRequestsQueryHandler{reader: reader}
}

func (h ListRequestsQueryHandler) Handle(ctx context.Context, query ListRequestsQuery) ([]RequestResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := h.reader.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RequestResponse, 0, len(snapshot.Requests))
	for _, r := range snapshot.Requests {
		if query.Scope() == ScopeActive && !r.Status().IsActive() {
			continue
		}
		out = append(out, NewRequestResponse(r))
	}
	return out, nil
}
