package queries

import (
	"context"

	"porterage/internal/core/domain/services"
	"porterage/internal/core/ports"
)

// ListPortersQueryHandler derives availability from the ledger snapshot taken
// together with the registry, so the two never disagree.
type ListPortersQueryHandler struct {
	reader      ports.LedgerReader
	coordinator services.AssignmentCoordinator
}

func NewListPortersQueryHandler(reader ports.LedgerReader) ListPortersQueryHandler {
	return ListPortersQueryHandler{reader: reader, coordinator: services.NewAssignmentCoordinator()}
}

func (h ListPortersQueryHandler) Handle(ctx context.Context, query ListPortersQuery) ([]PorterResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := h.reader.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	views := h.coordinator.Availability(snapshot.Porters, snapshot.Requests)
	out := make([]PorterResponse, 0, len(views))
	for _, v := range views {
		out = append(out, PorterResponse{
			Identity:     v.Porter.Identity().String(),
			Availability: v.Availability,
		})
	}
	return out, nil
}
