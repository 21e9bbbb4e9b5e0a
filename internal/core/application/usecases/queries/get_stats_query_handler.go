package queries

import (
	"context"

	"porterage/internal/core/domain/services"
	"porterage/internal/core/ports"
)

type GetStatsQueryHandler struct {
	reader ports.LedgerReader
}

func NewGetStatsQueryHandler(reader ports.LedgerReader) GetStatsQueryHandler {
	return GetStatsQueryHandler{reader: reader}
}

// Handle computes the statistics from one consistent snapshot.
func (h GetStatsQueryHandler) Handle(ctx context.Context, query GetStatsQuery) (services.TransportStatistics, error) {
	if err := query.Validate(); err != nil {
		return services.TransportStatistics{}, err
	}

	snapshot, err := h.reader.Snapshot(ctx)
	if err != nil {
		return services.TransportStatistics{}, err
	}
	return services.ComputeStatistics(snapshot.Requests, len(snapshot.Journal)), nil
}
