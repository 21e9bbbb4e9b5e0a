package services

import (
	"math"

	"porterage/internal/core/domain/model/request"
)

// TransportStatistics summarizes completed work.
type TransportStatistics struct {
	CompletedTransports   int
	AverageTransitMinutes float64
	LogCount              int
}

// ComputeStatistics averages startedAt -> statusChangedAt over Finished requests,
// in minutes rounded to one decimal. The average is 0 when nothing has finished.
func ComputeStatistics(ledger []*request.TransportRequest, logCount int) TransportStatistics {
	var (
		completed int
		total     float64
	)
	for _, r := range ledger {
		d, ok := r.TransitDuration()
		if !ok {
			continue
		}
		completed++
		total += d.Minutes()
	}

	stats := TransportStatistics{CompletedTransports: completed, LogCount: logCount}
	if completed > 0 {
		stats.AverageTransitMinutes = math.Round(total/float64(completed)*10) / 10
	}
	return stats
}
