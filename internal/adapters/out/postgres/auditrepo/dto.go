// Package auditrepo persists every engine event to PostgreSQL as an append-only
// audit trail. The in-memory ledger stays the source of truth; the table is
// written after each commit and is never read back into the engine.
package auditrepo

import (
	"time"

	"porterage/internal/core/domain/model/event"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TransportEventDTO is one row of the transport_events table.
type TransportEventDTO struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Kind       string         `gorm:"type:varchar(32);not null;index"`
	OccurredAt time.Time      `gorm:"not null;index"`
	Actor      string         `gorm:"type:varchar(255)"`
	RequestKey *uuid.UUID     `gorm:"type:uuid;index"`
	RequestID  int            `gorm:"type:int;index"`
	FromLabel  string         `gorm:"type:varchar(64)"`
	ToLabel    string         `gorm:"type:varchar(64)"`
	Priority   string         `gorm:"type:varchar(16)"`
	Status     string         `gorm:"type:varchar(16)"`
	Requester  string         `gorm:"type:varchar(255)"`
	Porter     string         `gorm:"type:varchar(255)"`
	Notify     pq.StringArray `gorm:"type:text[]"`
	Summary    string         `gorm:"type:text;not null"`
}

// TableName overrides GORM's default "transport_event_dtos".
func (TransportEventDTO) TableName() string {
	return "transport_events"
}

func fromDomain(e event.Event) TransportEventDTO {
	dto := TransportEventDTO{
		ID:         e.ID.Bytes(),
		Kind:       string(e.Kind),
		OccurredAt: e.OccurredAt.UTC(),
		Actor:      e.Actor.String(),
		Porter:     e.Porter.String(),
		Summary:    e.Summary(),
		Notify:     make(pq.StringArray, 0, len(e.Notify)),
	}
	for _, n := range e.Notify {
		dto.Notify = append(dto.Notify, n.String())
	}

	if e.HasRequest() {
		key := e.RequestKey.Bytes()
		dto.RequestKey = &key
		dto.RequestID = e.RequestID
		dto.FromLabel = e.From.String()
		dto.ToLabel = e.To.String()
		dto.Priority = e.Priority.String()
		dto.Status = e.Status.Code()
		dto.Requester = e.Requester.String()
	}
	return dto
}
