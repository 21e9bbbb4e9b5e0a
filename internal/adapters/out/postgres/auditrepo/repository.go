package auditrepo

import (
	"context"
	"errors"
	"fmt"

	"porterage/internal/core/domain/model/event"
	"porterage/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAuditRepository appends events to transport_events. It is a ports.EventSink.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a repository over db.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Migrate creates or updates the transport_events table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&TransportEventDTO{}); err != nil {
		return fmt.Errorf("migrate transport_events: %w", err)
	}
	return nil
}

func (r *GormAuditRepository) Name() string { return "postgres" }

// Send inserts the event. Redelivering an event with a known ID is a no-op.
func (r *GormAuditRepository) Send(ctx context.Context, e event.Event) error {
	if err := e.ID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(e)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dto).Error
}

// ListByRequest returns the audit trail of one queue number, oldest first.
// Queue numbers are reused after an id reset, so rows of several requests may match.
func (r *GormAuditRepository) ListByRequest(ctx context.Context, requestID int) ([]TransportEventDTO, error) {
	if requestID <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("request id", requestID, 1, "unbounded")
	}

	var rows []TransportEventDTO
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("occurred_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errs.NewObjectNotFoundErrorWithCause("request", requestID, errors.New("no audit rows"))
	}
	return rows, nil
}

// Count returns the number of stored events of kind, or of every kind when kind is empty.
func (r *GormAuditRepository) Count(ctx context.Context, kind event.Kind) (int64, error) {
	q := r.db.WithContext(ctx).Model(&TransportEventDTO{})
	if kind != "" {
		q = q.Where("kind = ?", string(kind))
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
