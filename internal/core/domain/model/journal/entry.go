// Package journal holds the append-only transport log: one Entry per
// porter-visible transition (pickup, start, finish, cancel). Entries are never
// mutated or removed; their count feeds the stats report.
package journal

import (
	"strings"
	"time"

	"porterage/internal/pkg/errs"
)

// Entry is one line of the transport log.
type Entry struct {
	occurredAt  time.Time
	description string
}

// NewEntry rejects blank descriptions and zero timestamps.
func NewEntry(occurredAt time.Time, description string) (Entry, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Entry{}, errs.NewValueIsRequiredError("description")
	}
	if occurredAt.IsZero() {
		return Entry{}, errs.NewValueIsRequiredError("occurredAt")
	}
	return Entry{occurredAt: occurredAt, description: description}, nil
}

func (e Entry) OccurredAt() time.Time { return e.occurredAt }

func (e Entry) Description() string { return e.description }
