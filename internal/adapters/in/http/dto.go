package http

import (
	"time"

	"porterage/internal/core/application/usecases/queries"
)

// Error is the body of every non-2xx JSON response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Priority  string `json:"priority,omitempty"`
	Urgent    bool   `json:"urgent,omitempty"`
	Requester string `json:"requester"`
}

type PorterAction struct {
	Porter string `json:"porter"`
}

type CancelAction struct {
	Actor string `json:"actor"`
}

type Request struct {
	Key             string     `json:"key"`
	ID              int        `json:"id"`
	From            string     `json:"from"`
	To              string     `json:"to"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	Requester       string     `json:"requester"`
	Porter          string     `json:"porter,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	StatusChangedAt time.Time  `json:"status_changed_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
}

type UndoResult struct {
	Request Request `json:"request"`
	Changed bool    `json:"changed"`
}

type RegistryResult struct {
	Porter  string `json:"porter"`
	Changed bool   `json:"changed"`
}

type Porter struct {
	Porter string `json:"porter"`
	Status string `json:"status"`
}

type Stats struct {
	CompletedTransports  int     `json:"completed_transports"`
	AverageTransportTime float64 `json:"average_transport_time"`
	LogCount             int     `json:"log_count"`
}

type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
	Line    string    `json:"line"`
}

// WebhookMessage is an inbound chat message, posted as a form or as JSON.
type WebhookMessage struct {
	From string `json:"From" form:"From"`
	Body string `json:"Body" form:"Body"`
}

func toRequest(r queries.RequestResponse) Request {
	return Request{
		Key:             r.Key,
		ID:              r.ID,
		From:            r.From,
		To:              r.To,
		Status:          r.Status.Code(),
		Priority:        r.Priority.String(),
		Requester:       r.Requester,
		Porter:          r.AssignedPorter,
		CreatedAt:       r.CreatedAt,
		StatusChangedAt: r.StatusChangedAt,
		StartedAt:       r.StartedAt,
	}
}

func toRequests(rs []queries.RequestResponse) []Request {
	out := make([]Request, len(rs))
	for i, r := range rs {
		out[i] = toRequest(r)
	}
	return out
}

func toLogEntry(e queries.JournalEntryResponse) LogEntry {
	return LogEntry{
		Time:    e.OccurredAt,
		Message: e.Description,
		Line:    "[" + e.OccurredAt.Format("2006-01-02 15:04:05") + "] " + e.Description,
	}
}
