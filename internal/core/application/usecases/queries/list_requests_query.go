package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/errs"
	"porterage/internal/pkg/guard"
)

var ErrListRequestsQueryIsNotConstructed = errors.New(
	"ListRequestsQuery must be created via NewListRequestsQuery constructor",
)

// Scope selects which part of the ledger a listing returns.
type Scope int

const (
	// ScopeActive lists requests that are not Finished.
	ScopeActive Scope = iota + 1
	// ScopeAll lists the whole ledger, finished history included.
	ScopeAll
)

// ParseScope accepts "active" and "all". Empty means active.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return ScopeActive, nil
	case "all":
		return ScopeAll, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("scope", fmt.Errorf("%q is not active or all", s))
	}
}

// ListRequestsQuery lists requests in creation order, the FIFO order porters work in.
//
// Example:
//
//	query, _ := NewListRequestsQuery(ScopeActive)
//	waiting, err := handler.Handle(ctx, query)
//	for _, r := range waiting {
//	    fmt.Printf("%d %s -> %s %s\n", r.ID, r.From, r.To, r.Status)
//	}
type ListRequestsQuery struct {
	scope Scope
	guard guard.ConstructorGuard
}

func NewListRequestsQuery(scope Scope) (ListRequestsQuery, error) {
	if scope != ScopeActive && scope != ScopeAll {
		return ListRequestsQuery{}, errs.NewValueIsInvalidError("scope")
	}
	return ListRequestsQuery{scope: scope, guard: guard.NewConstructorGuard()}, nil
}

func (q ListRequestsQuery) Validate() error {
	return q.guard.Validate(ErrListRequestsQueryIsNotConstructed)
}

func (q ListRequestsQuery) Scope() Scope { return q.scope }

// RequestResponse is a read model of one ledger entry.
// AssignedPorter is empty and StartedAt is nil when not set.
type RequestResponse struct {
	Key             string
	ID              int
	From            string
	To              string
	Status          request.Status
	Priority        request.Priority
	Requester       string
	AssignedPorter  string
	CreatedAt       time.Time
	StatusChangedAt time.Time
	StartedAt       *time.Time
}

// NewRequestResponse flattens a request into its read model.
func NewRequestResponse(r *request.TransportRequest) RequestResponse {
	resp := RequestResponse{
		Key:             r.Key().String(),
		ID:              r.ID(),
		From:            r.From().String(),
		To:              r.To().String(),
		Status:          r.Status(),
		Priority:        r.Priority(),
		Requester:       r.Requester().String(),
		CreatedAt:       r.CreatedAt(),
		StatusChangedAt: r.StatusChangedAt(),
	}
	if p, ok := r.AssignedPorter(); ok {
		resp.AssignedPorter = p.String()
	}
	if started, ok := r.StartedAt(); ok {
		resp.StartedAt = &started
	}
	return resp
}
