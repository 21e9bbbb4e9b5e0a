package request

import (
	"fmt"

	"porterage/internal/pkg/errs"
)

// Status represents the lifecycle state of a transport request.
//
// State transitions:
//
//	          pickup           start             done
//	Waiting ─────────> PickedUp ─────> InTransit ─────> Finished
//	   ^                  │                │                │
//	   ├──cancel_pickup───┘                │                │
//	   └──────────────undo─────────────────┴────────────────┘
//
// Cancellation is not a status: a cancelled request is removed from the ledger.
type Status int

const (
	// Unknown is the zero value and is never a valid status.
	Unknown Status = iota

	// Waiting is the initial status; the request sits in the queue without a porter.
	Waiting

	// PickedUp means a porter accepted the request and is on the way.
	PickedUp

	// InTransit means the porter started moving the patient or goods.
	InTransit

	// Finished is terminal for forward transitions and kept for history and metrics.
	Finished
)

var statusNames = map[Status]string{
	Unknown:   "Unknown",
	Waiting:   "Waiting",
	PickedUp:  "PickedUp",
	InTransit: "InTransit",
	Finished:  "Finished",
}

var statusCodes = map[Status]string{
	Waiting:   "waiting",
	PickedUp:  "picked_up",
	InTransit: "in_transit",
	Finished:  "finished",
}

// forward lists the porter-driven transitions: expected current status -> target.
var forward = map[Status]Status{
	Waiting:   PickedUp,
	PickedUp:  InTransit,
	InTransit: Finished,
}

// Validate returns an error for Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusCodes[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name, "Unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Code returns the snake_case wire name used by the REST and event payloads.
func (s Status) Code() string {
	if code, ok := statusCodes[s]; ok {
		return code
	}
	return "unknown"
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(code string) (Status, error) {
	for s, c := range statusCodes {
		if c == code {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", code))
}

// IsActive reports whether the request is still in the queue (not Finished).
func (s Status) IsActive() bool {
	return s == Waiting || s == PickedUp || s == InTransit
}

// IsLive reports whether the status carries a porter assignment.
func (s Status) IsLive() bool {
	return s == PickedUp || s == InTransit
}

// ValidateCanHavePorter checks the assignment invariant:
// a porter is present iff the status is PickedUp or InTransit.
func (s Status) ValidateCanHavePorter(hasPorter bool) error {
	if hasPorter && !s.IsLive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a porter", s),
		)
	}
	if !hasPorter && s.IsLive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no porter", s),
		)
	}
	return nil
}

// Transition checks a porter-driven step from expected to target.
// It fails with errs.ErrInvalidTransition when the current status differs from expected
// or when expected -> target is not one of pickup, start or done.
func (s Status) Transition(expected, target Status) (Status, error) {
	if next, ok := forward[expected]; !ok || next != target {
		return Unknown, errs.NewInvalidTransitionErrorWithCause(
			expected.String(), target.String(), fmt.Errorf("not a porter transition"),
		)
	}
	if s != expected {
		return Unknown, errs.NewInvalidTransitionErrorWithCause(
			s.String(), target.String(), fmt.Errorf("expected status %s", expected),
		)
	}
	return target, nil
}

// CancelPickup reverts PickedUp to Waiting.
func (s Status) CancelPickup() (Status, error) {
	if s != PickedUp {
		return Unknown, errs.NewInvalidTransitionError(s.String(), Waiting.String())
	}
	return Waiting, nil
}

// Undo reverts any valid status to Waiting. Waiting stays Waiting.
func (s Status) Undo() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	return Waiting, nil
}
