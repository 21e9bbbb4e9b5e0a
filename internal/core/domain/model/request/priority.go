package request

import (
	"fmt"
	"strings"

	"porterage/internal/pkg/errs"
)

// Priority flags urgent requests for presentation. It never changes transition rules.
type Priority int

const (
	UnknownPriority Priority = iota
	Normal
	High
)

// Validate rejects UnknownPriority and out-of-range values.
func (p Priority) Validate() error {
	if p != Normal && p != High {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

// String returns "normal" or "high".
func (p Priority) String() string {
	switch p {
	case Normal:
		return "normal"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// ParsePriority accepts "normal", "high" and the text-message aliases "urgent" and "*".
// An empty string means Normal.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "high", "urgent", "*":
		return High, nil
	default:
		return UnknownPriority, errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a valid priority", s))
	}
}
