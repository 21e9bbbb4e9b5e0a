package request

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"porterage/internal/pkg/errs"
)

// DefaultIDCeiling is the largest queue number before wrapping back to 1.
const DefaultIDCeiling = 9999

// ErrSequenceExhausted is returned when every queue number up to the ceiling is held by a live request.
var ErrSequenceExhausted = errors.New("no free request id below the ceiling")

// ResetPolicy decides when queue numbers restart at 1.
type ResetPolicy int

const (
	// ResetDaily restarts numbering on the first request of each calendar day and wraps at the ceiling.
	ResetDaily ResetPolicy = iota + 1
	// ResetOnCeiling only wraps at the ceiling.
	ResetOnCeiling
	// ResetNever numbers monotonically for the life of the process.
	ResetNever
)

// String returns the configuration name of the policy.
func (p ResetPolicy) String() string {
	switch p {
	case ResetDaily:
		return "daily"
	case ResetOnCeiling:
		return "ceiling"
	case ResetNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseResetPolicy maps "daily", "ceiling" and "never" to a ResetPolicy. Empty means daily.
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily":
		return ResetDaily, nil
	case "ceiling":
		return ResetOnCeiling, nil
	case "never":
		return ResetNever, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause("id reset policy", fmt.Errorf("%q is not a valid policy", s))
	}
}

// Sequence allocates queue numbers. It is a plain value: the owner copies it into
// a Unit of Work and writes it back on commit, so allocation is atomic with the
// creation of the request that receives the number.
type Sequence struct {
	policy    ResetPolicy
	ceiling   int
	next      int
	lastReset time.Time
}

// NewSequence starts numbering at 1 on now's calendar day.
// ceiling is ignored for ResetNever.
func NewSequence(policy ResetPolicy, ceiling int, now time.Time) (Sequence, error) {
	if policy < ResetDaily || policy > ResetNever {
		return Sequence{}, errs.NewValueIsInvalidError("id reset policy")
	}
	if policy == ResetNever {
		ceiling = 0
	} else if ceiling < 1 {
		return Sequence{}, errs.NewValueIsOutOfRangeError("id ceiling", ceiling, 1, "unbounded")
	}

	return Sequence{
		policy:    policy,
		ceiling:   ceiling,
		next:      1,
		lastReset: now,
	}, nil
}

// Policy returns the configured reset policy.
func (s Sequence) Policy() ResetPolicy { return s.policy }

// Next returns the next queue number for a request created at now.
// inUse reports numbers held by live requests; they are skipped so a number is
// never shared by two requests in the queue.
func (s *Sequence) Next(now time.Time, inUse func(id int) bool) (int, error) {
	if s.policy == ResetDaily && !sameDay(s.lastReset, now) {
		s.next = 1
		s.lastReset = now
	}

	attempts := s.ceiling
	if attempts == 0 {
		attempts = 1 << 30
	}
	for range attempts {
		candidate := s.next
		s.advance()
		if inUse == nil || !inUse(candidate) {
			return candidate, nil
		}
	}
	return 0, ErrSequenceExhausted
}

func (s *Sequence) advance() {
	s.next++
	if s.ceiling > 0 && s.next > s.ceiling {
		s.next = 1
	}
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
