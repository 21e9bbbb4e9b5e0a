package kernel

import (
	"strings"
	"unicode/utf8"

	"porterage/internal/pkg/errs"
	"porterage/internal/pkg/guard"
)

// LocationMaxLength bounds a location label, in runes.
const LocationMaxLength = 64

// ErrLocationIsNotConstructed is returned when a Location was not created via NewLocation.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location must be created via NewLocation constructor")

// Location is a free-form place label such as "10/F" or "WARD 3B".
// Labels are trimmed, inner whitespace is collapsed and letters are upper-cased,
// so "10/f" and " 10/F " name the same place.
//
// The zero value is invalid.
type Location struct { //nolint:recvcheck //using for validation
	label string
	guard guard.ConstructorGuard
}

// NewLocation normalizes label and returns a Location.
// It fails when the normalized label is empty or longer than LocationMaxLength.
//
// Example:
//
//	loc, err := kernel.NewLocation(" 10/f ")
//	// loc.String() == "10/F"
func NewLocation(label string) (Location, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(label), " "))
	if normalized == "" {
		return Location{}, errs.NewValueIsRequiredError("location")
	}
	if n := utf8.RuneCountInString(normalized); n > LocationMaxLength {
		return Location{}, errs.NewValueIsOutOfRangeError("location length", n, 1, LocationMaxLength)
	}

	return Location{
		label: normalized,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Location was built by NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// String returns the normalized label.
func (l Location) String() string {
	return l.label
}

// IsEqual compares normalized labels.
func (l Location) IsEqual(other Location) bool {
	return l.label == other.label
}
