package kernel_test

import (
	"strings"
	"testing"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{name: "keeps an upper-case label", label: "10/F", expected: "10/F"},
		{name: "upper-cases letters", label: "ward 3b", expected: "WARD 3B"},
		{name: "trims and collapses whitespace", label: "  x-ray   dept ", expected: "X-RAY DEPT"},
		{name: "keeps non-latin labels", label: "急症室", expected: "急症室"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := kernel.NewLocation(tt.label)

			require.NoError(t, err)
			require.NoError(t, loc.Validate())
			assert.Equal(t, tt.expected, loc.String())
		})
	}

	t.Run("rejects a blank label", func(t *testing.T) {
		_, err := kernel.NewLocation("   ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects an overlong label", func(t *testing.T) {
		_, err := kernel.NewLocation(strings.Repeat("A", kernel.LocationMaxLength+1))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestLocation_IsEqual(t *testing.T) {
	a, _ := kernel.NewLocation("3/f")
	b, _ := kernel.NewLocation(" 3/F")
	c, _ := kernel.NewLocation("4/F")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}

func TestLocation_ZeroValueIsInvalid(t *testing.T) {
	var loc kernel.Location

	assert.Equal(t, kernel.ErrLocationIsNotConstructed, loc.Validate())
}
