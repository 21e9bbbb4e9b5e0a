package commands_test

import (
	"testing"

	"porterage/internal/core/application/usecases/commands"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateRequestCommand(t *testing.T) {
	t.Run("normalises input", func(t *testing.T) {
		cmd, err := commands.NewCreateRequestCommand(" 10/f ", "3/f", request.High, " nurse-a ")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, "10/F", cmd.From().String())
		assert.Equal(t, "3/F", cmd.To().String())
		assert.Equal(t, request.High, cmd.Priority())
		assert.Equal(t, "nurse-a", cmd.Requester().String())
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		_, err := commands.NewCreateRequestCommand("", " ", request.UnknownPriority, "")

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.CreateRequestCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateRequestCommandIsNotConstructed)
	})
}

func TestNewTransitionRequestCommand(t *testing.T) {
	tests := []struct {
		name     string
		build    func() (commands.TransitionRequestCommand, error)
		expected request.Status
		target   request.Status
	}{
		{"pickup", func() (commands.TransitionRequestCommand, error) { return commands.NewPickupCommand(1, "b") }, request.Waiting, request.PickedUp},
		{"start", func() (commands.TransitionRequestCommand, error) { return commands.NewStartCommand(1, "b") }, request.PickedUp, request.InTransit},
		{"finish", func() (commands.TransitionRequestCommand, error) { return commands.NewFinishCommand(1, "b") }, request.InTransit, request.Finished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := tt.build()

			require.NoError(t, err)
			assert.Equal(t, 1, cmd.ID())
			assert.Equal(t, tt.expected, cmd.Expected())
			assert.Equal(t, tt.target, cmd.Target())
			assert.Equal(t, "b", cmd.Actor().String())
		})
	}

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := commands.NewPickupCommand(0, "b")
		require.ErrorIs(t, err, request.ErrIDIsInvalid)

		_, err = commands.NewStartCommand(1, "")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = commands.NewTransitionRequestCommand(1, request.Waiting, request.Waiting, "b")
		require.ErrorIs(t, err, errs.ErrInvalidTransition)

		_, err = commands.NewTransitionRequestCommand(1, request.Unknown, request.PickedUp, "b")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.TransitionRequestCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrTransitionRequestCommandIsNotConstructed)
	})
}

func TestIDOnlyCommands(t *testing.T) {
	cancelPickup, err := commands.NewCancelPickupCommand(4)
	require.NoError(t, err)
	assert.Equal(t, 4, cancelPickup.ID())

	undo, err := commands.NewUndoRequestCommand(5)
	require.NoError(t, err)
	assert.Equal(t, 5, undo.ID())

	_, err = commands.NewCancelPickupCommand(-1)
	require.ErrorIs(t, err, request.ErrIDIsInvalid)
	_, err = commands.NewUndoRequestCommand(0)
	require.ErrorIs(t, err, request.ErrIDIsInvalid)

	var zeroCancelPickup commands.CancelPickupCommand
	require.ErrorIs(t, zeroCancelPickup.Validate(), commands.ErrCancelPickupCommandIsNotConstructed)
	var zeroUndo commands.UndoRequestCommand
	require.ErrorIs(t, zeroUndo.Validate(), commands.ErrUndoRequestCommandIsNotConstructed)
}

func TestNewCancelRequestCommand(t *testing.T) {
	cmd, err := commands.NewCancelRequestCommand(2, "nurse-a")
	require.NoError(t, err)
	assert.Equal(t, 2, cmd.ID())
	assert.Equal(t, "nurse-a", cmd.Actor().String())

	_, err = commands.NewCancelRequestCommand(0, "")
	require.ErrorIs(t, err, request.ErrIDIsInvalid)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero commands.CancelRequestCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrCancelRequestCommandIsNotConstructed)
}

func TestPorterCommands(t *testing.T) {
	in, err := commands.NewSignInPorterCommand(" porter-b ")
	require.NoError(t, err)
	assert.Equal(t, "porter-b", in.Porter().String())

	out, err := commands.NewSignOutPorterCommand("porter-b")
	require.NoError(t, err)
	assert.Equal(t, "porter-b", out.Porter().String())

	_, err = commands.NewSignInPorterCommand("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	_, err = commands.NewSignOutPorterCommand("  ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zeroIn commands.SignInPorterCommand
	require.ErrorIs(t, zeroIn.Validate(), commands.ErrSignInPorterCommandIsNotConstructed)
	var zeroOut commands.SignOutPorterCommand
	require.ErrorIs(t, zeroOut.Validate(), commands.ErrSignOutPorterCommandIsNotConstructed)
}
