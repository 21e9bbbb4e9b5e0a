package services_test

import (
	"testing"
	"time"

	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/domain/services"
	"porterage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)

func ident(t *testing.T, v string) kernel.Identity {
	t.Helper()
	id, err := kernel.NewIdentity(v)
	require.NoError(t, err)
	return id
}

func newWaiting(t *testing.T, id int) *request.TransportRequest {
	t.Helper()
	from, _ := kernel.NewLocation("10/F")
	to, _ := kernel.NewLocation("3/F")
	r, err := request.NewTransportRequest(kernel.NewUUID(), id, from, to, request.Normal, ident(t, "A"), now)
	require.NoError(t, err)
	return r
}

func TestAssignmentCoordinator_Pickup(t *testing.T) {
	coordinator := services.NewAssignmentCoordinator()

	t.Run("assigns a signed-in free porter", func(t *testing.T) {
		r := newWaiting(t, 1)
		ledger := []*request.TransportRequest{r}

		err := coordinator.Pickup(r, ident(t, "B"), true, ledger, now)

		require.NoError(t, err)
		assert.Equal(t, request.PickedUp, r.Status())
		assert.True(t, r.IsAssignedTo(ident(t, "B")))
	})

	t.Run("rejects a porter who is not signed in", func(t *testing.T) {
		r := newWaiting(t, 1)

		err := coordinator.Pickup(r, ident(t, "B"), false, []*request.TransportRequest{r}, now)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
		assert.Contains(t, err.Error(), services.ErrPorterNotSignedIn.Error())
		assert.Equal(t, request.Waiting, r.Status())
	})

	t.Run("sign-in is checked before the request status", func(t *testing.T) {
		r := newWaiting(t, 1)
		ledger := []*request.TransportRequest{r}
		require.NoError(t, coordinator.Pickup(r, ident(t, "B"), true, ledger, now))

		err := coordinator.Pickup(r, ident(t, "C"), false, ledger, now)

		require.ErrorIs(t, err, errs.ErrUnauthorized)
		require.ErrorIs(t, err, services.ErrPorterNotSignedIn)
		assert.NotErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, r.IsAssignedTo(ident(t, "B")))
	})

	t.Run("a signed-in porter on a picked-up request gets an invalid transition", func(t *testing.T) {
		r := newWaiting(t, 1)
		ledger := []*request.TransportRequest{r}
		require.NoError(t, coordinator.Pickup(r, ident(t, "B"), true, ledger, now))

		err := coordinator.Pickup(r, ident(t, "C"), true, ledger, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, r.IsAssignedTo(ident(t, "B")))
	})

	t.Run("rejects a busy porter", func(t *testing.T) {
		first := newWaiting(t, 1)
		second := newWaiting(t, 2)
		ledger := []*request.TransportRequest{first, second}
		require.NoError(t, coordinator.Pickup(first, ident(t, "B"), true, ledger, now))

		err := coordinator.Pickup(second, ident(t, "B"), true, ledger, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Contains(t, err.Error(), services.ErrPorterIsBusy.Error())
		assert.Equal(t, request.Waiting, second.Status())
		_, has := second.AssignedPorter()
		assert.False(t, has)
	})

	t.Run("porter becomes free after finishing", func(t *testing.T) {
		first := newWaiting(t, 1)
		second := newWaiting(t, 2)
		ledger := []*request.TransportRequest{first, second}
		b := ident(t, "B")
		require.NoError(t, coordinator.Pickup(first, b, true, ledger, now))
		require.NoError(t, first.Transition(request.PickedUp, request.InTransit, b, now))
		require.NoError(t, first.Transition(request.InTransit, request.Finished, b, now))

		require.NoError(t, coordinator.Pickup(second, b, true, ledger, now))
	})

	t.Run("rejects a request that is not waiting", func(t *testing.T) {
		r := newWaiting(t, 1)
		ledger := []*request.TransportRequest{r}
		require.NoError(t, coordinator.Pickup(r, ident(t, "B"), true, ledger, now))

		err := coordinator.Pickup(r, ident(t, "C"), true, ledger, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.True(t, r.IsAssignedTo(ident(t, "B")))
	})
}

func TestAssignmentCoordinator_Availability(t *testing.T) {
	coordinator := services.NewAssignmentCoordinator()
	b, _ := porter.NewPorter(ident(t, "B"))
	c, _ := porter.NewPorter(ident(t, "C"))
	r := newWaiting(t, 1)
	ledger := []*request.TransportRequest{r}

	views := coordinator.Availability([]porter.Porter{b, c}, ledger)
	require.Len(t, views, 2)
	assert.Equal(t, porter.Available, views[0].Availability)
	assert.Equal(t, porter.Available, views[1].Availability)

	require.NoError(t, coordinator.Pickup(r, b.Identity(), true, ledger, now))

	views = coordinator.Availability([]porter.Porter{b, c}, ledger)
	assert.Equal(t, "B", views[0].Porter.Identity().String())
	assert.Equal(t, porter.Busy, views[0].Availability)
	assert.Equal(t, porter.Available, views[1].Availability)

	require.NoError(t, r.CancelPickup(now))

	views = coordinator.Availability([]porter.Porter{b, c}, ledger)
	assert.Equal(t, porter.Available, views[0].Availability)
}

func TestAssignmentCoordinator_ActiveAssignment(t *testing.T) {
	coordinator := services.NewAssignmentCoordinator()
	r := newWaiting(t, 7)
	ledger := []*request.TransportRequest{newWaiting(t, 6), r}
	require.NoError(t, coordinator.Pickup(r, ident(t, "B"), true, ledger, now))

	got, ok := coordinator.ActiveAssignment(ident(t, "B"), ledger)
	require.True(t, ok)
	assert.Equal(t, 7, got.ID())

	_, ok = coordinator.ActiveAssignment(ident(t, "C"), ledger)
	assert.False(t, ok)
}
