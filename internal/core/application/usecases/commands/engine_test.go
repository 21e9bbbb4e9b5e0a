package commands_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"porterage/internal/adapters/out/memory"
	"porterage/internal/core/application/usecases/commands"
	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/domain/services"
	"porterage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactoryFunc func() commands.UoW

func (f uowFactoryFunc) Create() commands.UoW { return f() }

type requestUoWFactoryFunc func() commands.RequestUoW

func (f requestUoWFactoryFunc) Create() commands.RequestUoW { return f() }

type porterUoWFactoryFunc func() commands.PorterUoW

func (f porterUoWFactoryFunc) Create() commands.PorterUoW { return f() }

// engine wires every command handler to one in-memory store.
type engine struct {
	t         *testing.T
	store     *memory.Store
	publisher *recordingPublisher
	now       time.Time

	create       commands.CreateRequestCommandHandler
	transition   commands.TransitionRequestCommandHandler
	cancel       commands.CancelRequestCommandHandler
	cancelPickup commands.CancelPickupCommandHandler
	undo         commands.UndoRequestCommandHandler
	signIn       commands.SignInPorterCommandHandler
	signOut      commands.SignOutPorterCommandHandler
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	seq, err := request.NewSequence(request.ResetDaily, request.DefaultIDCeiling, testNow)
	require.NoError(t, err)

	e := &engine{t: t, store: memory.NewStore(seq), publisher: new(recordingPublisher), now: testNow}
	factory := memory.NewUnitOfWorkFactory(e.store)
	clock := func() time.Time { return e.now }

	all := uowFactoryFunc(func() commands.UoW { return factory.Create() })
	requests := requestUoWFactoryFunc(func() commands.RequestUoW { return factory.Create() })
	porters := porterUoWFactoryFunc(func() commands.PorterUoW { return factory.Create() })

	e.create = commands.NewCreateRequestCommandHandler(requests, e.publisher, clock)
	e.transition = commands.NewTransitionRequestCommandHandler(all, e.publisher, clock)
	e.cancel = commands.NewCancelRequestCommandHandler(all, e.publisher, clock)
	e.cancelPickup = commands.NewCancelPickupCommandHandler(requests, e.publisher, clock)
	e.undo = commands.NewUndoRequestCommandHandler(requests, e.publisher, clock)
	e.signIn = commands.NewSignInPorterCommandHandler(porters, e.publisher, clock)
	e.signOut = commands.NewSignOutPorterCommandHandler(porters, e.publisher, clock)
	return e
}

func (e *engine) newRequest(from, to, requester string) *request.TransportRequest {
	cmd, err := commands.NewCreateRequestCommand(from, to, request.Normal, requester)
	require.NoError(e.t, err)
	r, err := e.create.Handle(e.t.Context(), cmd)
	require.NoError(e.t, err)
	return r
}

func (e *engine) signInPorter(p string) {
	cmd, err := commands.NewSignInPorterCommand(p)
	require.NoError(e.t, err)
	_, err = e.signIn.Handle(e.t.Context(), cmd)
	require.NoError(e.t, err)
}

func (e *engine) step(build func(int, string) (commands.TransitionRequestCommand, error), id int, actor string) error {
	cmd, err := build(id, actor)
	require.NoError(e.t, err)
	_, err = e.transition.Handle(e.t.Context(), cmd)
	return err
}

func (e *engine) requestByID(id int) (*request.TransportRequest, bool) {
	snap, err := e.store.Snapshot(e.t.Context())
	require.NoError(e.t, err)
	for i := len(snap.Requests) - 1; i >= 0; i-- {
		if snap.Requests[i].ID() == id {
			return snap.Requests[i], true
		}
	}
	return nil, false
}

func (e *engine) availability(p string) porter.Availability {
	snap, err := e.store.Snapshot(e.t.Context())
	require.NoError(e.t, err)
	for _, v := range services.NewAssignmentCoordinator().Availability(snap.Porters, snap.Requests) {
		if v.Porter.Identity().String() == p {
			return v.Availability
		}
	}
	e.t.Fatalf("porter %s is not signed in", p)
	return 0
}

// assertInvariants checks the assignment invariants over the whole ledger.
func (e *engine) assertInvariants() {
	snap, err := e.store.Snapshot(e.t.Context())
	require.NoError(e.t, err)
	live := make(map[string]int)
	for _, r := range snap.Requests {
		_, hasPorter := r.AssignedPorter()
		require.NoError(e.t, r.Status().ValidateCanHavePorter(hasPorter), "request %d", r.ID())
		if p, ok := r.AssignedPorter(); ok && r.IsLive() {
			live[p.String()]++
		}
	}
	for p, n := range live {
		assert.LessOrEqual(e.t, n, 1, "porter %s holds %d live requests", p, n)
	}
}

func TestEngine_HappyPath(t *testing.T) {
	e := newEngine(t)

	created := e.newRequest("10F", "3F", "A")
	assert.Equal(t, 1, created.ID())
	assert.Equal(t, request.Waiting, created.Status())

	e.signInPorter("B")
	assert.Equal(t, porter.Available, e.availability("B"))

	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))
	r, _ := e.requestByID(1)
	assert.Equal(t, request.PickedUp, r.Status())
	assert.True(t, r.IsAssignedTo(mustIdentity(t, "B")))
	assert.Equal(t, porter.Busy, e.availability("B"))

	e.now = e.now.Add(time.Minute)
	require.NoError(t, e.step(commands.NewStartCommand, 1, "B"))
	r, _ = e.requestByID(1)
	assert.Equal(t, request.InTransit, r.Status())
	started, ok := r.StartedAt()
	require.True(t, ok)
	assert.Equal(t, e.now, started)

	e.now = e.now.Add(4 * time.Minute)
	require.NoError(t, e.step(commands.NewFinishCommand, 1, "B"))
	r, _ = e.requestByID(1)
	assert.Equal(t, request.Finished, r.Status())
	assert.Equal(t, porter.Available, e.availability("B"))

	snap, err := e.store.Snapshot(t.Context())
	require.NoError(t, err)
	stats := services.ComputeStatistics(snap.Requests, len(snap.Journal))
	assert.Equal(t, 1, stats.CompletedTransports)
	assert.InDelta(t, 4.0, stats.AverageTransitMinutes, 0.001)
	assert.Equal(t, 3, stats.LogCount)

	kinds := make([]event.Kind, 0)
	for _, ev := range e.publisher.Events() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []event.Kind{
		event.RequestCreated, event.PorterSignedIn, event.RequestPickedUp,
		event.TransportStarted, event.TransportFinished,
	}, kinds)
	e.assertInvariants()
}

func TestEngine_BusyPorterCannotPickUpAnother(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	e.newRequest("2F", "G", "A")
	e.signInPorter("B")

	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))
	err := e.step(commands.NewPickupCommand, 2, "B")

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	require.ErrorIs(t, err, services.ErrPorterIsBusy)
	r, _ := e.requestByID(2)
	assert.Equal(t, request.Waiting, r.Status())
	e.assertInvariants()
}

func TestEngine_RequesterCancelsPickedUpRequest(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	e.signInPorter("B")
	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))

	before, err := e.store.Snapshot(t.Context())
	require.NoError(t, err)

	cmd, err := commands.NewCancelRequestCommand(1, "A")
	require.NoError(t, err)
	cancelled, err := e.cancel.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled.ID())

	_, found := e.requestByID(1)
	assert.False(t, found)
	assert.Equal(t, porter.Available, e.availability("B"))

	after, err := e.store.Snapshot(t.Context())
	require.NoError(t, err)
	require.Len(t, after.Journal, len(before.Journal)+1)
	assert.Equal(t, "Request 1 cancelled by A", after.Journal[len(after.Journal)-1].Description())

	last := e.publisher.Last()
	assert.Equal(t, event.RequestCancelled, last.Kind)
	require.Len(t, last.Notify, 1)
	assert.Equal(t, "B", last.Notify[0].String())
}

func TestEngine_CancelFailures(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	e.signInPorter("B")

	cancel := func(id int, actor string) error {
		cmd, err := commands.NewCancelRequestCommand(id, actor)
		require.NoError(t, err)
		_, err = e.cancel.Handle(t.Context(), cmd)
		return err
	}

	require.ErrorIs(t, cancel(9, "A"), errs.ErrObjectNotFound)
	require.ErrorIs(t, cancel(1, "C"), errs.ErrUnauthorized)

	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))
	require.NoError(t, e.step(commands.NewStartCommand, 1, "B"))
	require.NoError(t, e.step(commands.NewFinishCommand, 1, "B"))
	require.ErrorIs(t, cancel(1, "A"), errs.ErrAlreadyFinished)

	_, found := e.requestByID(1)
	assert.True(t, found)
}

func TestEngine_AssignedPorterMayCancel(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	e.signInPorter("B")
	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))
	require.NoError(t, e.step(commands.NewStartCommand, 1, "B"))

	cmd, _ := commands.NewCancelRequestCommand(1, "B")
	_, err := e.cancel.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, porter.Available, e.availability("B"))
	last := e.publisher.Last()
	require.Len(t, last.Notify, 1)
	assert.Equal(t, "A", last.Notify[0].String())
}

func TestEngine_StartAndFinishRequireAssignedPorter(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	e.signInPorter("B")
	e.signInPorter("C")

	require.ErrorIs(t, e.step(commands.NewStartCommand, 1, "B"), errs.ErrInvalidTransition)
	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))
	require.ErrorIs(t, e.step(commands.NewStartCommand, 1, "C"), errs.ErrUnauthorized)
	require.ErrorIs(t, e.step(commands.NewFinishCommand, 1, "B"), errs.ErrInvalidTransition)
	require.NoError(t, e.step(commands.NewStartCommand, 1, "B"))
	require.ErrorIs(t, e.step(commands.NewFinishCommand, 1, "C"), errs.ErrUnauthorized)
	require.ErrorIs(t, e.step(commands.NewPickupCommand, 1, "C"), errs.ErrInvalidTransition)
	e.assertInvariants()
}

func TestEngine_UndoFromEveryStatus(t *testing.T) {
	for _, steps := range []int{1, 2, 3} {
		e := newEngine(t)
		e.newRequest("10F", "3F", "A")
		e.signInPorter("B")
		builders := []func(int, string) (commands.TransitionRequestCommand, error){
			commands.NewPickupCommand, commands.NewStartCommand, commands.NewFinishCommand,
		}
		for _, b := range builders[:steps] {
			require.NoError(t, e.step(b, 1, "B"))
		}

		cmd, _ := commands.NewUndoRequestCommand(1)
		reverted, changed, err := e.undo.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, request.Waiting, reverted.Status())
		_, hasPorter := reverted.AssignedPorter()
		assert.False(t, hasPorter)
		_, hasStart := reverted.StartedAt()
		assert.False(t, hasStart)
		assert.Equal(t, porter.Available, e.availability("B"))
		e.assertInvariants()
	}
}

func TestEngine_UndoWaitingIsNoOp(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	published := len(e.publisher.Events())

	cmd, _ := commands.NewUndoRequestCommand(1)
	_, changed, err := e.undo.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, e.publisher.Events(), published)

	missing, _ := commands.NewUndoRequestCommand(2)
	_, _, err = e.undo.Handle(t.Context(), missing)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestEngine_CancelPickup(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	e.signInPorter("B")

	cmd, _ := commands.NewCancelPickupCommand(1)
	_, err := e.cancelPickup.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))
	reverted, err := e.cancelPickup.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, request.Waiting, reverted.Status())
	assert.Equal(t, porter.Available, e.availability("B"))

	last := e.publisher.Last()
	assert.Equal(t, event.PickupCancelled, last.Kind)
	assert.Equal(t, "B", last.Porter.String())

	missing, _ := commands.NewCancelPickupCommand(5)
	_, err = e.cancelPickup.Handle(t.Context(), missing)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestEngine_SignInOutIdempotent(t *testing.T) {
	e := newEngine(t)

	in, _ := commands.NewSignInPorterCommand("B")
	added, err := e.signIn.Handle(t.Context(), in)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = e.signIn.Handle(t.Context(), in)
	require.NoError(t, err)
	assert.False(t, added)

	snap, _ := e.store.Snapshot(t.Context())
	assert.Len(t, snap.Porters, 1)

	out, _ := commands.NewSignOutPorterCommand("unknown")
	removed, err := e.signOut.Handle(t.Context(), out)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, e.publisher.Events(), 1)
}

func TestEngine_SignOutKeepsAssignment(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	e.signInPorter("B")
	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))

	out, _ := commands.NewSignOutPorterCommand("B")
	removed, err := e.signOut.Handle(t.Context(), out)
	require.NoError(t, err)
	assert.True(t, removed)

	r, _ := e.requestByID(1)
	assert.Equal(t, request.PickedUp, r.Status())
	assert.True(t, r.IsAssignedTo(mustIdentity(t, "B")))

	// the orphaned porter may still move the request forward
	require.NoError(t, e.step(commands.NewStartCommand, 1, "B"))
}

func TestEngine_ConcurrentPickupsOnlyOneWins(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")

	const porters = 16
	for i := range porters {
		e.signInPorter(porterName(i))
	}

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := range porters {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			cmd, err := commands.NewPickupCommand(1, name)
			if err != nil {
				return
			}
			if _, err = e.transition.Handle(t.Context(), cmd); err == nil {
				wins.Add(1)
			}
		}(porterName(i))
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	snap, err := e.store.Snapshot(t.Context())
	require.NoError(t, err)
	assert.Len(t, snap.Journal, 1)
	e.assertInvariants()
}

func TestEngine_ConcurrentPickupsByOnePorter(t *testing.T) {
	e := newEngine(t)
	const requests = 8
	for range requests {
		e.newRequest("10F", "3F", "A")
	}
	e.signInPorter("B")

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for id := 1; id <= requests; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			cmd, err := commands.NewPickupCommand(id, "B")
			if err != nil {
				return
			}
			if _, err = e.transition.Handle(t.Context(), cmd); err == nil {
				wins.Add(1)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	e.assertInvariants()
}

func TestEngine_NewestRequestWinsAfterDailyReset(t *testing.T) {
	e := newEngine(t)
	e.newRequest("10F", "3F", "A")
	e.signInPorter("B")
	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))
	require.NoError(t, e.step(commands.NewStartCommand, 1, "B"))
	require.NoError(t, e.step(commands.NewFinishCommand, 1, "B"))

	e.now = e.now.Add(24 * time.Hour)
	next := e.newRequest("5F", "G", "A")
	assert.Equal(t, 1, next.ID())

	require.NoError(t, e.step(commands.NewPickupCommand, 1, "B"))
	r, _ := e.requestByID(1)
	assert.True(t, r.Key().IsEqual(next.Key()))
	assert.Equal(t, request.PickedUp, r.Status())
}

func porterName(i int) string {
	return "porter-" + string(rune('a'+i))
}

func mustIdentity(t *testing.T, v string) kernel.Identity {
	t.Helper()
	id, err := kernel.NewIdentity(v)
	require.NoError(t, err)
	return id
}
