package commands_test

import (
	"testing"

	"porterage/internal/core/application/usecases/commands"
	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/journal"
	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/domain/services"
	"porterage/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func waitingRequest(t *testing.T, id int) *request.TransportRequest {
	t.Helper()
	from, _ := kernel.NewLocation("10/F")
	to, _ := kernel.NewLocation("3/F")
	requester, _ := kernel.NewIdentity("nurse-a")
	r, err := request.NewTransportRequest(kernel.NewUUID(), id, from, to, request.Normal, requester, testNow)
	require.NoError(t, err)
	return r
}

func TestTransitionRequestCommandHandler_Pickup_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPickupCommand(1, "porter-b")
	require.NoError(t, err)
	target := waitingRequest(t, 1)

	requestRepo := new(MockRequestRepository)
	porterRepo := new(MockPorterRepository)
	journalRepo := new(MockJournalRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	publisher := new(recordingPublisher)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo)
	uow.On("PorterRepository").Return(porterRepo).Once()
	uow.On("JournalRepository").Return(journalRepo).Once()
	requestRepo.On("Get", ctx, 1).Return(target, nil).Once()
	porterRepo.On("Contains", ctx, cmd.Actor()).Return(true, nil).Once()
	requestRepo.On("ListLive", ctx).Return([]*request.TransportRequest{waitingRequest(t, 1)}, nil).Once()
	requestRepo.On("Update", ctx, target).Return(nil).Once()
	journalRepo.On("Append", ctx, mock.MatchedBy(func(e journal.Entry) bool {
		return e.Description() == "Request 1 picked up by porter-b"
	})).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionRequestCommandHandler(factory, publisher, fixedClock)
	updated, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, request.PickedUp, updated.Status())
	assert.True(t, updated.IsAssignedTo(cmd.Actor()))

	got := publisher.Last()
	assert.Equal(t, event.RequestPickedUp, got.Kind)
	require.Len(t, got.Notify, 1)
	assert.Equal(t, "nurse-a", got.Notify[0].String())

	requestRepo.AssertExpectations(t)
	porterRepo.AssertExpectations(t)
	journalRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionRequestCommandHandler_Pickup_NotSignedIn(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewPickupCommand(1, "stranger")

	requestRepo := new(MockRequestRepository)
	porterRepo := new(MockPorterRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	publisher := new(recordingPublisher)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo)
	uow.On("PorterRepository").Return(porterRepo).Once()
	requestRepo.On("Get", ctx, 1).Return(waitingRequest(t, 1), nil).Once()
	porterRepo.On("Contains", ctx, cmd.Actor()).Return(false, nil).Once()
	requestRepo.On("ListLive", ctx).Return([]*request.TransportRequest{}, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionRequestCommandHandler(factory, publisher, fixedClock)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.ErrorIs(t, err, services.ErrPorterNotSignedIn)
	requestRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
	assert.Empty(t, publisher.Events())
}

func TestTransitionRequestCommandHandler_Start_NotFound(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewStartCommand(9, "porter-b")

	requestRepo := new(MockRequestRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo).Once()
	requestRepo.On("Get", ctx, 9).Return(nil, errs.NewObjectNotFoundError("request", 9)).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionRequestCommandHandler(factory, new(recordingPublisher), fixedClock)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertExpectations(t)
}

func TestTransitionRequestCommandHandler_Start_WrongStatus(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewStartCommand(1, "porter-b")

	requestRepo := new(MockRequestRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("RequestRepository").Return(requestRepo).Once()
	requestRepo.On("Get", ctx, 1).Return(waitingRequest(t, 1), nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewTransitionRequestCommandHandler(factory, new(recordingPublisher), fixedClock)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	uow.AssertNotCalled(t, "JournalRepository")
	uow.AssertNotCalled(t, "Commit", ctx)
}
