package commands_test

import (
	"context"
	"sync"
	"time"

	"porterage/internal/core/application/usecases/commands"
	"porterage/internal/core/domain/model/event"
	"porterage/internal/core/domain/model/journal"
	"porterage/internal/core/domain/model/kernel"
	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) NextID(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockRequestRepository) Add(ctx context.Context, r *request.TransportRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) Update(ctx context.Context, r *request.TransportRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) Remove(ctx context.Context, key kernel.UUID) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRequestRepository) Get(ctx context.Context, id int) (*request.TransportRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.TransportRequest), args.Error(1)
}

func (m *MockRequestRepository) GetAll(ctx context.Context) ([]*request.TransportRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.TransportRequest), args.Error(1)
}

func (m *MockRequestRepository) ListLive(ctx context.Context) ([]*request.TransportRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.TransportRequest), args.Error(1)
}

type MockPorterRepository struct{ mock.Mock }

func (m *MockPorterRepository) Add(ctx context.Context, p porter.Porter) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPorterRepository) Remove(ctx context.Context, identity kernel.Identity) (bool, error) {
	args := m.Called(ctx, identity)
	return args.Bool(0), args.Error(1)
}

func (m *MockPorterRepository) Contains(ctx context.Context, identity kernel.Identity) (bool, error) {
	args := m.Called(ctx, identity)
	return args.Bool(0), args.Error(1)
}

func (m *MockPorterRepository) GetAll(ctx context.Context) ([]porter.Porter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]porter.Porter), args.Error(1)
}

type MockJournalRepository struct{ mock.Mock }

func (m *MockJournalRepository) Append(ctx context.Context, entry journal.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) RequestRepository() ports.RequestRepository {
	args := m.Called()
	return args.Get(0).(ports.RequestRepository)
}

func (m *MockUoW) PorterRepository() ports.PorterRepository {
	args := m.Called()
	return args.Get(0).(ports.PorterRepository)
}

func (m *MockUoW) JournalRepository() ports.JournalRepository {
	args := m.Called()
	return args.Get(0).(ports.JournalRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockRequestUoWFactory struct{ mock.Mock }

func (m *MockRequestUoWFactory) Create() commands.RequestUoW {
	args := m.Called()
	return args.Get(0).(commands.RequestUoW)
}

type MockPorterUoWFactory struct{ mock.Mock }

func (m *MockPorterUoWFactory) Create() commands.PorterUoW {
	args := m.Called()
	return args.Get(0).(commands.PorterUoW)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) Events() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Event(nil), p.events...)
}

func (p *recordingPublisher) Last() event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }
