package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	httpadapter "porterage/internal/adapters/in/http"
	"porterage/internal/adapters/in/textcmd"
	"porterage/internal/adapters/out/eventlog"
	"porterage/internal/adapters/out/kafka"
	"porterage/internal/adapters/out/memory"
	"porterage/internal/adapters/out/metrics"
	"porterage/internal/adapters/out/notify"
	"porterage/internal/adapters/out/postgres/auditrepo"
	"porterage/internal/adapters/out/rabbitmq"
	"porterage/internal/core/application/usecases/commands"
	"porterage/internal/core/application/usecases/queries"
	"porterage/internal/core/ports"
	"porterage/internal/jobs"
	"porterage/internal/pkg/ratelimiter"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	logger     *slog.Logger
	clock      commands.Clock
	store      *memory.Store
	uowFactory *memory.UnitOfWorkFactory
	collector  *metrics.Collector
	publisher  *notify.Fanout
	closers    []io.Closer
}

// Option customises a CompositionRoot.
type Option func(*CompositionRoot)

// WithClock replaces time.Now for every handler.
func WithClock(clock commands.Clock) Option {
	return func(c *CompositionRoot) { c.clock = clock }
}

// NewCompositionRoot wires the engine. gormDB may be nil, which disables the
// audit archive; Kafka and RabbitMQ sinks are added when configured.
func NewCompositionRoot(configs Config, logger *slog.Logger, gormDB *gorm.DB, opts ...Option) (*CompositionRoot, error) {
	c := &CompositionRoot{
		configs:   configs,
		logger:    logger,
		clock:     time.Now,
		collector: metrics.NewCollector(),
	}
	for _, opt := range opts {
		opt(c)
	}

	sequence, err := configs.Sequence(c.clock())
	if err != nil {
		return nil, fmt.Errorf("id sequence: %w", err)
	}
	c.store = memory.NewStore(sequence)
	c.uowFactory = memory.NewUnitOfWorkFactory(c.store)

	sinks := []ports.EventSink{eventlog.NewSink(logger), c.collector}

	if gormDB != nil {
		if err = auditrepo.Migrate(gormDB); err != nil {
			return nil, err
		}
		sinks = append(sinks, auditrepo.NewGormAuditRepository(gormDB))
	}

	if configs.KafkaHost != "" {
		producer := kafka.NewProducer(configs.KafkaHost, configs.KafkaTransportEventsTopic)
		sinks = append(sinks, producer)
		c.closers = append(c.closers, producer)
	}

	if configs.RabbitMQURL != "" {
		notifier, rErr := rabbitmq.NewNotifier(configs.RabbitMQURL, configs.OutboundQueue)
		if rErr != nil {
			_ = c.Close()
			return nil, rErr
		}
		sinks = append(sinks, notifier)
		c.closers = append(c.closers, notifier)
	}

	c.publisher = notify.NewFanout(logger, sinks...)
	logger.Info("Event sinks configured", "sinks", c.publisher.Sinks())
	return c, nil
}

// Close releases broker connections.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) requestUoW() commands.RequestUoWFactory {
	return FuncRequestUoWFactory(func() commands.RequestUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) porterUoW() commands.PorterUoWFactory {
	return FuncPorterUoWFactory(func() commands.PorterUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateRequestCommandHandler() commands.CreateRequestCommandHandler {
	return commands.NewCreateRequestCommandHandler(c.requestUoW(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateTransitionRequestCommandHandler() commands.TransitionRequestCommandHandler {
	return commands.NewTransitionRequestCommandHandler(c.uow(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateCancelRequestCommandHandler() commands.CancelRequestCommandHandler {
	return commands.NewCancelRequestCommandHandler(c.uow(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateCancelPickupCommandHandler() commands.CancelPickupCommandHandler {
	return commands.NewCancelPickupCommandHandler(c.requestUoW(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateUndoRequestCommandHandler() commands.UndoRequestCommandHandler {
	return commands.NewUndoRequestCommandHandler(c.requestUoW(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateSignInPorterCommandHandler() commands.SignInPorterCommandHandler {
	return commands.NewSignInPorterCommandHandler(c.porterUoW(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateSignOutPorterCommandHandler() commands.SignOutPorterCommandHandler {
	return commands.NewSignOutPorterCommandHandler(c.porterUoW(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateListRequestsQueryHandler() queries.ListRequestsQueryHandler {
	return queries.NewListRequestsQueryHandler(c.store)
}

func (c *CompositionRoot) CreateListPortersQueryHandler() queries.ListPortersQueryHandler {
	return queries.NewListPortersQueryHandler(c.store)
}

func (c *CompositionRoot) CreateGetStatsQueryHandler() queries.GetStatsQueryHandler {
	return queries.NewGetStatsQueryHandler(c.store)
}

func (c *CompositionRoot) CreateListJournalQueryHandler() queries.ListJournalQueryHandler {
	return queries.NewListJournalQueryHandler(c.store)
}

func (c *CompositionRoot) textHandlers() textcmd.Handlers {
	return textcmd.Handlers{
		CreateRequest: c.CreateCreateRequestCommandHandler(),
		Transition:    c.CreateTransitionRequestCommandHandler(),
		CancelRequest: c.CreateCancelRequestCommandHandler(),
		CancelPickup:  c.CreateCancelPickupCommandHandler(),
		UndoRequest:   c.CreateUndoRequestCommandHandler(),
		SignIn:        c.CreateSignInPorterCommandHandler(),
		SignOut:       c.CreateSignOutPorterCommandHandler(),
		ListRequests:  c.CreateListRequestsQueryHandler(),
		ListPorters:   c.CreateListPortersQueryHandler(),
	}
}

func (c *CompositionRoot) CreateTextDispatcher() *textcmd.Dispatcher {
	limiter := ratelimiter.New(c.configs.SenderDebounce, 0)
	return textcmd.NewDispatcher(c.textHandlers(), limiter, c.clock, c.logger)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	handlers := httpadapter.Handlers{
		Handlers:    c.textHandlers(),
		GetStats:    c.CreateGetStatsQueryHandler(),
		ListJournal: c.CreateListJournalQueryHandler(),
	}
	return httpadapter.NewServer(handlers, c.CreateTextDispatcher(), c.collector.Handler(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	snapshot := jobs.NewQueueSnapshotJob(c.store, c.configs.SnapshotSchedule, c.logger, c.collector)
	return jobs.NewJobManager(snapshot)
}

type FuncRequestUoWFactory func() commands.RequestUoW

func (f FuncRequestUoWFactory) Create() commands.RequestUoW {
	return f()
}

type FuncPorterUoWFactory func() commands.PorterUoW

func (f FuncPorterUoWFactory) Create() commands.PorterUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
