package jobs

import (
	"context"
	"log/slog"

	"porterage/internal/core/domain/model/porter"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/domain/services"
	"porterage/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultSnapshotSchedule runs the snapshot job every 15 seconds.
const DefaultSnapshotSchedule = "*/15 * * * * *"

// SnapshotObserver receives each snapshot, e.g. to refresh metric gauges.
type SnapshotObserver interface {
	ObserveSnapshot(snapshot ports.LedgerSnapshot)
}

// QueueSnapshotJob periodically reads a consistent view of the engine,
// hands it to the observers and logs a one-line queue summary.
type QueueSnapshotJob struct {
	reader      ports.LedgerReader
	observers   []SnapshotObserver
	schedule    string
	coordinator services.AssignmentCoordinator
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewQueueSnapshotJob creates the job. An empty schedule means DefaultSnapshotSchedule.
func NewQueueSnapshotJob(
	reader ports.LedgerReader,
	schedule string,
	logger *slog.Logger,
	observers ...SnapshotObserver,
) *QueueSnapshotJob {
	if schedule == "" {
		schedule = DefaultSnapshotSchedule
	}
	return &QueueSnapshotJob{
		reader:      reader,
		observers:   observers,
		schedule:    schedule,
		coordinator: services.NewAssignmentCoordinator(),
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "queue_snapshot_job"),
	}
}

// Start schedules the job. It fails on an invalid cron expression.
func (j *QueueSnapshotJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Queue snapshot job started", "schedule", j.schedule)
	return nil
}

// Run takes one snapshot. Start calls it on schedule.
func (j *QueueSnapshotJob) Run(ctx context.Context) {
	snapshot, err := j.reader.Snapshot(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Queue snapshot job failed", "error", err)
		return
	}

	for _, o := range j.observers {
		o.ObserveSnapshot(snapshot)
	}

	byStatus := make(map[request.Status]int)
	for _, r := range snapshot.Requests {
		byStatus[r.Status()]++
	}
	busy := 0
	for _, v := range j.coordinator.Availability(snapshot.Porters, snapshot.Requests) {
		if v.Availability == porter.Busy {
			busy++
		}
	}

	j.logger.InfoContext(ctx, "Queue snapshot",
		"waiting", byStatus[request.Waiting],
		"picked_up", byStatus[request.PickedUp],
		"in_transit", byStatus[request.InTransit],
		"finished", byStatus[request.Finished],
		"porters", len(snapshot.Porters),
		"porters_busy", busy,
		"journal", len(snapshot.Journal),
	)
}

// Stop stops the scheduler and waits for a running snapshot to finish.
func (j *QueueSnapshotJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Queue snapshot job stopped")
}
