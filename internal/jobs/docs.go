// Package jobs provides scheduled background tasks for the porterage service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// QueueSnapshotJob reads a consistent snapshot of the ledger and the porter
// registry, refreshes the metric gauges and logs a queue summary. It runs every
// 15 seconds unless SNAPSHOT_SCHEDULE says otherwise (six-field cron syntax,
// seconds first).
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	snapshot := jobs.NewQueueSnapshotJob(store, cfg.SnapshotSchedule, logger, collector)
//	jobManager := jobs.NewJobManager(snapshot)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed snapshot is logged and retried on the next tick. A failed job start
// stops any already running jobs.
package jobs
