// Package jobs provides scheduled background tasks for the order coordinator.
//
// Jobs are cron-based and use github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// OutboxRelayJob re-publishes domain events that could not reach the event bus when
// they were raised. It runs on OUTBOX_SCHEDULE (every five seconds by default) and
// skips a tick while the previous pass is still running.
//
// # Usage
//
//	relay := jobs.NewOutboxRelayJob(relayHandler, cfg.OutboxSchedule, cfg.OutboxBatchSize, logger)
//	jobManager := jobs.NewJobManager(relay)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed pass is logged. Messages that failed to publish are rescheduled by the
// handler with exponential backoff, so nothing is lost between passes.
package jobs
