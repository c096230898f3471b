package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const DefaultOutboxSchedule = "*/5 * * * * *"

// OutboxRelayHandler re-publishes one batch of parked events.
type OutboxRelayHandler interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayResult, error)
}

// OutboxRelayJob periodically drains the outbox into the event bus.
type OutboxRelayJob struct {
	handler   OutboxRelayHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOutboxRelayJob creates the relay job. An empty schedule means DefaultOutboxSchedule.
// The schedule is a six-field cron expression with seconds.
func NewOutboxRelayJob(handler OutboxRelayHandler, schedule string, batchSize int, logger *slog.Logger) *OutboxRelayJob {
	if schedule == "" {
		schedule = DefaultOutboxSchedule
	}
	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

// Start registers the job on its schedule.
func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Run executes a single relay pass.
func (j *OutboxRelayJob) Run() {
	ctx := context.Background()

	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid outbox relay command", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay job failed", "error", err)
	}
	if result.Published > 0 || result.Failed > 0 {
		j.logger.InfoContext(ctx, "Outbox relayed",
			"published", result.Published,
			"failed", result.Failed,
		)
	}
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
