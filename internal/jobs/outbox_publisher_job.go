package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

type PublishOutboxHandler interface {
	Handle(ctx context.Context, cmd commands.PublishOutboxCommand) error
}

// OutboxPublisherJob polls the outbox. It is the only path from committed
// rows to the broker; writers never wake it.
type OutboxPublisherJob struct {
	handler  PublishOutboxHandler
	cmd      commands.PublishOutboxCommand
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOutboxPublisherJob(
	handler PublishOutboxHandler,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) (*OutboxPublisherJob, error) {
	cmd, err := commands.NewPublishOutboxCommand(batchSize)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("interval", interval, "1s", "unbounded")
	}
	logger = logger.With("component", "outbox_publisher_job")
	return &OutboxPublisherJob{
		handler:  handler,
		cmd:      cmd,
		interval: interval,
		cron:     newCron(logger),
		logger:   logger,
	}, nil
}

func (j *OutboxPublisherJob) Name() string {
	return "outbox publisher"
}

// Start schedules Tick. Intervals under a second run every second.
func (j *OutboxPublisherJob) Start() error {
	if _, err := j.cron.AddFunc("@every "+j.interval.String(), func() { j.Tick(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox publisher job started", "interval", j.interval)
	return nil
}

// Tick publishes one batch.
func (j *OutboxPublisherJob) Tick(ctx context.Context) {
	err := j.handler.Handle(ctx, j.cmd)
	switch {
	case err == nil:
	case errors.Is(err, errs.ErrTransient):
		j.logger.WarnContext(ctx, "Outbox publish deferred", "error", err)
	default:
		j.logger.ErrorContext(ctx, "Outbox publisher job failed", "error", err)
	}
}

// Stop waits for a running tick to finish.
func (j *OutboxPublisherJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox publisher job stopped")
}
