package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

type ExpireInvitationsHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireInvitationsCommand) error
}

// ExpireInvitationsJob applies the invitation timeout to orders whose deadline
// passed while invitations were still open.
type ExpireInvitationsJob struct {
	handler  ExpireInvitationsHandler
	cmd      commands.ExpireInvitationsCommand
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewExpireInvitationsJob(
	handler ExpireInvitationsHandler,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) (*ExpireInvitationsJob, error) {
	cmd, err := commands.NewExpireInvitationsCommand(batchSize)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("interval", interval, "1s", "unbounded")
	}
	logger = logger.With("component", "expire_invitations_job")
	return &ExpireInvitationsJob{
		handler:  handler,
		cmd:      cmd,
		interval: interval,
		cron:     newCron(logger),
		logger:   logger,
	}, nil
}

func (j *ExpireInvitationsJob) Name() string {
	return "invitation expiry"
}

func (j *ExpireInvitationsJob) Start() error {
	if _, err := j.cron.AddFunc("@every "+j.interval.String(), func() { j.Tick(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Invitation expiry job started", "interval", j.interval)
	return nil
}

func (j *ExpireInvitationsJob) Tick(ctx context.Context) {
	if err := j.handler.Handle(ctx, j.cmd); err != nil {
		j.logger.ErrorContext(ctx, "Invitation expiry job failed", "error", err)
	}
}

func (j *ExpireInvitationsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Invitation expiry job stopped")
}
