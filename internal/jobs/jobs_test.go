package jobs_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPublisher struct {
	calls atomic.Int32
	batch atomic.Int32
	err   error
}

func (p *countingPublisher) Handle(_ context.Context, cmd commands.PublishOutboxCommand) error {
	p.calls.Add(1)
	p.batch.Store(int32(cmd.BatchSize()))
	return p.err
}

type countingExpirer struct {
	calls atomic.Int32
	err   error
}

func (e *countingExpirer) Handle(context.Context, commands.ExpireInvitationsCommand) error {
	e.calls.Add(1)
	return e.err
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestNewOutboxPublisherJobValidates(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	_, err := jobs.NewOutboxPublisherJob(&countingPublisher{}, time.Second, 0, logger)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = jobs.NewOutboxPublisherJob(&countingPublisher{}, 0, 10, logger)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestOutboxPublisherJob_Tick(t *testing.T) {
	t.Run("passes the batch size", func(t *testing.T) {
		publisher := &countingPublisher{}
		job, err := jobs.NewOutboxPublisherJob(publisher, time.Second, 25, slog.New(slog.DiscardHandler))
		require.NoError(t, err)

		job.Tick(t.Context())

		assert.Equal(t, int32(1), publisher.calls.Load())
		assert.Equal(t, int32(25), publisher.batch.Load())
	})

	t.Run("broker outage is a warning", func(t *testing.T) {
		logger, buf := bufferLogger()
		publisher := &countingPublisher{err: errs.NewTransientError("publish to kafka", errors.New("connection refused"))}
		job, err := jobs.NewOutboxPublisherJob(publisher, time.Second, 25, logger)
		require.NoError(t, err)

		job.Tick(t.Context())

		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "component=outbox_publisher_job")
	})

	t.Run("other failures are errors", func(t *testing.T) {
		logger, buf := bufferLogger()
		publisher := &countingPublisher{err: errors.New("relation outbox_messages does not exist")}
		job, err := jobs.NewOutboxPublisherJob(publisher, time.Second, 25, logger)
		require.NoError(t, err)

		job.Tick(t.Context())

		assert.Contains(t, buf.String(), "level=ERROR")
	})
}

func TestOutboxPublisherJob_RunsOnSchedule(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler")
	}
	publisher := &countingPublisher{}
	job, err := jobs.NewOutboxPublisherJob(publisher, time.Second, 10, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	require.NoError(t, job.Start())
	defer job.Stop()

	require.Eventually(t, func() bool {
		return publisher.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestExpireInvitationsJob_Tick(t *testing.T) {
	logger, buf := bufferLogger()
	expirer := &countingExpirer{err: errors.New("boom")}
	job, err := jobs.NewExpireInvitationsJob(expirer, time.Minute, 50, logger)
	require.NoError(t, err)

	job.Tick(t.Context())

	assert.Equal(t, int32(1), expirer.calls.Load())
	assert.Contains(t, buf.String(), "Invitation expiry job failed")
}

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (j fakeJob) Name() string { return j.name }

func (j fakeJob) Start() error {
	if j.startErr != nil {
		return j.startErr
	}
	*j.log = append(*j.log, "start "+j.name)
	return nil
}

func (j fakeJob) Stop() { *j.log = append(*j.log, "stop "+j.name) }

func TestJobManager(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("starts in order and stops in reverse", func(t *testing.T) {
		var log []string
		jm := jobs.NewJobManager(logger, fakeJob{name: "a", log: &log}, fakeJob{name: "b", log: &log})

		require.NoError(t, jm.StartAll())
		jm.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	})

	t.Run("failed start stops started jobs", func(t *testing.T) {
		var log []string
		boom := errors.New("bad schedule")
		jm := jobs.NewJobManager(logger,
			fakeJob{name: "a", log: &log},
			fakeJob{name: "b", log: &log, startErr: boom},
			fakeJob{name: "c", log: &log},
		)

		err := jm.StartAll()

		require.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"start a", "stop a"}, log)
	})
}
