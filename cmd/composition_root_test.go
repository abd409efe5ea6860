package cmd

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...ports.BrokerMessage) error { return nil }

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestCompositionRoot_CreatesServers(t *testing.T) {
	root := NewCompositionRoot(testConfig(t), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotNil(t, root.CreateWorkflowServer())
	assert.NotNil(t, root.CreateBonusServer())
}

func TestCompositionRoot_CreatesJobManagers(t *testing.T) {
	root := NewCompositionRoot(testConfig(t), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	workflow, err := root.CreateWorkflowJobManager(nopPublisher{})
	require.NoError(t, err)
	assert.NotNil(t, workflow)

	bonus, err := root.CreateBonusJobManager(nopPublisher{})
	require.NoError(t, err)
	assert.NotNil(t, bonus)
}

func TestCompositionRoot_RejectsInvalidJobSettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.Expiry.Interval = 0
	root := NewCompositionRoot(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := root.CreateWorkflowJobManager(nopPublisher{})
	require.Error(t, err)
}

func TestCompositionRoot_PublisherTransactionOutlastsRetries(t *testing.T) {
	cfg := testConfig(t)
	root := NewCompositionRoot(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	perMessage := cfg.Outbox.RetryMaxElapsed + cfg.Outbox.PublishTimeout
	assert.GreaterOrEqual(t, root.PublisherTxTimeout(), time.Duration(cfg.Outbox.BatchSize)*perMessage)
	assert.Greater(t, root.PublisherTxTimeout(), cfg.TxTimeout)
}

func TestCompositionRoot_RejectsUnboundedPublishRetries(t *testing.T) {
	cfg := testConfig(t)
	cfg.Outbox.RetryMaxElapsed = 0
	root := NewCompositionRoot(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := root.CreateBonusJobManager(nopPublisher{})
	require.Error(t, err)
}
