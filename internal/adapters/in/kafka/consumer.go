// Package kafka feeds domain events from Kafka topics into ingestion.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of kafka.Reader the consumer needs. Offsets are
// committed explicitly, so the reader must not auto-commit.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type IngestHandler interface {
	Handle(ctx context.Context, cmd commands.IngestEventCommand) error
}

type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{InitialInterval: 200 * time.Millisecond, MaxInterval: 30 * time.Second}
}

// backOff never gives up on its own; only ctx ends it.
func (c RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialInterval
	b.MaxInterval = c.MaxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(b, ctx)
}

// Consumer drives one topic. A message's offset is committed only after it
// was ingested, rejected for its schema version, or skipped as an unknown
// event. Storage failures and version conflicts are retried until they
// succeed. A malformed event stops the consumer with an error, leaving its
// offset uncommitted.
type Consumer struct {
	name    string
	topic   string
	reader  MessageReader
	handler IngestHandler
	retry   RetryConfig
	logger  *slog.Logger
}

// NewConsumer builds a consumer that registers deliveries in the inbox under name.
func NewConsumer(
	name, topic string,
	reader MessageReader,
	handler IngestHandler,
	retry RetryConfig,
	logger *slog.Logger,
) *Consumer {
	return &Consumer{
		name:    name,
		topic:   topic,
		reader:  reader,
		handler: handler,
		retry:   retry,
		logger:  logger.With("component", "kafka-consumer", "topic", topic),
	}
}

// Run consumes until ctx is done, which is not an error.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "Consumer started")
	defer c.logger.InfoContext(ctx, "Consumer stopped")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch from %s: %w", c.topic, err)
		}

		if err = c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	err := c.ingest(ctx, msg)
	switch {
	case err == nil:
	case errors.Is(err, event.ErrUnsupportedSchemaVersion):
		c.logger.WarnContext(ctx, "Event rejected", "offset", msg.Offset, "error", err)
	case errors.Is(err, event.ErrUnknownEventName):
		c.logger.InfoContext(ctx, "Unknown event skipped", "offset", msg.Offset, "error", err)
	default:
		return fmt.Errorf("ingest %s at offset %d: %w", c.topic, msg.Offset, err)
	}

	commit := func() error {
		return c.reader.CommitMessages(ctx, msg)
	}
	return backoff.RetryNotify(commit, c.retry.backOff(ctx), c.notify(ctx, msg, "Offset commit failed, retrying"))
}

func (c *Consumer) ingest(ctx context.Context, msg kafka.Message) error {
	cmd, err := commands.NewIngestEventCommand(c.name, msg.Value)
	if err != nil {
		return errs.NewInvariantViolationErrorWithCause("message has no payload", err)
	}

	op := func() error {
		err := c.handler.Handle(ctx, cmd)
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(op, c.retry.backOff(ctx), c.notify(ctx, msg, "Ingestion failed, retrying"))
}

func (c *Consumer) notify(ctx context.Context, msg kafka.Message, text string) backoff.Notify {
	return func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, text, "offset", msg.Offset, "retry_in", wait, "error", err)
	}
}

// isPermanent reports failures that a retry cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrInvariantViolation) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, event.ErrUnsupportedSchemaVersion) ||
		errors.Is(err, event.ErrUnknownEventName)
}
