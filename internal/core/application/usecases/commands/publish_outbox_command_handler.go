package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds delivery of a single message.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsed is the whole budget for one message across retries.
	MaxElapsed time.Duration
	// AttemptTimeout bounds one broker call.
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy mirrors the OUTBOX_RETRY_* defaults of the service config.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsed:      10 * time.Second,
		AttemptTimeout:  5 * time.Second,
	}
}

// Validate rejects a policy whose retries are unbounded.
func (p RetryPolicy) Validate() error {
	if p.InitialInterval <= 0 {
		return errs.NewValueIsOutOfRangeError("retry initial interval", p.InitialInterval, "1ns", "unbounded")
	}
	if p.MaxInterval < p.InitialInterval {
		return errs.NewValueIsOutOfRangeError("retry max interval", p.MaxInterval, p.InitialInterval, "unbounded")
	}
	if p.MaxElapsed <= 0 {
		return errs.NewValueIsOutOfRangeError("retry max elapsed", p.MaxElapsed, "1ns", "unbounded")
	}
	if p.AttemptTimeout <= 0 {
		return errs.NewValueIsOutOfRangeError("attempt timeout", p.AttemptTimeout, "1ns", "unbounded")
	}
	return nil
}

// DeliveryBudget is the longest one message can spend in deliver: the last
// attempt may start just before MaxElapsed runs out and then use its whole
// AttemptTimeout.
func (p RetryPolicy) DeliveryBudget() time.Duration {
	return p.MaxElapsed + p.AttemptTimeout
}

// TxTimeout is how long the publisher transaction has to stay open so that
// a batch of batchSize rows can use every delivery budget and still record
// the outcome. base covers the storage work of the batch.
func (p RetryPolicy) TxTimeout(batchSize int, base time.Duration) time.Duration {
	return time.Duration(batchSize)*p.DeliveryBudget() + base
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = p.MaxElapsed
	return backoff.WithContext(b, ctx)
}

// PublishOutboxCommandHandler is the outbox publisher. One Handle call locks a
// batch in insertion order and ships it row by row:
//   - a row that does not decode or has no topic is marked dead and skipped
//   - a delivered row is marked published
//   - a row the broker keeps refusing records the failure and ends the batch,
//     so later rows of the same producer never overtake it
//
// Rows are never deleted. A crash after delivery but before commit republishes
// the row on the next poll, which consumers deduplicate.
//
// The whole batch runs in one transaction, so its unit of work factory must
// allow RetryPolicy.TxTimeout for the batch size.
type PublishOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.MessagePublisher
	router     services.TopicRouter
	clock      kernel.Clock
	retry      RetryPolicy
	logger     *slog.Logger
}

// NewPublishOutboxCommandHandler creates a PublishOutboxCommandHandler.
func NewPublishOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.MessagePublisher,
	router services.TopicRouter,
	clock kernel.Clock,
	retry RetryPolicy,
	logger *slog.Logger,
) PublishOutboxCommandHandler {
	return PublishOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		router:     router,
		clock:      clock,
		retry:      retry,
		logger:     logger.With("component", "outbox-publisher"),
	}
}

// Handle claims up to BatchSize unpublished messages in seq order and
// publishes them one by one. A message that still fails after the retry policy
// records the failure and stops the batch, so later messages of the same
// order are never delivered ahead of it.
func (h *PublishOutboxCommandHandler) Handle(ctx context.Context, cmd PublishOutboxCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OutboxRepository()
	messages, err := repo.LockPending(ctx, cmd.BatchSize())
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	var deliveryErr error
	published := 0
	for _, m := range messages {
		brokerMsg, routeErr := h.prepare(m)
		if routeErr != nil {
			if err = m.MarkDead(routeErr, h.clock.Now()); err != nil {
				return err
			}
			if err = repo.SaveDelivery(ctx, m); err != nil {
				return err
			}
			h.logger.ErrorContext(ctx, "outbox message set aside for manual intervention",
				"message_id", m.ID().String(), "seq", m.Seq(), "event_name", m.EventName().String(), "error", routeErr)
			continue
		}

		if deliveryErr = h.deliver(ctx, brokerMsg); deliveryErr != nil {
			m.RecordFailure(deliveryErr)
			if err = repo.SaveDelivery(ctx, m); err != nil {
				return err
			}
			h.logger.WarnContext(ctx, "outbox delivery failed, batch stopped",
				"message_id", m.ID().String(), "seq", m.Seq(), "attempts", m.Attempts(), "error", deliveryErr)
			break
		}

		if err = m.MarkPublished(h.clock.Now()); err != nil {
			return err
		}
		if err = repo.SaveDelivery(ctx, m); err != nil {
			return err
		}
		published++
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.DebugContext(ctx, "outbox batch processed", "locked", len(messages), "published", published)
	if deliveryErr != nil {
		return errs.NewTransientError("publish outbox", deliveryErr)
	}
	return nil
}

// prepare checks the stored payload against the event schema before it leaves
// the process.
func (h *PublishOutboxCommandHandler) prepare(m *outbox.Message) (ports.BrokerMessage, error) {
	e, err := event.Decode(m.Payload())
	if err != nil {
		return ports.BrokerMessage{}, err
	}
	meta := e.Meta()
	topic, err := h.router.Route(meta.EventName)
	if err != nil {
		return ports.BrokerMessage{}, err
	}

	return ports.BrokerMessage{
		Topic: topic.String(),
		Key:   meta.AggregateID.String(),
		Value: m.Payload(),
		Headers: map[string]string{
			"eventId":   meta.EventID.String(),
			"eventName": meta.EventName.String(),
			"schemaV":   strconv.Itoa(meta.SchemaV),
		},
	}, nil
}

func (h *PublishOutboxCommandHandler) deliver(ctx context.Context, msg ports.BrokerMessage) error {
	return backoff.Retry(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, h.retry.AttemptTimeout)
		defer cancel()
		return h.publisher.Publish(attemptCtx, msg)
	}, h.retry.backOff(ctx))
}
