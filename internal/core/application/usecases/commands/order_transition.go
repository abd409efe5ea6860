package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

type transitionFunc func(o order.Order, now time.Time) (order.Order, []event.Event, error)

// orderTransitioner runs one aggregate transition in its own transaction:
// load, optional caller version check, transition, versioned update and
// outbox append, commit.
type orderTransitioner struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

// apply treats expectedVersion 0 as "latest". The repository still compares
// versions on write, so a concurrent writer always surfaces as a conflict.
func (t orderTransitioner) apply(ctx context.Context, orderID kernel.UUID, expectedVersion int64, fn transitionFunc) error {
	uow := t.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	current, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if expectedVersion != 0 && current.Version() != expectedVersion {
		return errs.NewConcurrencyConflictError("order", orderID.String(), expectedVersion)
	}

	now := t.clock.Now()
	next, events, err := fn(current, now)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	if err = orderRepo.Update(ctx, next, current.Version()); err != nil {
		return err
	}
	if err = appendEvents(ctx, uow.OutboxRepository(), events, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func appendEvents(ctx context.Context, repo ports.OutboxRepository, events []event.Event, now time.Time) error {
	if len(events) == 0 {
		return nil
	}
	messages := make([]*outbox.Message, 0, len(events))
	for _, e := range events {
		m, err := outbox.NewMessage(e, now)
		if err != nil {
			return err
		}
		messages = append(messages, m)
	}
	return repo.Append(ctx, messages...)
}
