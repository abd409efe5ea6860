package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// ExpireInvitationsCommandHandler applies the invitation timeout policy. Each
// order is cancelled in its own transaction. An order that moved on since it
// was listed is skipped.
type ExpireInvitationsCommandHandler struct {
	uowFactory   OrderUoWFactory
	clock        kernel.Clock
	transitioner orderTransitioner
}

// NewExpireInvitationsCommandHandler creates a ExpireInvitationsCommandHandler.
func NewExpireInvitationsCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) ExpireInvitationsCommandHandler {
	return ExpireInvitationsCommandHandler{
		uowFactory:   uowFactory,
		clock:        clock,
		transitioner: orderTransitioner{uowFactory: uowFactory, clock: clock},
	}
}

// Handle cancels every order past its deadline with invitations pending,
// up to BatchSize per call. Orders that moved on concurrently are skipped;
// other failures are joined into the returned error.
func (h *ExpireInvitationsCommandHandler) Handle(ctx context.Context, cmd ExpireInvitationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ids, err := h.listExpired(ctx, cmd.BatchSize())
	if err != nil {
		return err
	}

	var errList []error
	for _, id := range ids {
		err = h.transitioner.apply(ctx, id, 0, func(o order.Order, now time.Time) (order.Order, []event.Event, error) {
			return o.ExpireInvitations(now)
		})
		if err == nil || errors.Is(err, errs.ErrPreconditionFailed) || errors.Is(err, errs.ErrConcurrencyConflict) {
			continue
		}
		errList = append(errList, err)
	}

	return errors.Join(errList...)
}

func (h *ExpireInvitationsCommandHandler) listExpired(ctx context.Context, limit int) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetExpiredPending(ctx, h.clock.Now(), limit)
}
