package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// CancelOrderCommandHandler is the application service for CancelOrderCommand.
type CancelOrderCommandHandler struct {
	transitioner orderTransitioner
}

// NewCancelOrderCommandHandler creates a CancelOrderCommandHandler.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		transitioner: orderTransitioner{uowFactory: uowFactory, clock: clock},
	}
}

// Handle loads the order, applies Cancel and stores the order with its events.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.transitioner.apply(ctx, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o order.Order, now time.Time) (order.Order, []event.Event, error) {
			return o.Cancel(cmd.Party(), cmd.ActorID(), cmd.Reason(), now)
		})
}
