package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// MarkStageCompletionCommandHandler commits nothing when the stage is already
// marked.
type MarkStageCompletionCommandHandler struct {
	transitioner orderTransitioner
}

// NewMarkStageCompletionCommandHandler creates a MarkStageCompletionCommandHandler.
func NewMarkStageCompletionCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) MarkStageCompletionCommandHandler {
	return MarkStageCompletionCommandHandler{
		transitioner: orderTransitioner{uowFactory: uowFactory, clock: clock},
	}
}

// Handle marks the stage. A repeated mark commits nothing and succeeds.
func (h *MarkStageCompletionCommandHandler) Handle(ctx context.Context, cmd MarkStageCompletionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.transitioner.apply(ctx, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o order.Order, now time.Time) (order.Order, []event.Event, error) {
			return o.MarkStageCompletion(cmd.WorkshopID(), cmd.Stage(), now)
		})
}

// ConfirmStageCompletionCommandHandler completes the order when the last
// stage is confirmed. Two concurrent confirmations of the same stage cannot
// both commit: the second fails the versioned update.
type ConfirmStageCompletionCommandHandler struct {
	transitioner orderTransitioner
}

// NewConfirmStageCompletionCommandHandler creates a ConfirmStageCompletionCommandHandler.
func NewConfirmStageCompletionCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) ConfirmStageCompletionCommandHandler {
	return ConfirmStageCompletionCommandHandler{
		transitioner: orderTransitioner{uowFactory: uowFactory, clock: clock},
	}
}

// Handle confirms the stage and completes the order when it was the last one.
func (h *ConfirmStageCompletionCommandHandler) Handle(ctx context.Context, cmd ConfirmStageCompletionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.transitioner.apply(ctx, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o order.Order, now time.Time) (order.Order, []event.Event, error) {
			return o.ConfirmStageCompletion(cmd.CommissionerID(), cmd.Stage(), now)
		})
}
