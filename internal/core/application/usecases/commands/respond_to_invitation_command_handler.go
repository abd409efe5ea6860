package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// RespondToInvitationCommandHandler records the answer and, when it completes
// the quorum, the resulting state change in the same transaction.
type RespondToInvitationCommandHandler struct {
	transitioner orderTransitioner
}

// NewRespondToInvitationCommandHandler creates a RespondToInvitationCommandHandler.
func NewRespondToInvitationCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) RespondToInvitationCommandHandler {
	return RespondToInvitationCommandHandler{
		transitioner: orderTransitioner{uowFactory: uowFactory, clock: clock},
	}
}

// Handle records the response and any quorum events it triggers.
func (h *RespondToInvitationCommandHandler) Handle(ctx context.Context, cmd RespondToInvitationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.transitioner.apply(ctx, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o order.Order, now time.Time) (order.Order, []event.Event, error) {
			if cmd.Accept() {
				return o.AcceptInvitation(cmd.WorkshopID(), now)
			}
			return o.DeclineInvitation(cmd.WorkshopID(), now)
		})
}
