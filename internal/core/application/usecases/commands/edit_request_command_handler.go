package commands

import (
	"context"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// EditRequestCommandHandler is the application service for EditRequestCommand.
type EditRequestCommandHandler struct {
	transitioner orderTransitioner
}

// NewEditRequestCommandHandler creates a EditRequestCommandHandler.
func NewEditRequestCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) EditRequestCommandHandler {
	return EditRequestCommandHandler{
		transitioner: orderTransitioner{uowFactory: uowFactory, clock: clock},
	}
}

// Handle applies the edit selected by cmd.Field.
func (h *EditRequestCommandHandler) Handle(ctx context.Context, cmd EditRequestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.transitioner.apply(ctx, cmd.OrderID(), cmd.ExpectedVersion(),
		func(o order.Order, now time.Time) (order.Order, []event.Event, error) {
			switch cmd.Field() {
			case RequestFieldBudget:
				return o.EditBudget(cmd.CommissionerID(), cmd.Budget(), now)
			case RequestFieldDescription:
				return o.EditDescription(cmd.CommissionerID(), cmd.Description(), now)
			case RequestFieldDeadline:
				return o.EditDeadline(cmd.CommissionerID(), cmd.Deadline(), now)
			}
			return o, nil, errs.NewValueIsInvalidErrorWithCause("field", fmt.Errorf("%q is not editable", cmd.Field()))
		})
}
