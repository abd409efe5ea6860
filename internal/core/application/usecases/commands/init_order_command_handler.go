package commands

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// InitOrderCommandHandler stores a new order and its OrderInitialized event in
// one transaction.
type InitOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

// NewInitOrderCommandHandler creates a InitOrderCommandHandler.
func NewInitOrderCommandHandler(uowFactory OrderUoWFactory, clock kernel.Clock) InitOrderCommandHandler {
	return InitOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle creates the order. Reusing an order ID fails with
// errs.AlreadyExistsError.
func (h *InitOrderCommandHandler) Handle(ctx context.Context, cmd InitOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()
	request, err := order.NewRequest(cmd.Title(), cmd.Description(), cmd.Deadline(), cmd.Budget(), now)
	if err != nil {
		return err
	}

	o, events, err := order.NewOrder(cmd.OrderID(), cmd.CommissionerID(), request, cmd.WorkshopIDs(), cmd.Stages(), now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = appendEvents(ctx, uow.OutboxRepository(), events, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
