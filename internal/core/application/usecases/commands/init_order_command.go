package commands

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/govalues/decimal"
)

// ErrInitOrderCommandIsNotConstructed is returned by Validate when a InitOrderCommand was not
// built by its constructor.
var ErrInitOrderCommandIsNotConstructed = errors.New(
	"InitOrderCommand must be created via NewInitOrderCommand constructor",
)

// InitOrderCommand creates an order and invites the given workshops.
//
// Example:
//
//	cmd, err := NewInitOrderCommand(orderID, commissionerID, "Oak table", "2m, oiled",
//	    deadline, decimal.MustParse("1500"), workshopIDs, []string{"Design", "Delivery"})
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type InitOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	commissionerID kernel.UUID
	title          string
	description    string
	deadline       time.Time
	budget         decimal.Decimal
	workshopIDs    []kernel.UUID
	stages         []string

	guard guard.ConstructorGuard
}

// NewInitOrderCommand validates the inputs and creates a InitOrderCommand.
func NewInitOrderCommand(
	orderID, commissionerID kernel.UUID,
	title, description string,
	deadline time.Time,
	budget decimal.Decimal,
	workshopIDs []kernel.UUID,
	stages []string,
) (InitOrderCommand, error) {
	cmd := InitOrderCommand{
		title:       title,
		description: description,
		deadline:    deadline,
		budget:      budget,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCommissionerID(commissionerID),
		cmd.setWorkshopIDs(workshopIDs),
		cmd.setStages(stages),
	); err != nil {
		return InitOrderCommand{}, err
	}

	return cmd, nil
}

// Validate returns ErrInitOrderCommandIsNotConstructed if the value was not
// created by NewInitOrderCommand.
func (c InitOrderCommand) Validate() error {
	return c.guard.Validate(ErrInitOrderCommandIsNotConstructed)
}

// OrderID returns the order ID of the command.
func (c InitOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CommissionerID returns the commissioner ID of the command.
func (c InitOrderCommand) CommissionerID() kernel.UUID {
	return c.commissionerID
}

// Title returns the title of the command.
func (c InitOrderCommand) Title() string {
	return c.title
}

// Description returns the description of the command.
func (c InitOrderCommand) Description() string {
	return c.description
}

// Deadline returns the deadline of the command.
func (c InitOrderCommand) Deadline() time.Time {
	return c.deadline
}

// Budget returns the budget of the command.
func (c InitOrderCommand) Budget() decimal.Decimal {
	return c.budget
}

// WorkshopIDs returns the invited workshop IDs of the command.
func (c InitOrderCommand) WorkshopIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), c.workshopIDs...)
}

// Stages returns the stages of the command.
func (c InitOrderCommand) Stages() []string {
	return append([]string(nil), c.stages...)
}

func (c *InitOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = id
	return nil
}

func (c *InitOrderCommand) setCommissionerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("commissionerId", err)
	}
	c.commissionerID = id
	return nil
}

func (c *InitOrderCommand) setWorkshopIDs(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError("workshopIds")
	}
	c.workshopIDs = append([]kernel.UUID(nil), ids...)
	return nil
}

func (c *InitOrderCommand) setStages(stages []string) error {
	if len(stages) == 0 {
		return errs.NewValueIsRequiredError("stages")
	}
	c.stages = append([]string(nil), stages...)
	return nil
}
