package commands

import (
	"errors"
	"fmt"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const maxReasonLength = 512

// ErrCancelOrderCommandIsNotConstructed is returned by Validate when a CancelOrderCommand was not
// built by its constructor.
var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand is issued by the commissioner or an invited workshop.
// System cancellations come from policies, never from this command.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	party           order.Party
	actorID         kernel.UUID
	reason          string
	expectedVersion int64

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand validates the inputs and creates a CancelOrderCommand.
func NewCancelOrderCommand(
	orderID kernel.UUID,
	party order.Party,
	actorID kernel.UUID,
	reason string,
	expectedVersion int64,
) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		reason: strings.TrimSpace(reason),
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&cmd.orderID, "orderId", orderID),
		cmd.setParty(party),
		setID(&cmd.actorID, "actorId", actorID),
		setExpectedVersion(&cmd.expectedVersion, expectedVersion),
	); err != nil {
		return CancelOrderCommand{}, err
	}
	if len(cmd.reason) > maxReasonLength {
		return CancelOrderCommand{}, errs.NewValueIsOutOfRangeError("reason length", len(cmd.reason), 0, maxReasonLength)
	}

	return cmd, nil
}

// Validate returns ErrCancelOrderCommandIsNotConstructed if the value was not
// created by NewCancelOrderCommand.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order ID of the command.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Party returns the party of the command.
func (c CancelOrderCommand) Party() order.Party {
	return c.party
}

// ActorID returns the actor ID of the command.
func (c CancelOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Reason returns the reason of the command.
func (c CancelOrderCommand) Reason() string {
	return c.reason
}

// ExpectedVersion returns the expected version of the command.
func (c CancelOrderCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

func (c *CancelOrderCommand) setParty(party order.Party) error {
	if party != order.PartyCommissioner && party != order.PartyWorkshop {
		return errs.NewValueIsInvalidErrorWithCause("party", fmt.Errorf("%q cannot issue a cancellation", party.String()))
	}
	c.party = party
	return nil
}
