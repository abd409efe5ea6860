package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

// ErrRespondToInvitationCommandIsNotConstructed is returned by Validate when a RespondToInvitationCommand was not
// built by its constructor.
var ErrRespondToInvitationCommandIsNotConstructed = errors.New(
	"RespondToInvitationCommand must be created via NewAcceptWorkshopInvitationCommand or NewDeclineWorkshopInvitationCommand",
)

// RespondToInvitationCommand is a workshop's answer to an invitation.
type RespondToInvitationCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	workshopID      kernel.UUID
	accept          bool
	expectedVersion int64

	guard guard.ConstructorGuard
}

// NewAcceptWorkshopInvitationCommand validates the inputs and creates a AcceptWorkshopInvitationCommand.
func NewAcceptWorkshopInvitationCommand(orderID, workshopID kernel.UUID, expectedVersion int64) (RespondToInvitationCommand, error) {
	return newRespondToInvitationCommand(orderID, workshopID, true, expectedVersion)
}

// NewDeclineWorkshopInvitationCommand validates the inputs and creates a DeclineWorkshopInvitationCommand.
func NewDeclineWorkshopInvitationCommand(orderID, workshopID kernel.UUID, expectedVersion int64) (RespondToInvitationCommand, error) {
	return newRespondToInvitationCommand(orderID, workshopID, false, expectedVersion)
}

func newRespondToInvitationCommand(
	orderID, workshopID kernel.UUID,
	accept bool,
	expectedVersion int64,
) (RespondToInvitationCommand, error) {
	cmd := RespondToInvitationCommand{
		accept: accept,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&cmd.orderID, "orderId", orderID),
		setID(&cmd.workshopID, "workshopId", workshopID),
		setExpectedVersion(&cmd.expectedVersion, expectedVersion),
	); err != nil {
		return RespondToInvitationCommand{}, err
	}

	return cmd, nil
}

// Validate returns ErrRespondToInvitationCommandIsNotConstructed if the
// value was not created by NewAcceptWorkshopInvitationCommand or
// NewDeclineWorkshopInvitationCommand.
func (c RespondToInvitationCommand) Validate() error {
	return c.guard.Validate(ErrRespondToInvitationCommandIsNotConstructed)
}

// OrderID returns the order ID of the command.
func (c RespondToInvitationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// WorkshopID returns the workshop ID of the command.
func (c RespondToInvitationCommand) WorkshopID() kernel.UUID {
	return c.workshopID
}

// Accept is true for an acceptance and false for a decline.
func (c RespondToInvitationCommand) Accept() bool {
	return c.accept
}

// ExpectedVersion returns the expected version of the command.
func (c RespondToInvitationCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}
