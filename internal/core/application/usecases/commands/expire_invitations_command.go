package commands

import (
	"errors"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrExpireInvitationsCommandIsNotConstructed is returned by Validate when a ExpireInvitationsCommand was not
// built by its constructor.
var ErrExpireInvitationsCommandIsNotConstructed = errors.New(
	"ExpireInvitationsCommand must be created via NewExpireInvitationsCommand constructor",
)

// ExpireInvitationsCommand cancels up to batchSize orders whose invitations
// are still unresolved at their deadline.
type ExpireInvitationsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

// NewExpireInvitationsCommand validates the inputs and creates a ExpireInvitationsCommand.
func NewExpireInvitationsCommand(batchSize int) (ExpireInvitationsCommand, error) {
	if batchSize < 1 {
		return ExpireInvitationsCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}
	return ExpireInvitationsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

// Validate returns ErrExpireInvitationsCommandIsNotConstructed if the value was not
// created by NewExpireInvitationsCommand.
func (c ExpireInvitationsCommand) Validate() error {
	return c.guard.Validate(ErrExpireInvitationsCommandIsNotConstructed)
}

// BatchSize returns the batch size of the command.
func (c ExpireInvitationsCommand) BatchSize() int {
	return c.batchSize
}
