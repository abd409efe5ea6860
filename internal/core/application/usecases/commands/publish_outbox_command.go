package commands

import (
	"errors"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrPublishOutboxCommandIsNotConstructed is returned by Validate when a PublishOutboxCommand was not
// built by its constructor.
var ErrPublishOutboxCommandIsNotConstructed = errors.New(
	"PublishOutboxCommand must be created via NewPublishOutboxCommand constructor",
)

// PublishOutboxCommand ships up to batchSize pending outbox rows.
type PublishOutboxCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

// NewPublishOutboxCommand validates the inputs and creates a PublishOutboxCommand.
func NewPublishOutboxCommand(batchSize int) (PublishOutboxCommand, error) {
	if batchSize < 1 {
		return PublishOutboxCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}
	return PublishOutboxCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

// Validate returns ErrPublishOutboxCommandIsNotConstructed if the value was not
// created by NewPublishOutboxCommand.
func (c PublishOutboxCommand) Validate() error {
	return c.guard.Validate(ErrPublishOutboxCommandIsNotConstructed)
}

// BatchSize returns the batch size of the command.
func (c PublishOutboxCommand) BatchSize() int {
	return c.batchSize
}
