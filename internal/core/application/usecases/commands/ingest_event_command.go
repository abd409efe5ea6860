package commands

import (
	"errors"
	"strings"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrIngestEventCommandIsNotConstructed is returned by Validate when a IngestEventCommand was not
// built by its constructor.
var ErrIngestEventCommandIsNotConstructed = errors.New(
	"IngestEventCommand must be created via NewIngestEventCommand constructor",
)

// IngestEventCommand hands one inbound message to the projector. consumer
// scopes deduplication: each consumer sees every event at most once.
type IngestEventCommand struct {
	consumer string
	payload  []byte

	guard guard.ConstructorGuard
}

// NewIngestEventCommand validates the inputs and creates a IngestEventCommand.
func NewIngestEventCommand(consumer string, payload []byte) (IngestEventCommand, error) {
	consumer = strings.TrimSpace(consumer)
	if consumer == "" {
		return IngestEventCommand{}, errs.NewValueIsRequiredError("consumer")
	}
	if len(payload) == 0 {
		return IngestEventCommand{}, errs.NewValueIsRequiredError("payload")
	}
	return IngestEventCommand{
		consumer: consumer,
		payload:  append([]byte(nil), payload...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate returns ErrIngestEventCommandIsNotConstructed if the value was not
// created by NewIngestEventCommand.
func (c IngestEventCommand) Validate() error {
	return c.guard.Validate(ErrIngestEventCommandIsNotConstructed)
}

// Consumer returns the consumer of the command.
func (c IngestEventCommand) Consumer() string {
	return c.consumer
}

// Payload returns the payload of the command.
func (c IngestEventCommand) Payload() []byte {
	return c.payload
}
