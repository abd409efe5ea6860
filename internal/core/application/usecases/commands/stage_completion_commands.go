package commands

import (
	"errors"
	"strings"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var (
	// ErrMarkStageCompletionCommandIsNotConstructed is returned by Validate when a MarkStageCompletionCommand was not
	// built by its constructor.
	ErrMarkStageCompletionCommandIsNotConstructed = errors.New(
		"MarkStageCompletionCommand must be created via NewMarkStageCompletionCommand constructor",
	)
	// ErrConfirmStageCompletionCommandIsNotConstructed is returned by Validate when a ConfirmStageCompletionCommand was not
	// built by its constructor.
	ErrConfirmStageCompletionCommandIsNotConstructed = errors.New(
		"ConfirmStageCompletionCommand must be created via NewConfirmStageCompletionCommand constructor",
	)
)

// MarkStageCompletionCommand is the workshop side of the stage handshake.
type MarkStageCompletionCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	workshopID      kernel.UUID
	stage           string
	expectedVersion int64

	guard guard.ConstructorGuard
}

// NewMarkStageCompletionCommand validates the inputs and creates a MarkStageCompletionCommand.
func NewMarkStageCompletionCommand(
	orderID, workshopID kernel.UUID,
	stage string,
	expectedVersion int64,
) (MarkStageCompletionCommand, error) {
	cmd := MarkStageCompletionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		setID(&cmd.orderID, "orderId", orderID),
		setID(&cmd.workshopID, "workshopId", workshopID),
		setStage(&cmd.stage, stage),
		setExpectedVersion(&cmd.expectedVersion, expectedVersion),
	); err != nil {
		return MarkStageCompletionCommand{}, err
	}

	return cmd, nil
}

// Validate returns ErrMarkStageCompletionCommandIsNotConstructed if the value was not
// created by NewMarkStageCompletionCommand.
func (c MarkStageCompletionCommand) Validate() error {
	return c.guard.Validate(ErrMarkStageCompletionCommandIsNotConstructed)
}

// OrderID returns the order ID of the command.
func (c MarkStageCompletionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// WorkshopID returns the workshop ID of the command.
func (c MarkStageCompletionCommand) WorkshopID() kernel.UUID {
	return c.workshopID
}

// Stage returns the stage of the command.
func (c MarkStageCompletionCommand) Stage() string {
	return c.stage
}

// ExpectedVersion returns the expected version of the command.
func (c MarkStageCompletionCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

// ConfirmStageCompletionCommand is the commissioner side of the stage handshake.
type ConfirmStageCompletionCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	commissionerID  kernel.UUID
	stage           string
	expectedVersion int64

	guard guard.ConstructorGuard
}

// NewConfirmStageCompletionCommand validates the inputs and creates a ConfirmStageCompletionCommand.
func NewConfirmStageCompletionCommand(
	orderID, commissionerID kernel.UUID,
	stage string,
	expectedVersion int64,
) (ConfirmStageCompletionCommand, error) {
	cmd := ConfirmStageCompletionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		setID(&cmd.orderID, "orderId", orderID),
		setID(&cmd.commissionerID, "commissionerId", commissionerID),
		setStage(&cmd.stage, stage),
		setExpectedVersion(&cmd.expectedVersion, expectedVersion),
	); err != nil {
		return ConfirmStageCompletionCommand{}, err
	}

	return cmd, nil
}

// Validate returns ErrConfirmStageCompletionCommandIsNotConstructed if the value was not
// created by NewConfirmStageCompletionCommand.
func (c ConfirmStageCompletionCommand) Validate() error {
	return c.guard.Validate(ErrConfirmStageCompletionCommandIsNotConstructed)
}

// OrderID returns the order ID of the command.
func (c ConfirmStageCompletionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CommissionerID returns the commissioner ID of the command.
func (c ConfirmStageCompletionCommand) CommissionerID() kernel.UUID {
	return c.commissionerID
}

// Stage returns the stage of the command.
func (c ConfirmStageCompletionCommand) Stage() string {
	return c.stage
}

// ExpectedVersion returns the expected version of the command.
func (c ConfirmStageCompletionCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

func setStage(dst *string, stage string) error {
	stage = strings.TrimSpace(stage)
	if stage == "" {
		return errs.NewValueIsRequiredError("stage")
	}
	*dst = stage
	return nil
}
