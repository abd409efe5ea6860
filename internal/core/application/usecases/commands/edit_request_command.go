package commands

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/govalues/decimal"
)

// ErrEditRequestCommandIsNotConstructed is returned by Validate when a EditRequestCommand was not
// built by its constructor.
var ErrEditRequestCommandIsNotConstructed = errors.New(
	"EditRequestCommand must be created via one of the NewEditRequest*Command constructors",
)

// RequestField names the request attribute an edit replaces.
type RequestField string

const (
	// RequestFieldBudget replaces the budget.
	RequestFieldBudget RequestField = "budget"
	// RequestFieldDescription replaces the description.
	RequestFieldDescription RequestField = "description"
	// RequestFieldDeadline moves the deadline.
	RequestFieldDeadline RequestField = "deadline"
)

// EditRequestCommand replaces one attribute of the order request. It backs
// the EditRequestBudget, EditRequestDescription and EditRequestDeadline
// commands.
type EditRequestCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	commissionerID  kernel.UUID
	expectedVersion int64
	field           RequestField
	budget          decimal.Decimal
	description     string
	deadline        time.Time

	guard guard.ConstructorGuard
}

// NewEditRequestBudgetCommand validates the inputs and creates a EditRequestBudgetCommand.
func NewEditRequestBudgetCommand(
	orderID, commissionerID kernel.UUID,
	budget decimal.Decimal,
	expectedVersion int64,
) (EditRequestCommand, error) {
	cmd, err := newEditRequestCommand(orderID, commissionerID, RequestFieldBudget, expectedVersion)
	if err != nil {
		return EditRequestCommand{}, err
	}
	cmd.budget = budget
	return cmd, nil
}

// NewEditRequestDescriptionCommand validates the inputs and creates a EditRequestDescriptionCommand.
func NewEditRequestDescriptionCommand(
	orderID, commissionerID kernel.UUID,
	description string,
	expectedVersion int64,
) (EditRequestCommand, error) {
	cmd, err := newEditRequestCommand(orderID, commissionerID, RequestFieldDescription, expectedVersion)
	if err != nil {
		return EditRequestCommand{}, err
	}
	cmd.description = description
	return cmd, nil
}

// NewEditRequestDeadlineCommand validates the inputs and creates a EditRequestDeadlineCommand.
func NewEditRequestDeadlineCommand(
	orderID, commissionerID kernel.UUID,
	deadline time.Time,
	expectedVersion int64,
) (EditRequestCommand, error) {
	cmd, err := newEditRequestCommand(orderID, commissionerID, RequestFieldDeadline, expectedVersion)
	if err != nil {
		return EditRequestCommand{}, err
	}
	if deadline.IsZero() {
		return EditRequestCommand{}, errs.NewValueIsRequiredError("deadline")
	}
	cmd.deadline = deadline
	return cmd, nil
}

func newEditRequestCommand(
	orderID, commissionerID kernel.UUID,
	field RequestField,
	expectedVersion int64,
) (EditRequestCommand, error) {
	cmd := EditRequestCommand{
		field: field,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&cmd.orderID, "orderId", orderID),
		setID(&cmd.commissionerID, "commissionerId", commissionerID),
		setExpectedVersion(&cmd.expectedVersion, expectedVersion),
	); err != nil {
		return EditRequestCommand{}, err
	}

	return cmd, nil
}

// Validate returns ErrEditRequestCommandIsNotConstructed if the value was not
// created by one of the NewEditRequest*Command constructors.
func (c EditRequestCommand) Validate() error {
	return c.guard.Validate(ErrEditRequestCommandIsNotConstructed)
}

// OrderID returns the order ID of the command.
func (c EditRequestCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CommissionerID returns the commissioner ID of the command.
func (c EditRequestCommand) CommissionerID() kernel.UUID {
	return c.commissionerID
}

// ExpectedVersion is 0 when the caller did not pin a version.
func (c EditRequestCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

// Field returns the field of the command.
func (c EditRequestCommand) Field() RequestField {
	return c.field
}

// Budget returns the budget of the command.
func (c EditRequestCommand) Budget() decimal.Decimal {
	return c.budget
}

// Description returns the description of the command.
func (c EditRequestCommand) Description() string {
	return c.description
}

// Deadline returns the deadline of the command.
func (c EditRequestCommand) Deadline() time.Time {
	return c.deadline
}

func setID(dst *kernel.UUID, name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	*dst = id
	return nil
}

func setExpectedVersion(dst *int64, v int64) error {
	if v < 0 {
		return errs.NewValueIsOutOfRangeError("expectedVersion", v, 0, "unbounded")
	}
	*dst = v
	return nil
}
