package commands

import (
	"errors"
	"strings"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrUpdateVipPolicyCommandIsNotConstructed is returned by Validate when a UpdateVipPolicyCommand was not
// built by its constructor.
var ErrUpdateVipPolicyCommandIsNotConstructed = errors.New(
	"UpdateVipPolicyCommand must be created via NewUpdateVipPolicyCommand constructor",
)

// UpdateVipPolicyCommand replaces the current VIP policy snapshot. Profiles
// are re-evaluated against it only when their points next change.
type UpdateVipPolicyCommand struct {
	name         string
	vipThreshold int64

	guard guard.ConstructorGuard
}

// NewUpdateVipPolicyCommand validates the inputs and creates a UpdateVipPolicyCommand.
func NewUpdateVipPolicyCommand(name string, vipThreshold int64) (UpdateVipPolicyCommand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return UpdateVipPolicyCommand{}, errs.NewValueIsRequiredError("name")
	}
	if vipThreshold < 1 {
		return UpdateVipPolicyCommand{}, errs.NewValueIsOutOfRangeError("vipThreshold", vipThreshold, 1, "unbounded")
	}
	return UpdateVipPolicyCommand{name: name, vipThreshold: vipThreshold, guard: guard.NewConstructorGuard()}, nil
}

// Validate returns ErrUpdateVipPolicyCommandIsNotConstructed if the value was not
// created by NewUpdateVipPolicyCommand.
func (c UpdateVipPolicyCommand) Validate() error {
	return c.guard.Validate(ErrUpdateVipPolicyCommandIsNotConstructed)
}

// Name returns the name of the command.
func (c UpdateVipPolicyCommand) Name() string {
	return c.name
}

// VipThreshold returns the VIP threshold of the command.
func (c UpdateVipPolicyCommand) VipThreshold() int64 {
	return c.vipThreshold
}
