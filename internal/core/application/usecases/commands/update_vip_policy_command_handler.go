package commands

import (
	"context"
)

// UpdateVipPolicyCommandHandler is the application service for UpdateVipPolicyCommand.
type UpdateVipPolicyCommandHandler struct {
	uowFactory PolicyUoWFactory
}

// NewUpdateVipPolicyCommandHandler creates a UpdateVipPolicyCommandHandler.
func NewUpdateVipPolicyCommandHandler(uowFactory PolicyUoWFactory) UpdateVipPolicyCommandHandler {
	return UpdateVipPolicyCommandHandler{uowFactory: uowFactory}
}

// Handle replaces the current VIP policy with the next version. Profiles
// are re-evaluated lazily on their next accrual.
func (h *UpdateVipPolicyCommandHandler) Handle(ctx context.Context, cmd UpdateVipPolicyCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.VipPolicyRepository()
	current, err := repo.Current(ctx)
	if err != nil {
		return err
	}

	next, err := current.Replace(cmd.Name(), cmd.VipThreshold())
	if err != nil {
		return err
	}

	if err = repo.Replace(ctx, next); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
