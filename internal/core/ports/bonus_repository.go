package ports

import (
	"context"

	"orderflow/internal/core/domain/model/bonus"
	"orderflow/internal/core/domain/model/kernel"
)

// BonusProfileRepository stores one profile per commissioner.
type BonusProfileRepository interface {
	// Get returns errs.ObjectNotFoundError when the commissioner has no profile yet.
	Get(ctx context.Context, commissionerID kernel.UUID) (bonus.Profile, error)

	// Save inserts a profile at version 1 and otherwise updates it from
	// version-1, failing with errs.ConcurrencyConflictError on mismatch.
	Save(ctx context.Context, profile bonus.Profile) error
}

// VipPolicyRepository stores the single current VIP policy snapshot.
type VipPolicyRepository interface {
	// Current returns the stored snapshot or bonus.DefaultVipProfilePolicy.
	Current(ctx context.Context) (bonus.VipProfilePolicy, error)

	// Replace stores policy when the stored version is policy.Version()-1.
	Replace(ctx context.Context, policy bonus.VipProfilePolicy) error
}
