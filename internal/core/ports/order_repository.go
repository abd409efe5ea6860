// Package ports defines the contracts between the application layer and the
// infrastructure adapters.
package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates with their request, invitations
// and stages.
type OrderRepository interface {
	// Add stores a new order. A second Add for the same id returns errs.AlreadyExistsError.
	Add(ctx context.Context, aggregate order.Order) error

	// Update stores aggregate if the stored version equals expectedVersion and
	// returns errs.ConcurrencyConflictError otherwise.
	Update(ctx context.Context, aggregate order.Order, expectedVersion int64) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (order.Order, error)

	// GetExpiredPending lists orders still waiting for invitation responses
	// whose deadline is at or before now, oldest deadline first.
	GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error)
}
