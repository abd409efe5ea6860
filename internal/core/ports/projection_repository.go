package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/projection"
)

// CommissionerOrderRepository stores the bonus service read model.
type CommissionerOrderRepository interface {
	// Get locks and returns the row, or a zero row with found == false.
	Get(ctx context.Context, orderID kernel.UUID) (row projection.CommissionerOrder, found bool, err error)

	// Insert creates the first row of an order. It fails with
	// errs.ConcurrencyConflictError when another transaction created the row
	// first, so the caller retries against the committed row.
	Insert(ctx context.Context, row projection.CommissionerOrder) error

	// Upsert writes row unless the stored aggregate version is newer.
	Upsert(ctx context.Context, row projection.CommissionerOrder) error
}
