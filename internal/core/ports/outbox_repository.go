package ports

import (
	"context"

	"orderflow/internal/core/domain/model/outbox"
)

// OutboxRepository is the durable outbox table. Command handlers only append.
// The publisher is the only writer of delivery state. Rows are never deleted.
type OutboxRepository interface {
	// Append inserts messages in the caller's transaction.
	Append(ctx context.Context, messages ...*outbox.Message) error

	// LockPending locks up to limit unpublished, non-dead rows in insertion
	// order. Rows locked by another transaction are skipped.
	LockPending(ctx context.Context, limit int) ([]*outbox.Message, error)

	// SaveDelivery persists publishedAt, attempts, lastError and deadAt.
	// The payload is never rewritten.
	SaveDelivery(ctx context.Context, message *outbox.Message) error
}
