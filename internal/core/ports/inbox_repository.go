package ports

import (
	"context"

	"orderflow/internal/core/domain/model/inbox"
)

// InboxRepository stores consumer dedup entries.
type InboxRepository interface {
	// Register inserts entry unless (consumer, eventId) is already present.
	// It reports false for an already seen event.
	Register(ctx context.Context, entry inbox.Entry) (bool, error)
}
