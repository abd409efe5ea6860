package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeadOutboxMessagesQueryHandler lists outbox rows set aside as dead.
type GetDeadOutboxMessagesQueryHandler struct {
	db *gorm.DB
}

// NewGetDeadOutboxMessagesQueryHandler creates a GetDeadOutboxMessagesQueryHandler.
func NewGetDeadOutboxMessagesQueryHandler(db *gorm.DB) GetDeadOutboxMessagesQueryHandler {
	return GetDeadOutboxMessagesQueryHandler{db: db}
}

// Handle returns the dead messages in seq order.
func (h GetDeadOutboxMessagesQueryHandler) Handle(
	ctx context.Context,
	query GetDeadOutboxMessagesQuery,
) (GetDeadOutboxMessagesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeadOutboxMessagesQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT seq, event_id, event_name, aggregate_id, attempts, last_error, created_at, dead_at
		FROM outbox_messages
		WHERE dead_at IS NOT NULL
		ORDER BY seq
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return GetDeadOutboxMessagesQueryResponse{}, err
	}
	defer rows.Close()

	resp := GetDeadOutboxMessagesQueryResponse{Messages: make([]DeadMessageView, 0)}
	for rows.Next() {
		var (
			view        DeadMessageView
			eventID     uuid.UUID
			aggregateID uuid.UUID
		)
		if err = rows.Scan(
			&view.Seq,
			&eventID,
			&view.EventName,
			&aggregateID,
			&view.Attempts,
			&view.LastError,
			&view.CreatedAt,
			&view.DeadAt,
		); err != nil {
			return GetDeadOutboxMessagesQueryResponse{}, err
		}
		if view.EventID, err = kernel.UUIDFromGoogle(eventID); err != nil {
			return GetDeadOutboxMessagesQueryResponse{}, err
		}
		if view.AggregateID, err = kernel.UUIDFromGoogle(aggregateID); err != nil {
			return GetDeadOutboxMessagesQueryResponse{}, err
		}
		resp.Messages = append(resp.Messages, view)
	}
	return resp, rows.Err()
}
