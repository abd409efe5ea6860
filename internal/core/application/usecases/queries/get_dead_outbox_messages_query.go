package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrGetDeadOutboxMessagesQueryIsNotConstructed is returned by Validate when a GetDeadOutboxMessagesQuery was not
// built by its constructor.
var ErrGetDeadOutboxMessagesQueryIsNotConstructed = errors.New(
	"GetDeadOutboxMessagesQuery must be created via NewGetDeadOutboxMessagesQuery constructor",
)

// GetDeadOutboxMessagesQuery lists outbox rows the relay gave up on, oldest first.
type GetDeadOutboxMessagesQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetDeadOutboxMessagesQuery validates the inputs and creates a GetDeadOutboxMessagesQuery.
func NewGetDeadOutboxMessagesQuery(limit int) (GetDeadOutboxMessagesQuery, error) {
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 || limit > MaxPageLimit {
		return GetDeadOutboxMessagesQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	}
	return GetDeadOutboxMessagesQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate returns ErrGetDeadOutboxMessagesQueryIsNotConstructed if the value was not
// created by NewGetDeadOutboxMessagesQuery.
func (q GetDeadOutboxMessagesQuery) Validate() error {
	return q.guard.Validate(ErrGetDeadOutboxMessagesQueryIsNotConstructed)
}

// Limit returns the limit of the query.
func (q GetDeadOutboxMessagesQuery) Limit() int {
	return q.limit
}

// GetDeadOutboxMessagesQueryResponse lists dead messages.
type GetDeadOutboxMessagesQueryResponse struct {
	Messages []DeadMessageView
}

// DeadMessageView omits the payload.
type DeadMessageView struct {
	Seq         int64
	EventID     kernel.UUID
	EventName   string
	AggregateID kernel.UUID
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	DeadAt      time.Time
}
