package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/govalues/decimal"
)

// ErrGetOrderQueryIsNotConstructed is returned by Validate when a GetOrderQuery was not
// built by its constructor.
var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery reads the current state of one order.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery validates the inputs and creates a GetOrderQuery.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate returns ErrGetOrderQueryIsNotConstructed if the value was not
// created by NewGetOrderQuery.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order ID of the query.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the full order as stored.
type GetOrderQueryResponse struct {
	ID             kernel.UUID
	CommissionerID kernel.UUID
	State          string
	CancelledBy    string
	CancelReason   string
	Version        int64
	Request        RequestView
	Invitations    InvitationsView
	Stages         []StageView
	CreatedAt      time.Time
	LastUpdatedAt  time.Time
}

// RequestView is the current request revision.
type RequestView struct {
	Title       string
	Description string
	Deadline    time.Time
	Budget      decimal.Decimal
	Version     int64
}

// InvitationsView holds the tracker counters and every invitation in order.
type InvitationsView struct {
	Total     int
	Responses int
	Declines  int
	Items     []InvitationView
}

// InvitationView is one invitation. RespondedAt is nil while pending.
type InvitationView struct {
	WorkshopID  kernel.UUID
	Status      string
	RespondedAt *time.Time
}

// StageView is one stage with its mark and confirmation times.
type StageView struct {
	Name        string
	MarkedBy    *kernel.UUID
	MarkedAt    *time.Time
	ConfirmedAt *time.Time
}
