package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/projection"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"

	"github.com/govalues/decimal"
)

const (
	// DefaultPageLimit applies when the caller passes no limit.
	DefaultPageLimit = 50
	// MaxPageLimit caps the limit.
	MaxPageLimit = 500
)

// ErrGetCommissionerOrdersQueryIsNotConstructed is returned by Validate when a GetCommissionerOrdersQuery was not
// built by its constructor.
var ErrGetCommissionerOrdersQueryIsNotConstructed = errors.New(
	"GetCommissionerOrdersQuery must be created via NewGetCommissionerOrdersQuery constructor",
)

// GetCommissionerOrdersQuery lists a commissioner's orders from the bonus
// service's projection, newest deadline first. An empty state lists every
// state; a zero limit means DefaultPageLimit.
type GetCommissionerOrdersQuery struct {
	commissionerID kernel.UUID
	state          string
	limit          int

	guard guard.ConstructorGuard
}

// NewGetCommissionerOrdersQuery validates the inputs and creates a GetCommissionerOrdersQuery.
func NewGetCommissionerOrdersQuery(
	commissionerID kernel.UUID,
	state string,
	limit int,
) (GetCommissionerOrdersQuery, error) {
	if err := commissionerID.Validate(); err != nil {
		return GetCommissionerOrdersQuery{}, errs.NewValueIsRequiredErrorWithCause("commissionerId", err)
	}
	switch state {
	case "", projection.StatePending, projection.StateAwaiting, projection.StateCompleted, projection.StateCancelled:
	default:
		return GetCommissionerOrdersQuery{}, errs.NewValueIsInvalidError("state")
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if limit < 1 || limit > MaxPageLimit {
		return GetCommissionerOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageLimit)
	}
	return GetCommissionerOrdersQuery{
		commissionerID: commissionerID,
		state:          state,
		limit:          limit,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate returns ErrGetCommissionerOrdersQueryIsNotConstructed if the value was not
// created by NewGetCommissionerOrdersQuery.
func (q GetCommissionerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCommissionerOrdersQueryIsNotConstructed)
}

// CommissionerID returns the commissioner ID of the query.
func (q GetCommissionerOrdersQuery) CommissionerID() kernel.UUID {
	return q.commissionerID
}

// State is the optional state filter. Empty means all states.
func (q GetCommissionerOrdersQuery) State() string {
	return q.state
}

// Limit returns the limit of the query.
func (q GetCommissionerOrdersQuery) Limit() int {
	return q.limit
}

// GetCommissionerOrdersQueryResponse is one page of projection rows.
type GetCommissionerOrdersQueryResponse struct {
	Orders []CommissionerOrderView
}

// CommissionerOrderView is one projection row.
type CommissionerOrderView struct {
	OrderID          kernel.UUID
	State            string
	Title            string
	Budget           decimal.Decimal
	Deadline         time.Time
	Workshops        []string
	AggregateVersion int64
	UpdatedAt        time.Time
}
