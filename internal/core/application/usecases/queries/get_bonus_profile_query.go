package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// ErrGetBonusProfileQueryIsNotConstructed is returned by Validate when a GetBonusProfileQuery was not
// built by its constructor.
var ErrGetBonusProfileQueryIsNotConstructed = errors.New(
	"GetBonusProfileQuery must be created via NewGetBonusProfileQuery constructor",
)

// GetBonusProfileQuery reads the loyalty profile of a commissioner. A
// commissioner without any credited order reads as a fresh Newcomer.
type GetBonusProfileQuery struct {
	commissionerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetBonusProfileQuery validates the inputs and creates a GetBonusProfileQuery.
func NewGetBonusProfileQuery(commissionerID kernel.UUID) (GetBonusProfileQuery, error) {
	if err := commissionerID.Validate(); err != nil {
		return GetBonusProfileQuery{}, errs.NewValueIsRequiredErrorWithCause("commissionerId", err)
	}
	return GetBonusProfileQuery{commissionerID: commissionerID, guard: guard.NewConstructorGuard()}, nil
}

// Validate returns ErrGetBonusProfileQueryIsNotConstructed if the value was not
// created by NewGetBonusProfileQuery.
func (q GetBonusProfileQuery) Validate() error {
	return q.guard.Validate(ErrGetBonusProfileQueryIsNotConstructed)
}

// CommissionerID returns the commissioner ID of the query.
func (q GetBonusProfileQuery) CommissionerID() kernel.UUID {
	return q.commissionerID
}

// GetBonusProfileQueryResponse is the stored profile.
type GetBonusProfileQueryResponse struct {
	CommissionerID kernel.UUID
	Points         int64
	Grade          string
	IsVip          bool
	Version        int64
	UpdatedAt      *time.Time
}
