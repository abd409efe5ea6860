package bonus

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Profile is the accumulated loyalty state of one commissioner. Version 0
// means the profile has never been stored.
type Profile struct {
	commissionerID kernel.UUID
	points         int64
	grade          Grade
	isVip          bool
	version        int64
	updatedAt      time.Time
}

// NewProfile starts a commissioner at zero points, Newcomer, not VIP, with
// version 0.
func NewProfile(commissionerID kernel.UUID) (Profile, error) {
	if err := commissionerID.Validate(); err != nil {
		return Profile{}, err
	}
	return Profile{commissionerID: commissionerID, grade: Newcomer}, nil
}

// RestoreProfile rebuilds a stored profile. Negative points and invalid
// grades are rejected.
func RestoreProfile(commissionerID kernel.UUID, points int64, grade Grade, isVip bool, version int64, updatedAt time.Time) (Profile, error) {
	if err := commissionerID.Validate(); err != nil {
		return Profile{}, err
	}
	if points < 0 {
		return Profile{}, errs.NewInvariantViolationError("stored points are negative")
	}
	if err := grade.Validate(); err != nil {
		return Profile{}, err
	}
	return Profile{
		commissionerID: commissionerID,
		points:         points,
		grade:          grade,
		isVip:          isVip,
		version:        version,
		updatedAt:      updatedAt,
	}, nil
}

// CommissionerID identifies the profile owner.
func (p Profile) CommissionerID() kernel.UUID {
	return p.commissionerID
}

// Points is never negative.
func (p Profile) Points() int64 {
	return p.points
}

// Grade is derived from Points by GradeByPoints.
func (p Profile) Grade() Grade {
	return p.grade
}

// IsVip reflects the policy in force when the profile last changed.
func (p Profile) IsVip() bool {
	return p.isVip
}

// Version is used for optimistic locking on save.
func (p Profile) Version() int64 {
	return p.version
}

// UpdatedAt is zero for a profile that was never stored.
func (p Profile) UpdatedAt() time.Time {
	return p.updatedAt
}

// Advance returns the profile with new totals and the next version.
func (p Profile) Advance(points int64, grade Grade, isVip bool, now time.Time) Profile {
	p.points = points
	p.grade = grade
	p.isVip = isVip
	p.version++
	p.updatedAt = now.UTC()
	return p
}
