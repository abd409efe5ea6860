package services

import (
	"time"

	"orderflow/internal/core/domain/model/bonus"
	"orderflow/internal/core/domain/model/event"
)

// VipPolicyEngine evaluates a commissioner's points against the current policy
// snapshot. It holds no state; repeated evaluation at the same total produces
// no events.
type VipPolicyEngine struct{}

// NewVipPolicyEngine returns a ready engine.
func NewVipPolicyEngine() VipPolicyEngine {
	return VipPolicyEngine{}
}

// Evaluate moves profile to points and returns the derived events:
//   - GradeAttained when the grade changes in either direction
//   - VipAccquired when points reach the threshold from below
//   - VipLost when points fall back below it
//
// Events carry the commissioner as aggregate and the next profile version.
func (VipPolicyEngine) Evaluate(
	profile bonus.Profile,
	points int64,
	policy bonus.VipProfilePolicy,
	correlationID string,
	now time.Time,
) (bonus.Profile, []event.Event, error) {
	grade, err := bonus.GradeByPoints(points)
	if err != nil {
		return profile, nil, err
	}
	isVip := policy.QualifiesForVip(points)

	if points == profile.Points() && grade == profile.Grade() && isVip == profile.IsVip() {
		return profile, nil, nil
	}

	next := profile.Advance(points, grade, isVip, now)
	commissionerID := next.CommissionerID()
	envelope := func(name event.Name) event.Envelope {
		return event.NewEnvelope(name, commissionerID, next.Version(), correlationID, now)
	}

	var events []event.Event
	if grade != profile.Grade() {
		events = append(events, event.GradeAttained{
			Envelope:       envelope(event.GradeAttainedName),
			CommissionerID: commissionerID,
			Grade:          grade.String(),
			PreviousGrade:  profile.Grade().String(),
			Points:         points,
		})
	}

	switch {
	case isVip && !profile.IsVip():
		events = append(events, event.VipAccquired{
			Envelope:       envelope(event.VipAccquiredName),
			CommissionerID: commissionerID,
			Points:         points,
			VipThreshold:   policy.VipThreshold(),
			PolicyName:     policy.Name(),
			PolicyVersion:  policy.Version(),
		})
	case !isVip && profile.IsVip():
		events = append(events, event.VipLost{
			Envelope:       envelope(event.VipLostName),
			CommissionerID: commissionerID,
			Points:         points,
			VipThreshold:   policy.VipThreshold(),
			PolicyName:     policy.Name(),
			PolicyVersion:  policy.Version(),
		})
	}

	return next, events, nil
}
