package order

import (
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// InvitationStatus is the answer of one invited workshop.
type InvitationStatus int

const (
	// InvitationPending means the workshop has not answered yet.
	InvitationPending InvitationStatus = iota + 1

	// InvitationAccepted means the workshop takes part in the order and may
	// mark stages as completed.
	InvitationAccepted

	// InvitationDeclined means the workshop refused. It may still cancel
	// the order while it is not terminated.
	InvitationDeclined
)

func getInvitationStatusStrings() map[InvitationStatus]string {
	return map[InvitationStatus]string{
		InvitationPending:  "Pending",
		InvitationAccepted: "Accepted",
		InvitationDeclined: "Declined",
	}
}

// String returns "Pending", "Accepted" or "Declined", or "Unknown" for
// invalid values.
func (s InvitationStatus) String() string {
	if str, ok := getInvitationStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate accepts the three defined statuses.
func (s InvitationStatus) Validate() error {
	if _, ok := getInvitationStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("invitation status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// Invitation is the invitation sent to one workshop.
type Invitation struct {
	workshopID  kernel.UUID
	status      InvitationStatus
	respondedAt *time.Time
}

// RestoreInvitation rebuilds a persisted invitation.
func RestoreInvitation(workshopID kernel.UUID, status InvitationStatus, respondedAt *time.Time) (Invitation, error) {
	if err := workshopID.Validate(); err != nil {
		return Invitation{}, err
	}
	if err := status.Validate(); err != nil {
		return Invitation{}, err
	}
	if (status == InvitationPending) != (respondedAt == nil) {
		return Invitation{}, errs.NewInvariantViolationError("respondedAt is set exactly when the invitation is answered")
	}
	return Invitation{workshopID: workshopID, status: status, respondedAt: respondedAt}, nil
}

// WorkshopID returns the invited workshop.
func (i Invitation) WorkshopID() kernel.UUID {
	return i.workshopID
}

// Status returns the current answer of the workshop.
func (i Invitation) Status() InvitationStatus {
	return i.status
}

// RespondedAt returns when the workshop answered, or nil while the
// invitation is pending.
func (i Invitation) RespondedAt() *time.Time {
	return i.respondedAt
}

func (i Invitation) respond(accepted bool, now time.Time) Invitation {
	at := now
	i.respondedAt = &at
	i.status = InvitationDeclined
	if accepted {
		i.status = InvitationAccepted
	}
	return i
}

// InvitationTracker counts responses to the invitations of one order.
// 0 <= responses <= total and declines <= responses always hold.
//
// The tracker is a value: Record returns an updated copy and never mutates
// the receiver. Order uses Complete to detect the quorum and Exhausted to
// decide between AwaitingStageConfirmations and Cancelled.
type InvitationTracker struct {
	total     int
	responses int
	declines  int
}

// NewInvitationTracker starts a tracker for total invitations with no
// responses. An order invites at least one workshop.
func NewInvitationTracker(total int) (InvitationTracker, error) {
	if total < 1 {
		return InvitationTracker{}, errs.NewValueIsOutOfRangeError("invitations", total, 1, "unbounded")
	}
	return InvitationTracker{total: total}, nil
}

// RestoreInvitationTracker rebuilds persisted counters and rejects any that
// break the tracker invariants.
func RestoreInvitationTracker(total, responses, declines int) (InvitationTracker, error) {
	t, err := NewInvitationTracker(total)
	if err != nil {
		return InvitationTracker{}, err
	}
	if responses < 0 || responses > total {
		return InvitationTracker{}, errs.NewInvariantViolationError(fmt.Sprintf("responses %d outside [0, %d]", responses, total))
	}
	if declines < 0 || declines > responses {
		return InvitationTracker{}, errs.NewInvariantViolationError(fmt.Sprintf("declines %d outside [0, %d]", declines, responses))
	}
	t.responses, t.declines = responses, declines
	return t, nil
}

// Record counts one response. A response once every invitation is answered is
// a duplicate and is rejected.
func (t InvitationTracker) Record(accepted bool) (InvitationTracker, error) {
	if t.Complete() {
		return t, errs.NewPreconditionFailedError("record response",
			fmt.Sprintf("all %d invitations have already been answered", t.total))
	}
	t.responses++
	if !accepted {
		t.declines++
	}
	return t, nil
}

// Total returns the number of invited workshops.
func (t InvitationTracker) Total() int {
	return t.total
}

// Responses returns how many workshops answered, in either direction.
func (t InvitationTracker) Responses() int {
	return t.responses
}

// Declines returns how many workshops declined.
func (t InvitationTracker) Declines() int {
	return t.declines
}

// Accepts returns how many workshops accepted.
func (t InvitationTracker) Accepts() int {
	return t.responses - t.declines
}

// Complete is the quorum: every invitation has been answered.
func (t InvitationTracker) Complete() bool {
	return t.total > 0 && t.responses == t.total
}

// Exhausted reports that every invitation was declined.
func (t InvitationTracker) Exhausted() bool {
	return t.total > 0 && t.declines == t.total
}
