// Package projection holds the bonus service's read model of orders, built
// from the order workflow events.
package projection

import (
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/govalues/decimal"
)

const (
	// StatePending mirrors order.PendingWorkshopInvitations.
	StatePending = "PendingWorkshopInvitations"
	// StateAwaiting mirrors order.AwaitingStageConfirmations.
	StateAwaiting = "AwaitingStageConfirmations"
	// StateCompleted is terminal.
	StateCompleted = "Completed"
	// StateCancelled is terminal.
	StateCancelled = "Cancelled"
)

// CommissionerOrder is one order as seen by its commissioner.
//
// Events of one order arrive on several topics, so their relative order is
// not guaranteed. State and request fields are versioned separately:
// StateVersion is the aggregate version of the last state change applied and
// RequestVersion the last request revision applied. AggregateVersion is the
// highest version observed.
type CommissionerOrder struct {
	OrderID          kernel.UUID
	CommissionerID   kernel.UUID
	State            string
	StateVersion     int64
	Title            string
	Budget           decimal.Decimal
	Deadline         time.Time
	RequestVersion   int64
	Workshops        []string
	AggregateVersion int64
	LastEventID      kernel.UUID
	UpdatedAt        time.Time
}

// Apply folds e into the row. It reports false when e concerns another order
// or carries nothing newer than what the row already holds. Applying the same
// event twice leaves the row as after the first application.
func (c CommissionerOrder) Apply(e event.Event) (CommissionerOrder, bool) {
	meta := e.Meta()
	if c.OrderID.Validate() == nil && !c.OrderID.IsEqual(meta.AggregateID) {
		return c, false
	}

	next := c
	next.OrderID = meta.AggregateID
	changed := false

	switch ev := e.(type) {
	case event.OrderInitialized:
		next.CommissionerID = ev.CommissionerID
		changed = next.setState(StatePending, meta.AggregateVersion) || changed
		if next.RequestVersion < 1 {
			next.Title, next.Budget, next.Deadline, next.RequestVersion = ev.Title, ev.Budget, ev.Deadline, 1
			changed = true
		}
		if len(next.Workshops) == 0 {
			next.Workshops = idStrings(ev.WorkshopIDs)
			changed = true
		}
	case event.RequestEdited:
		next.CommissionerID = ev.CommissionerID
		if ev.RequestVersion > next.RequestVersion {
			next.Title, next.Budget, next.Deadline, next.RequestVersion = ev.Title, ev.Budget, ev.Deadline, ev.RequestVersion
			changed = true
		}
	case event.AllResponsesReceived:
		next.CommissionerID = ev.CommissionerID
		if next.setState(StateAwaiting, meta.AggregateVersion) {
			next.Workshops = idStrings(ev.AcceptedWorkshops)
			changed = true
		}
	case event.AllInvitationsDeclined:
		next.CommissionerID = ev.CommissionerID
		changed = next.setState(StateCancelled, meta.AggregateVersion) || changed
	case event.OrderCancelled:
		next.CommissionerID = ev.CommissionerID
		changed = next.setState(StateCancelled, meta.AggregateVersion) || changed
	case event.OrderCompleted:
		next.CommissionerID = ev.CommissionerID
		changed = next.setState(StateCompleted, meta.AggregateVersion) || changed
		if next.Budget.Cmp(ev.Budget) != 0 {
			next.Budget = ev.Budget
			changed = true
		}
	}

	if meta.AggregateVersion > next.AggregateVersion {
		next.AggregateVersion = meta.AggregateVersion
		changed = true
	}
	if !changed {
		return c, false
	}
	next.LastEventID = meta.EventID
	next.UpdatedAt = meta.Timestamp
	return next, true
}

// setState applies a state change observed at version unless a newer one is
// already applied. One transition emits several events at the same version,
// so an equal version is accepted unless the row already holds a terminal
// state.
func (c *CommissionerOrder) setState(state string, version int64) bool {
	if version < c.StateVersion {
		return false
	}
	if version == c.StateVersion && (c.State == state || isTerminal(c.State)) {
		return false
	}
	c.State = state
	c.StateVersion = version
	return true
}

func isTerminal(state string) bool {
	return state == StateCompleted || state == StateCancelled
}

func idStrings(ids []kernel.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
