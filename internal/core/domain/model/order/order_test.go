package order_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	commissionerID kernel.UUID
	workshops      []kernel.UUID
	order          order.Order
}

func newFixture(t *testing.T, workshops int, stages ...string) fixture {
	t.Helper()

	if len(stages) == 0 {
		stages = []string{"Design", "Delivery"}
	}
	f := fixture{commissionerID: kernel.NewUUID()}
	for range workshops {
		f.workshops = append(f.workshops, kernel.NewUUID())
	}

	req, err := order.NewRequest("Oak table", "Solid oak, 2m", now.Add(72*time.Hour), decimal.MustParse("1500"), now)
	require.NoError(t, err)

	o, events, err := order.NewOrder(kernel.NewUUID(), f.commissionerID, req, f.workshops, stages, now)
	require.NoError(t, err)
	require.Len(t, events, 1)
	f.order = o
	return f
}

func eventNames(events []event.Event) []event.Name {
	names := make([]event.Name, len(events))
	for i, e := range events {
		names[i] = e.Meta().EventName
	}
	return names
}

func mustApply(t *testing.T, o order.Order, events []event.Event, err error) order.Order {
	t.Helper()
	require.NoError(t, err)
	for _, e := range events {
		assert.Equal(t, o.Version(), e.Meta().AggregateVersion, "event %s", e.Meta().EventName)
		require.NoError(t, e.Validate())
	}
	return o
}

func TestNewOrder(t *testing.T) {
	f := newFixture(t, 3)

	assert.Equal(t, order.PendingWorkshopInvitations, f.order.State())
	assert.Equal(t, int64(1), f.order.Version())
	assert.False(t, f.order.IsTerminated())
	assert.Equal(t, 3, f.order.Tracker().Total())
	assert.Equal(t, []string{"Design", "Delivery"}, f.order.Stages().Names())

	t.Run("rejects invalid input", func(t *testing.T) {
		req, err := order.NewRequest("Chair", "", now.Add(time.Hour), decimal.MustParse("10"), now)
		require.NoError(t, err)
		workshop := kernel.NewUUID()

		tests := []struct {
			name      string
			workshops []kernel.UUID
			stages    []string
			wantErr   error
		}{
			{"no workshops", nil, []string{"Build"}, errs.ErrValueIsOutOfRange},
			{"duplicate workshop", []kernel.UUID{workshop, workshop}, []string{"Build"}, errs.ErrValueIsInvalid},
			{"no stages", []kernel.UUID{workshop}, nil, errs.ErrValueIsRequired},
			{"blank stage", []kernel.UUID{workshop}, []string{" "}, errs.ErrValueIsRequired},
			{"duplicate stage", []kernel.UUID{workshop}, []string{"Build", "Build"}, errs.ErrValueIsInvalid},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, events, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), req, tc.workshops, tc.stages, now)

				require.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, events)
			})
		}
	})

	t.Run("rejects a deadline in the past", func(t *testing.T) {
		_, err := order.NewRequest("Chair", "", now.Add(-time.Minute), decimal.MustParse("10"), now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o order.Order

		_, _, err := o.Cancel(order.PartySystem, kernel.UUID{}, "x", now)

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}

func TestInvitationQuorum(t *testing.T) {
	t.Run("two accept one declines", func(t *testing.T) {
		f := newFixture(t, 3)
		o := f.order

		next, events, err := o.AcceptInvitation(f.workshops[0], now)
		o = mustApply(t, next, events, err)
		assert.Equal(t, []event.Name{event.InvitationAcceptedName}, eventNames(events))

		next, events, err = o.AcceptInvitation(f.workshops[1], now)
		o = mustApply(t, next, events, err)
		assert.Equal(t, order.PendingWorkshopInvitations, o.State())

		next, events, err = o.DeclineInvitation(f.workshops[2], now)
		o = mustApply(t, next, events, err)

		assert.Equal(t, []event.Name{event.InvitationDeclinedName, event.AllResponsesReceivedName}, eventNames(events))
		assert.Equal(t, 3, o.Tracker().Total())
		assert.Equal(t, 3, o.Tracker().Responses())
		assert.Equal(t, 1, o.Tracker().Declines())
		assert.Equal(t, order.AwaitingStageConfirmations, o.State())
		assert.Equal(t, int64(4), o.Version())
		assert.Equal(t, []kernel.UUID{f.workshops[0], f.workshops[1]}, o.AcceptedWorkshops())

		all, ok := events[1].(event.AllResponsesReceived)
		require.True(t, ok)
		assert.Equal(t, 3, all.Total)
		assert.Equal(t, 1, all.Declines)
	})

	t.Run("all decline cancels the order", func(t *testing.T) {
		f := newFixture(t, 2)
		o := f.order

		next, events, err := o.DeclineInvitation(f.workshops[0], now)
		o = mustApply(t, next, events, err)
		next, events, err = o.DeclineInvitation(f.workshops[1], now)
		o = mustApply(t, next, events, err)

		assert.Equal(t, []event.Name{
			event.InvitationDeclinedName,
			event.AllResponsesReceivedName,
			event.AllInvitationsDeclinedName,
		}, eventNames(events))
		assert.Equal(t, order.Cancelled, o.State())
		assert.True(t, o.IsTerminated())
		assert.Equal(t, order.PartySystem, o.CancelledBy())
		assert.Equal(t, order.ReasonAllInvitationsDeclined, o.CancelReason())
	})

	t.Run("duplicate responses are rejected", func(t *testing.T) {
		f := newFixture(t, 2)

		o, _, err := f.order.AcceptInvitation(f.workshops[0], now)
		require.NoError(t, err)

		_, events, err := o.DeclineInvitation(f.workshops[0], now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Empty(t, events)

		o, _, err = o.AcceptInvitation(f.workshops[1], now)
		require.NoError(t, err)

		_, _, err = o.AcceptInvitation(f.workshops[1], now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Equal(t, 2, o.Tracker().Responses())
	})

	t.Run("uninvited workshop is rejected", func(t *testing.T) {
		f := newFixture(t, 1)

		_, _, err := f.order.AcceptInvitation(kernel.NewUUID(), now)

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("counters never exceed total under random responses", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 11))

		for range 50 {
			f := newFixture(t, 1+rng.IntN(5))
			o := f.order
			quorumEvents := 0

			for range 20 {
				w := f.workshops[rng.IntN(len(f.workshops))]
				var (
					next   order.Order
					events []event.Event
					err    error
				)
				if rng.IntN(2) == 0 {
					next, events, err = o.AcceptInvitation(w, now)
				} else {
					next, events, err = o.DeclineInvitation(w, now)
				}
				if err != nil {
					require.ErrorIs(t, err, errs.ErrPreconditionFailed)
					continue
				}
				o = next
				for _, e := range events {
					if e.Meta().EventName == event.AllResponsesReceivedName {
						quorumEvents++
					}
				}

				tr := o.Tracker()
				require.LessOrEqual(t, tr.Responses(), tr.Total())
				require.LessOrEqual(t, tr.Declines(), tr.Responses())
			}

			assert.Equal(t, o.Tracker().Complete(), quorumEvents == 1)
			assert.LessOrEqual(t, quorumEvents, 1)
		}
	})
}

func awaiting(t *testing.T, stages ...string) fixture {
	t.Helper()

	f := newFixture(t, 2, stages...)
	o, _, err := f.order.AcceptInvitation(f.workshops[0], now)
	require.NoError(t, err)
	o, _, err = o.DeclineInvitation(f.workshops[1], now)
	require.NoError(t, err)
	require.Equal(t, order.AwaitingStageConfirmations, o.State())
	f.order = o
	return f
}

func TestStageHandshake(t *testing.T) {
	t.Run("confirming the last stage completes the order", func(t *testing.T) {
		f := awaiting(t, "Delivery")
		o := f.order

		next, events, err := o.MarkStageCompletion(f.workshops[0], "Delivery", now)
		o = mustApply(t, next, events, err)
		assert.Equal(t, []event.Name{event.StageMarkedAsCompletedName}, eventNames(events))

		next, events, err = o.ConfirmStageCompletion(f.commissionerID, "Delivery", now)
		o = mustApply(t, next, events, err)

		assert.Equal(t, order.Completed, o.State())
		assert.Equal(t, []event.Name{
			event.StageConfirmedName,
			event.OrderMarkedAsCompletedName,
			event.OrderCompletedName,
		}, eventNames(events))

		completed, ok := events[2].(event.OrderCompleted)
		require.True(t, ok)
		assert.Equal(t, int64(5), completed.AggregateVersion)
		assert.True(t, completed.CommissionerID.IsEqual(f.commissionerID))
		assert.Equal(t, 0, completed.Budget.Cmp(decimal.MustParse("1500")))
	})

	t.Run("repeat mark is a no-op", func(t *testing.T) {
		f := awaiting(t)

		marked, _, err := f.order.MarkStageCompletion(f.workshops[0], "Design", now)
		require.NoError(t, err)

		again, events, err := marked.MarkStageCompletion(f.workshops[0], "Design", now.Add(time.Minute))

		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Equal(t, marked.Version(), again.Version())
	})

	t.Run("confirm without mark fails", func(t *testing.T) {
		f := awaiting(t)

		_, events, err := f.order.ConfirmStageCompletion(f.commissionerID, "Design", now)

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Empty(t, events)
	})

	t.Run("completion requires every stage", func(t *testing.T) {
		f := awaiting(t, "Design", "Delivery")
		o := f.order

		o, _, err := o.MarkStageCompletion(f.workshops[0], "Design", now)
		require.NoError(t, err)
		o, _, err = o.ConfirmStageCompletion(f.commissionerID, "Design", now)
		require.NoError(t, err)
		assert.Equal(t, order.AwaitingStageConfirmations, o.State())

		_, _, err = o.ConfirmStageCompletion(f.commissionerID, "Design", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed, "double confirmation")

		o, _, err = o.MarkStageCompletion(f.workshops[0], "Delivery", now)
		require.NoError(t, err)
		o, _, err = o.ConfirmStageCompletion(f.commissionerID, "Delivery", now)
		require.NoError(t, err)
		assert.Equal(t, order.Completed, o.State())
		assert.True(t, o.Stages().AllCompleted())

		_, _, err = o.Cancel(order.PartyCommissioner, f.commissionerID, "late", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("rejects wrong actors and unknown stages", func(t *testing.T) {
		f := awaiting(t)

		_, _, err := f.order.MarkStageCompletion(f.workshops[1], "Design", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed, "declined workshop")

		_, _, err = f.order.MarkStageCompletion(f.workshops[0], "Painting", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed, "undeclared stage")

		marked, _, err := f.order.MarkStageCompletion(f.workshops[0], "Design", now)
		require.NoError(t, err)
		_, _, err = marked.ConfirmStageCompletion(kernel.NewUUID(), "Design", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed, "stranger confirms")
	})

	t.Run("marking before quorum fails", func(t *testing.T) {
		f := newFixture(t, 2)

		_, _, err := f.order.MarkStageCompletion(f.workshops[0], "Design", now)

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})
}

func TestCancel(t *testing.T) {
	t.Run("commissioner cancels", func(t *testing.T) {
		f := awaiting(t)

		next, events, err := f.order.Cancel(order.PartyCommissioner, f.commissionerID, "changed my mind", now)
		o := mustApply(t, next, events, err)

		assert.Equal(t, order.Cancelled, o.State())
		assert.True(t, o.IsTerminated())
		assert.Equal(t, order.PartyCommissioner, o.CancelledBy())

		cancelled, ok := events[0].(event.OrderCancelled)
		require.True(t, ok)
		assert.Equal(t, "Commissioner", cancelled.CancelledBy)
		assert.Equal(t, "AwaitingStageConfirmations", cancelled.PreviousState)
		assert.Equal(t, o.Version(), cancelled.AggregateVersion)
	})

	t.Run("invited workshop cancels", func(t *testing.T) {
		f := newFixture(t, 2)

		o, _, err := f.order.Cancel(order.PartyWorkshop, f.workshops[1], "capacity", now)

		require.NoError(t, err)
		assert.Equal(t, order.PartyWorkshop, o.CancelledBy())
	})

	t.Run("terminated order rejects every command", func(t *testing.T) {
		f := awaiting(t)
		o, _, err := f.order.Cancel(order.PartyCommissioner, f.commissionerID, "x", now)
		require.NoError(t, err)

		_, _, err = o.Cancel(order.PartyCommissioner, f.commissionerID, "again", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		_, _, err = o.EditDescription(f.commissionerID, "new", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		_, _, err = o.MarkStageCompletion(f.workshops[0], "Design", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		f := newFixture(t, 1)

		_, _, err := f.order.Cancel(order.PartyWorkshop, kernel.NewUUID(), "x", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)

		_, _, err = f.order.Cancel(order.PartyCommissioner, kernel.NewUUID(), "x", now)
		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})
}

func TestExpireInvitations(t *testing.T) {
	f := newFixture(t, 2)
	deadline := f.order.Request().Deadline()

	_, _, err := f.order.ExpireInvitations(deadline.Add(-time.Second))
	require.ErrorIs(t, err, errs.ErrPreconditionFailed)

	o, events, err := f.order.ExpireInvitations(deadline)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, o.State())
	assert.Equal(t, order.PartySystem, o.CancelledBy())
	assert.Equal(t, order.ReasonInvitationsExpired, o.CancelReason())
	require.Len(t, events, 1)
	cancelled, ok := events[0].(event.OrderCancelled)
	require.True(t, ok)
	assert.Nil(t, cancelled.ActorID)

	accepted := awaiting(t)
	_, _, err = accepted.order.ExpireInvitations(deadline.Add(time.Hour))
	require.ErrorIs(t, err, errs.ErrPreconditionFailed)
}

func TestEditRequest(t *testing.T) {
	f := newFixture(t, 1)

	o, events, err := f.order.EditBudget(f.commissionerID, decimal.MustParse("2000"), now)
	o = mustApply(t, o, events, err)
	assert.Equal(t, int64(2), o.Request().Version())
	assert.Equal(t, int64(1), f.order.Request().Version(), "receiver is not mutated")

	edited, ok := events[0].(event.RequestEdited)
	require.True(t, ok)
	assert.Equal(t, "budget", edited.Field)
	assert.Equal(t, int64(2), edited.RequestVersion)

	o, _, err = o.EditDescription(f.commissionerID, "Walnut instead", now)
	require.NoError(t, err)
	o, _, err = o.EditDeadline(f.commissionerID, now.Add(240*time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), o.Request().Version())
	assert.Equal(t, "Walnut instead", o.Request().Description())

	_, _, err = o.EditBudget(f.commissionerID, decimal.MustParse("-1"), now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, _, err = o.EditBudget(kernel.NewUUID(), decimal.MustParse("10"), now)
	require.ErrorIs(t, err, errs.ErrPreconditionFailed)
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	f := newFixture(t, 2)
	before := f.order.Invitations()

	_, _, err := f.order.AcceptInvitation(f.workshops[0], now)
	require.NoError(t, err)

	assert.Equal(t, before, f.order.Invitations())
	assert.Equal(t, 0, f.order.Tracker().Responses())
	assert.Equal(t, int64(1), f.order.Version())
}
