package projection_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/projection"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type stream struct {
	orderID, commissionerID kernel.UUID
}

func (s stream) env(name event.Name, version int64) event.Envelope {
	return event.NewEnvelope(name, s.orderID, version, s.orderID.String(), at)
}

func (s stream) initialized() event.OrderInitialized {
	return event.OrderInitialized{
		Envelope:       s.env(event.OrderInitializedName, 1),
		CommissionerID: s.commissionerID,
		Title:          "Oak table",
		Budget:         decimal.MustParse("1500"),
		Deadline:       at.Add(72 * time.Hour),
		WorkshopIDs:    []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()},
		Stages:         []string{"Delivery"},
	}
}

func apply(t *testing.T, row projection.CommissionerOrder, events ...event.Event) projection.CommissionerOrder {
	t.Helper()
	for _, e := range events {
		row, _ = row.Apply(e)
	}
	return row
}

func TestApply(t *testing.T) {
	s := stream{orderID: kernel.NewUUID(), commissionerID: kernel.NewUUID()}
	init := s.initialized()

	t.Run("lifecycle", func(t *testing.T) {
		row := apply(t, projection.CommissionerOrder{},
			init,
			event.AllResponsesReceived{Envelope: s.env(event.AllResponsesReceivedName, 3), CommissionerID: s.commissionerID,
				Total: 2, AcceptedWorkshops: init.WorkshopIDs[:1]},
			event.OrderCompleted{Envelope: s.env(event.OrderCompletedName, 5), CommissionerID: s.commissionerID,
				Budget: decimal.MustParse("1500")},
		)

		assert.Equal(t, projection.StateCompleted, row.State)
		assert.Equal(t, int64(5), row.AggregateVersion)
		assert.Equal(t, []string{init.WorkshopIDs[0].String()}, row.Workshops)
		assert.True(t, row.CommissionerID.IsEqual(s.commissionerID))
	})

	t.Run("same event twice", func(t *testing.T) {
		once, changed := projection.CommissionerOrder{}.Apply(init)
		require.True(t, changed)

		twice, changed := once.Apply(init)

		assert.False(t, changed)
		assert.Equal(t, once, twice)
	})

	t.Run("late state event is ignored", func(t *testing.T) {
		row := apply(t, projection.CommissionerOrder{},
			init,
			event.OrderCancelled{Envelope: s.env(event.OrderCancelledName, 4), CommissionerID: s.commissionerID,
				CancelledBy: "Commissioner", PreviousState: projection.StateAwaiting},
		)

		late, changed := row.Apply(event.AllResponsesReceived{
			Envelope: s.env(event.AllResponsesReceivedName, 3), CommissionerID: s.commissionerID, Total: 2,
		})

		assert.False(t, changed)
		assert.Equal(t, projection.StateCancelled, late.State)
	})

	t.Run("terminal state wins at equal version", func(t *testing.T) {
		row := apply(t, projection.CommissionerOrder{},
			init,
			event.AllInvitationsDeclined{Envelope: s.env(event.AllInvitationsDeclinedName, 3), CommissionerID: s.commissionerID},
			event.AllResponsesReceived{Envelope: s.env(event.AllResponsesReceivedName, 3), CommissionerID: s.commissionerID, Total: 2, Declines: 2},
		)

		assert.Equal(t, projection.StateCancelled, row.State)
	})

	t.Run("request edit before init is kept", func(t *testing.T) {
		row := apply(t, projection.CommissionerOrder{},
			event.RequestEdited{Envelope: s.env(event.RequestEditedName, 2), CommissionerID: s.commissionerID,
				Field: "budget", Title: "Oak table", Budget: decimal.MustParse("2000"), RequestVersion: 2},
			init,
		)

		assert.Equal(t, 0, row.Budget.Cmp(decimal.MustParse("2000")))
		assert.Equal(t, int64(2), row.RequestVersion)
		assert.Equal(t, projection.StatePending, row.State)
	})

	t.Run("events of another order are ignored", func(t *testing.T) {
		row := apply(t, projection.CommissionerOrder{}, init)

		other := stream{orderID: kernel.NewUUID(), commissionerID: s.commissionerID}
		_, changed := row.Apply(other.initialized())

		assert.False(t, changed)
	})
}
