package commands_test

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/bonus"
	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/inbox"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/projection"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConsumer = "bonus-service"

func (w *workflow) complete() {
	w.t.Helper()
	for _, ws := range w.workshops {
		require.NoError(w.t, w.respond(ws, true, 0))
	}
	for _, stage := range []string{"Design", "Delivery"} {
		require.NoError(w.t, w.mark(w.workshops[0], stage))
		require.NoError(w.t, w.confirm(stage))
	}
}

func (w *workflow) payloads() [][]byte {
	var out [][]byte
	for _, m := range w.store.snapshot().outbox {
		out = append(out, m.Payload())
	}
	return out
}

func ingest(t *testing.T, store *memStore, payload []byte) error {
	t.Helper()
	cmd, err := commands.NewIngestEventCommand(testConsumer, payload)
	require.NoError(t, err)
	h := commands.NewIngestEventCommandHandler(store.IngestFactory(), services.NewVipPolicyEngine(), kernel.FixedClock(testNow))
	return h.Handle(t.Context(), cmd)
}

func ingestAll(t *testing.T, store *memStore, payloads [][]byte) {
	t.Helper()
	for _, p := range payloads {
		require.NoError(t, ingest(t, store, p))
	}
}

func TestIngest_CompletedOrderAccruesPointsAndProjects(t *testing.T) {
	w := newWorkflow(t, 1)
	w.complete()
	bonusStore := newMemStore()

	ingestAll(t, bonusStore, w.payloads())

	state := bonusStore.snapshot()
	profile := state.profiles[w.commissionerID]
	assert.Equal(t, int64(150), profile.Points())
	assert.Equal(t, bonus.Bronze, profile.Grade())
	assert.Equal(t, int64(1), profile.Version())

	row := state.rows[w.orderID]
	assert.Equal(t, projection.StateCompleted, row.State)
	assert.Equal(t, []string{w.workshops[0].String()}, row.Workshops)

	assert.Equal(t, []string{"GradeAttained"}, bonusStore.outboxNames())
}

func TestIngest_RedeliveryChangesNothing(t *testing.T) {
	w := newWorkflow(t, 2)
	w.complete()
	bonusStore := newMemStore()
	ingestAll(t, bonusStore, w.payloads())
	before := bonusStore.snapshot()

	ingestAll(t, bonusStore, w.payloads())

	after := bonusStore.snapshot()
	assert.Equal(t, before.profiles, after.profiles)
	assert.Equal(t, before.rows, after.rows)
	assert.Len(t, after.outbox, len(before.outbox))
	assert.Len(t, after.inbox, len(before.inbox))
}

func TestIngest_ProjectionConvergesUnderReordering(t *testing.T) {
	w := newWorkflow(t, 2)
	w.complete()
	payloads := w.payloads()

	for i := range 20 {
		r := rand.New(rand.NewPCG(uint64(i), 7))
		shuffled := append([][]byte(nil), payloads...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		bonusStore := newMemStore()
		ingestAll(t, bonusStore, shuffled)

		state := bonusStore.snapshot()
		row := state.rows[w.orderID]
		assert.Equal(t, projection.StateCompleted, row.State, "permutation %d", i)
		assert.Equal(t, w.order().Version(), row.AggregateVersion, "permutation %d", i)
		assert.Equal(t, int64(150), state.profiles[w.commissionerID].Points(), "permutation %d", i)
	}
}

func TestIngest_RacingFirstEventsKeepTheInitializedRow(t *testing.T) {
	w := newWorkflow(t, 2)
	require.NoError(t, w.respond(w.workshops[0], true, 0))
	payloads := w.payloads()
	require.Len(t, payloads, 2)
	initialized, accepted := payloads[0], payloads[1]
	bonusStore := newMemStore()

	// OrderInitialized commits while the InvitationAccepted delivery still
	// sees no row.
	bonusStore.onBegin = func() {
		require.NoError(t, ingest(t, bonusStore, initialized))
	}
	err := ingest(t, bonusStore, accepted)
	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	assert.True(t, errs.IsRetryable(err))

	require.NoError(t, ingest(t, bonusStore, accepted))

	row := bonusStore.snapshot().rows[w.orderID]
	assert.Equal(t, projection.StatePending, row.State)
	assert.Equal(t, "Oak table", row.Title)
	assert.Equal(t, w.commissionerID, row.CommissionerID)
	assert.Len(t, row.Workshops, 2)
	assert.Equal(t, int64(2), row.AggregateVersion)
}

func TestIngest_CommissionerCancelWhileAwaitingCostsPoints(t *testing.T) {
	store := newMemStore()
	commissionerID := kernel.NewUUID()
	first := newWorkflowWith(t, store, commissionerID, 1)
	first.complete()

	second := newWorkflowWith(t, store, commissionerID, 1)
	require.NoError(t, second.respond(second.workshops[0], true, 0))
	require.NoError(t, second.cancel(order.PartyCommissioner, commissionerID, "no longer needed"))

	third := newWorkflowWith(t, store, commissionerID, 1)
	require.NoError(t, third.cancel(order.PartyCommissioner, commissionerID, "typo"))

	// the three orders share one outbox
	bonusStore := newMemStore()
	ingestAll(t, bonusStore, first.payloads())

	profile := bonusStore.snapshot().profiles[commissionerID]
	assert.Equal(t, int64(100), profile.Points())
	assert.Equal(t, bonus.Bronze, profile.Grade())
	assert.Equal(t, int64(2), profile.Version())
}

func TestIngest_PenaltyNeverGoesBelowZero(t *testing.T) {
	w := newWorkflow(t, 1)
	require.NoError(t, w.respond(w.workshops[0], true, 0))
	require.NoError(t, w.cancel(order.PartyCommissioner, w.commissionerID, ""))
	bonusStore := newMemStore()

	ingestAll(t, bonusStore, w.payloads())

	_, stored := bonusStore.snapshot().profiles[w.commissionerID]
	assert.False(t, stored)
	assert.Empty(t, bonusStore.outboxNames())
}

func TestIngest_VipFollowsCurrentPolicy(t *testing.T) {
	bonusStore := newMemStore()
	cmd, err := commands.NewUpdateVipPolicyCommand("spring", 100)
	require.NoError(t, err)
	policyHandler := commands.NewUpdateVipPolicyCommandHandler(bonusStore.PolicyFactory())
	require.NoError(t, policyHandler.Handle(t.Context(), cmd))

	w := newWorkflow(t, 1)
	w.complete()
	ingestAll(t, bonusStore, w.payloads())

	assert.Equal(t, []string{"GradeAttained", "VipAccquired"}, bonusStore.outboxNames())
	rows := bonusStore.snapshot().outbox
	decoded, err := event.Decode(rows[1].Payload())
	require.NoError(t, err)
	vip, ok := decoded.(event.VipAccquired)
	require.True(t, ok)
	assert.Equal(t, "spring", vip.PolicyName)
	assert.Equal(t, int64(2), vip.PolicyVersion)
	assert.Equal(t, w.orderID.String(), vip.CorrelationID)
}

func TestIngest_UnsupportedSchemaIsRecordedAsRejected(t *testing.T) {
	w := newWorkflow(t, 1)
	payload := bytes.Replace(w.payloads()[0], []byte(`"schemaV":1`), []byte(`"schemaV":2`), 1)
	bonusStore := newMemStore()

	err := ingest(t, bonusStore, payload)

	require.ErrorIs(t, err, event.ErrUnsupportedSchemaVersion)
	state := bonusStore.snapshot()
	require.Len(t, state.inbox, 1)
	for _, entry := range state.inbox {
		assert.Equal(t, inbox.Rejected, entry.Status)
	}
	assert.Empty(t, state.rows)
}

func TestIngest_UnknownAndMalformedEvents(t *testing.T) {
	bonusStore := newMemStore()

	err := ingest(t, bonusStore, []byte(`{"eventId":"4b1c7c62-0d3c-4b53-9f51-3f4f2f3c1a10","eventName":"Teleported","schemaV":1}`))
	require.ErrorIs(t, err, event.ErrUnknownEventName)

	err = ingest(t, bonusStore, []byte(`{"eventName":"OrderCompleted","schemaV":1}`))
	require.ErrorIs(t, err, errs.ErrInvariantViolation)

	assert.Empty(t, bonusStore.snapshot().inbox)
}
