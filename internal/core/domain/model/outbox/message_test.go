package outbox_test

import (
	"errors"
	"testing"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newDeclined() event.Event {
	orderID := kernel.NewUUID()
	return event.AllInvitationsDeclined{
		Envelope:       event.NewEnvelope(event.AllInvitationsDeclinedName, orderID, 3, orderID.String(), now),
		CommissionerID: kernel.NewUUID(),
	}
}

func TestNewMessage(t *testing.T) {
	e := newDeclined()

	m, err := outbox.NewMessage(e, now)

	require.NoError(t, err)
	assert.Equal(t, e.Meta().EventID, m.ID())
	assert.Equal(t, event.AllInvitationsDeclinedName, m.EventName())
	assert.False(t, m.IsPublished())

	decoded, err := event.Decode(m.Payload())
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestNewMessageRejectsMalformedEvent(t *testing.T) {
	_, err := outbox.NewMessage(event.StageConfirmed{}, now)

	require.ErrorIs(t, err, errs.ErrInvariantViolation)
}

func TestMarkPublishedOnce(t *testing.T) {
	m, err := outbox.NewMessage(newDeclined(), now)
	require.NoError(t, err)

	m.RecordFailure(errors.New("broker unavailable"))
	assert.Equal(t, 1, m.Attempts())
	assert.Equal(t, "broker unavailable", m.LastError())

	require.NoError(t, m.MarkPublished(now.Add(time.Second)))
	assert.True(t, m.IsPublished())
	assert.Empty(t, m.LastError())

	require.ErrorIs(t, m.MarkPublished(now.Add(2*time.Second)), errs.ErrPreconditionFailed)
	assert.Equal(t, now.Add(time.Second), *m.PublishedAt())
	require.ErrorIs(t, m.MarkDead(nil, now), errs.ErrPreconditionFailed)
}

func TestDeadMessageCannotBePublished(t *testing.T) {
	m, err := outbox.NewMessage(newDeclined(), now)
	require.NoError(t, err)

	require.NoError(t, m.MarkDead(errors.New("schema violation"), now))

	assert.True(t, m.IsDead())
	require.ErrorIs(t, m.MarkPublished(now), errs.ErrPreconditionFailed)
}

func TestPayloadIsCopied(t *testing.T) {
	m, err := outbox.NewMessage(newDeclined(), now)
	require.NoError(t, err)

	p := m.Payload()
	p[0] = 'X'

	assert.NotEqual(t, p[0], m.Payload()[0])
}
