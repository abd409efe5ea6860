// Package outbox models rows of the transactional outbox.
package outbox

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const maxLastErrorLength = 1024

// ErrMessageIsNotConstructed is returned by mutators called on a nil or zero
// Message.
var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage constructor")

// Message is one encoded event waiting for, or done with, publication. The
// payload never changes after NewMessage. publishedAt goes from nil to set
// once and never back.
type Message struct {
	id            kernel.UUID
	seq           int64
	eventName     event.Name
	aggregateID   kernel.UUID
	payload       []byte
	createdAt     time.Time
	publishedAt   *time.Time
	attempts      int
	lastError     string
	deadAt        *time.Time
	isConstructed bool
}

// NewMessage encodes e. The message id is the event id, so appending the same
// event twice is detected by storage.
func NewMessage(e event.Event, now time.Time) (*Message, error) {
	payload, err := event.Encode(e)
	if err != nil {
		return nil, err
	}

	meta := e.Meta()
	return &Message{
		id:            meta.EventID,
		eventName:     meta.EventName,
		aggregateID:   meta.AggregateID,
		payload:       payload,
		createdAt:     now.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreParams is the stored form of a Message.
type RestoreParams struct {
	ID          kernel.UUID
	Seq         int64
	EventName   event.Name
	AggregateID kernel.UUID
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
	Attempts    int
	LastError   string
	DeadAt      *time.Time
}

// RestoreMessage rebuilds a stored row. The payload is copied and left
// undecoded; the publisher ships it verbatim.
func RestoreMessage(p RestoreParams) (*Message, error) {
	if err := p.ID.Validate(); err != nil {
		return nil, err
	}
	if len(p.Payload) == 0 {
		return nil, errs.NewValueIsRequiredError("payload")
	}
	return &Message{
		id:            p.ID,
		seq:           p.Seq,
		eventName:     p.EventName,
		aggregateID:   p.AggregateID,
		payload:       append([]byte(nil), p.Payload...),
		createdAt:     p.CreatedAt,
		publishedAt:   p.PublishedAt,
		attempts:      p.Attempts,
		lastError:     p.LastError,
		deadAt:        p.DeadAt,
		isConstructed: true,
	}, nil
}

// Validate reports ErrMessageIsNotConstructed for nil or zero messages.
func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// ID equals the event id of the payload.
func (m *Message) ID() kernel.UUID {
	return m.id
}

// Seq is assigned by storage and defines publish order.
func (m *Message) Seq() int64 {
	return m.seq
}

// EventName selects the destination topic.
func (m *Message) EventName() event.Name {
	return m.eventName
}

// AggregateID is the Kafka message key, which keeps one order on one partition.
func (m *Message) AggregateID() kernel.UUID {
	return m.aggregateID
}

// Payload returns a copy of the encoded event.
func (m *Message) Payload() []byte {
	return append([]byte(nil), m.payload...)
}

// CreatedAt is the UTC append time.
func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

// PublishedAt is nil until the broker acknowledged the message.
func (m *Message) PublishedAt() *time.Time {
	return m.publishedAt
}

// Attempts counts failed publish rounds.
func (m *Message) Attempts() int {
	return m.attempts
}

// LastError is the truncated error of the last failed round.
func (m *Message) LastError() string {
	return m.lastError
}

// DeadAt is set when the message exhausted its attempts.
func (m *Message) DeadAt() *time.Time {
	return m.deadAt
}

// IsPublished reports whether PublishedAt is set.
func (m *Message) IsPublished() bool {
	return m.publishedAt != nil
}

// IsDead reports whether the message was set aside.
func (m *Message) IsDead() bool {
	return m.deadAt != nil
}

// MarkPublished records the broker acknowledgement. It fails if the message
// was already published or set aside as dead.
func (m *Message) MarkPublished(now time.Time) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.IsPublished() {
		return errs.NewPreconditionFailedError("mark published", fmt.Sprintf("message %s is already published", m.id))
	}
	if m.IsDead() {
		return errs.NewPreconditionFailedError("mark published", fmt.Sprintf("message %s is dead", m.id))
	}
	at := now.UTC()
	m.publishedAt = &at
	m.attempts++
	m.lastError = ""
	return nil
}

// RecordFailure counts a delivery attempt that did not reach the broker.
func (m *Message) RecordFailure(cause error) {
	m.attempts++
	if cause != nil {
		m.lastError = truncate(cause.Error())
	}
}

// MarkDead takes a malformed message out of the publish loop for manual
// intervention.
func (m *Message) MarkDead(cause error, now time.Time) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.IsPublished() {
		return errs.NewPreconditionFailedError("mark dead", fmt.Sprintf("message %s is already published", m.id))
	}
	at := now.UTC()
	m.deadAt = &at
	if cause != nil {
		m.lastError = truncate(cause.Error())
	}
	return nil
}

func truncate(s string) string {
	if len(s) <= maxLastErrorLength {
		return s
	}
	return s[:maxLastErrorLength]
}
