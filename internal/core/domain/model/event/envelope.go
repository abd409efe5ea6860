package event

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// SchemaV is the envelope version produced by this build.
const SchemaV = 1

// Envelope carries the fields common to every event.
type Envelope struct {
	EventID          kernel.UUID `json:"eventId"`
	EventName        Name        `json:"eventName"`
	SchemaV          int         `json:"schemaV"`
	CorrelationID    string      `json:"correlationId"`
	AggregateID      kernel.UUID `json:"aggregateId"`
	AggregateVersion int64       `json:"aggregateVersion"`
	Timestamp        time.Time   `json:"timestamp"`
}

// NewEnvelope stamps a fresh event identity. at is normalized to UTC.
func NewEnvelope(name Name, aggregateID kernel.UUID, aggregateVersion int64, correlationID string, at time.Time) Envelope {
	return Envelope{
		EventID:          kernel.NewUUID(),
		EventName:        name,
		SchemaV:          SchemaV,
		CorrelationID:    correlationID,
		AggregateID:      aggregateID,
		AggregateVersion: aggregateVersion,
		Timestamp:        at.UTC(),
	}
}

// Meta returns the envelope itself. Embedding Envelope gives every event the
// method required by the Event interface.
func (e Envelope) Meta() Envelope {
	return e
}

// Validate checks the identity and ordering fields. A zero SchemaV is
// accepted here and rejected by Decode.
func (e Envelope) Validate() error {
	var errList []error
	if err := e.EventID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("eventId", err))
	}
	if e.EventName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("eventName"))
	}
	if e.CorrelationID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("correlationId"))
	}
	if err := e.AggregateID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("aggregateId", err))
	}
	if e.AggregateVersion < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("aggregateVersion", e.AggregateVersion, 1, "unbounded"))
	}
	if e.Timestamp.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("timestamp"))
	}
	return errors.Join(errList...)
}

// Event is implemented by every concrete event type in this package.
type Event interface {
	Meta() Envelope
	Validate() error
}

func requireID(field string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(field, err)
	}
	return nil
}

func requireString(field, v string) error {
	if v == "" {
		return errs.NewValueIsRequiredError(field)
	}
	return nil
}
