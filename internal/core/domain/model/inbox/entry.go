// Package inbox records which events a consumer has already seen, so
// redelivery has no second effect.
package inbox

import (
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// Status records what the consumer did with an event.
type Status string

const (
	// Processed events had their effects applied.
	Processed Status = "processed"
	// Rejected events carried a schemaV the consumer does not understand.
	Rejected Status = "rejected"
)

// Entry identifies one event as seen by one consumer.
type Entry struct {
	Consumer    string
	EventID     kernel.UUID
	EventName   event.Name
	AggregateID kernel.UUID
	Status      Status
	Reason      string
	ReceivedAt  time.Time
}

// NewEntry builds the dedup record for env. The consumer name and event id
// form the key.
func NewEntry(consumer string, env event.Envelope, status Status, reason string, now time.Time) (Entry, error) {
	if consumer == "" {
		return Entry{}, errs.NewValueIsRequiredError("consumer")
	}
	if err := env.EventID.Validate(); err != nil {
		return Entry{}, errs.NewValueIsRequiredErrorWithCause("eventId", err)
	}
	return Entry{
		Consumer:    consumer,
		EventID:     env.EventID,
		EventName:   env.EventName,
		AggregateID: env.AggregateID,
		Status:      status,
		Reason:      reason,
		ReceivedAt:  now.UTC(),
	}, nil
}
