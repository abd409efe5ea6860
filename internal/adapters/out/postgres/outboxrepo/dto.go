// Package outboxrepo is the durable outbox table. Seq is assigned by the
// database on insert and defines publication order. The payload column is
// json rather than jsonb so the stored bytes are exactly the encoded event.
package outboxrepo

import (
	"time"

	"orderflow/internal/core/domain/model/event"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/outbox"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MessageDTO struct {
	Seq         int64          `gorm:"primaryKey;autoIncrement"`
	EventID     uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	EventName   string         `gorm:"size:64;index"`
	AggregateID uuid.UUID      `gorm:"type:uuid;index"`
	Payload     datatypes.JSON `gorm:"type:json;not null"`
	CreatedAt   time.Time
	PublishedAt *time.Time
	Attempts    int
	LastError   string `gorm:"size:1024"`
	DeadAt      *time.Time
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromDomain(m *outbox.Message) MessageDTO {
	return MessageDTO{
		Seq:         m.Seq(),
		EventID:     m.ID().Google(),
		EventName:   m.EventName().String(),
		AggregateID: m.AggregateID().Google(),
		Payload:     datatypes.JSON(m.Payload()),
		CreatedAt:   m.CreatedAt(),
		PublishedAt: m.PublishedAt(),
		Attempts:    m.Attempts(),
		LastError:   m.LastError(),
		DeadAt:      m.DeadAt(),
	}
}

func toDomain(dto MessageDTO) (*outbox.Message, error) {
	id, err := kernel.UUIDFromGoogle(dto.EventID)
	if err != nil {
		return nil, err
	}
	aggregateID, err := kernel.UUIDFromGoogle(dto.AggregateID)
	if err != nil {
		return nil, err
	}
	return outbox.RestoreMessage(outbox.RestoreParams{
		ID:          id,
		Seq:         dto.Seq,
		EventName:   event.Name(dto.EventName),
		AggregateID: aggregateID,
		Payload:     []byte(dto.Payload),
		CreatedAt:   dto.CreatedAt.UTC(),
		PublishedAt: dto.PublishedAt,
		Attempts:    dto.Attempts,
		LastError:   dto.LastError,
		DeadAt:      dto.DeadAt,
	})
}
