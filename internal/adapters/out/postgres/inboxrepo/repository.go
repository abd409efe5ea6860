// Package inboxrepo records processed event ids per consumer. The primary key
// (consumer, event_id) is the deduplication rule.
package inboxrepo

import (
	"context"
	"time"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/core/domain/model/inbox"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntryDTO struct {
	Consumer    string    `gorm:"primaryKey;size:128"`
	EventID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventName   string    `gorm:"size:64"`
	AggregateID uuid.UUID `gorm:"type:uuid;index"`
	Status      string    `gorm:"size:16"`
	Reason      string
	ReceivedAt  time.Time
}

func (EntryDTO) TableName() string {
	return "inbox_entries"
}

type GormInboxRepository struct {
	db *gorm.DB
}

func NewGormInboxRepository(db *gorm.DB) *GormInboxRepository {
	return &GormInboxRepository{db: db}
}

// Register inserts with ON CONFLICT DO NOTHING. Zero affected rows means the
// event was seen before; concurrent duplicates block on the key until the
// first transaction ends.
func (r *GormInboxRepository) Register(ctx context.Context, e inbox.Entry) (bool, error) {
	dto := EntryDTO{
		Consumer:    e.Consumer,
		EventID:     e.EventID.Google(),
		EventName:   e.EventName.String(),
		AggregateID: e.AggregateID.Google(),
		Status:      string(e.Status),
		Reason:      e.Reason,
		ReceivedAt:  e.ReceivedAt,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
	if result.Error != nil {
		return false, pgerr.Classify("register inbox entry", "inbox entry", e.EventID.String(), result.Error)
	}
	return result.RowsAffected == 1, nil
}
