package postgres

import (
	"context"
	"fmt"

	"orderflow/internal/adapters/out/postgres/bonusrepo"
	"orderflow/internal/adapters/out/postgres/inboxrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/outboxrepo"
	"orderflow/internal/adapters/out/postgres/projectionrepo"

	"gorm.io/gorm"
)

// Schema selects the tables a process owns.
type Schema int

const (
	// WorkflowSchema holds orders and the workflow outbox.
	WorkflowSchema Schema = iota + 1
	// BonusSchema holds the inbox, the projection, bonus profiles, the VIP
	// policy and the bonus outbox.
	BonusSchema
)

// indexes AutoMigrate cannot express.
var workflowIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_orders_pending_deadline
		ON orders (request_deadline) WHERE state = 1`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_order_invitations_position
		ON order_invitations (order_id, position)`,
}

var outboxIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_outbox_messages_pending
		ON outbox_messages (seq) WHERE published_at IS NULL AND dead_at IS NULL`,
}

// Migrate creates or updates the tables of schema.
func Migrate(ctx context.Context, db *gorm.DB, schema Schema) error {
	var (
		models  []any
		indexes []string
	)
	switch schema {
	case WorkflowSchema:
		models = []any{&orderrepo.OrderDTO{}, &orderrepo.InvitationDTO{}, &orderrepo.StageDTO{}, &outboxrepo.MessageDTO{}}
		indexes = append(append(indexes, workflowIndexes...), outboxIndexes...)
	case BonusSchema:
		models = []any{
			&inboxrepo.EntryDTO{}, &projectionrepo.CommissionerOrderDTO{},
			&bonusrepo.ProfileDTO{}, &bonusrepo.PolicyDTO{}, &outboxrepo.MessageDTO{},
		}
		indexes = append(indexes, outboxIndexes...)
	default:
		return fmt.Errorf("unknown schema %d", schema)
	}

	db = db.WithContext(ctx)
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
