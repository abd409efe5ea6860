// Package commands contains the operations that change state. Every command
// is built by its constructor, validated again by its handler, and handled
// inside one unit of work that also records the resulting events in the
// outbox.
package commands

import (
	"context"

	"orderflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it touches.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	InboxRepoFactory interface {
		InboxRepository() ports.InboxRepository
	}

	BonusRepoFactory interface {
		BonusProfileRepository() ports.BonusProfileRepository
		VipPolicyRepository() ports.VipPolicyRepository
	}

	ProjectionRepoFactory interface {
		CommissionerOrderRepository() ports.CommissionerOrderRepository
	}

	// OrderUoW is used by workflow commands: the order and its outbox rows
	// change in the same transaction.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		OutboxRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW is used by the publisher.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// IngestUoW is used by event ingestion: inbox, projection, bonus profile
	// and derived outbox rows change together.
	IngestUoW interface {
		TxManager
		InboxRepoFactory
		ProjectionRepoFactory
		BonusRepoFactory
		OutboxRepoFactory
	}

	IngestUoWFactory interface {
		Create() IngestUoW
	}

	PolicyUoW interface {
		TxManager
		BonusRepoFactory
	}

	PolicyUoWFactory interface {
		Create() PolicyUoW
	}
)
