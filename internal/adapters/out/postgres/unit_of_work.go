// Package postgres provides the GORM implementation of the Unit of Work.
//
// One unit of work is one database transaction. Repositories obtained after
// Begin share it, so an aggregate update and its outbox rows commit or roll
// back together:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, next, current.Version()); err != nil {
//	    return err
//	}
//	if err := uow.OutboxRepository().Append(ctx, messages...); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction and is
// safe to ignore, which is what the deferred call relies on.
package postgres

import (
	"context"
	"time"

	"orderflow/internal/adapters/out/postgres/bonusrepo"
	"orderflow/internal/adapters/out/postgres/inboxrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/outboxrepo"
	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/adapters/out/postgres/projectionrepo"
	"orderflow/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates a fresh UnitOfWork per operation. txTimeout
// bounds every transaction; zero disables the bound.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	txTimeout time.Duration
}

func NewGormUnitOfWorkFactory(db *gorm.DB, txTimeout time.Duration) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, txTimeout: txTimeout}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db, txTimeout: f.txTimeout}
}

type GormUnitOfWork struct {
	db        *gorm.DB
	tx        *gorm.DB
	txTimeout time.Duration
	cancel    context.CancelFunc
}

// Begin starts a transaction. A second Begin on an active unit of work is a
// no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	txCtx, cancel := ctx, context.CancelFunc(func() {})
	if uow.txTimeout > 0 {
		txCtx, cancel = context.WithTimeout(ctx, uow.txTimeout)
	}

	tx := uow.db.WithContext(txCtx).Begin()
	if tx.Error != nil {
		cancel()
		return pgerr.Classify("begin transaction", "transaction", "", tx.Error)
	}

	uow.tx = tx
	uow.cancel = cancel
	return nil
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.end()
	return pgerr.Classify("commit transaction", "transaction", "", err)
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.end()
	return err
}

func (uow *GormUnitOfWork) end() {
	uow.tx = nil
	if uow.cancel != nil {
		uow.cancel()
		uow.cancel = nil
	}
}

// conn returns the active transaction, or the pool outside of one.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

func (uow *GormUnitOfWork) InboxRepository() ports.InboxRepository {
	return inboxrepo.NewGormInboxRepository(uow.conn())
}

func (uow *GormUnitOfWork) BonusProfileRepository() ports.BonusProfileRepository {
	return bonusrepo.NewGormBonusProfileRepository(uow.conn())
}

func (uow *GormUnitOfWork) VipPolicyRepository() ports.VipPolicyRepository {
	return bonusrepo.NewGormVipPolicyRepository(uow.conn())
}

func (uow *GormUnitOfWork) CommissionerOrderRepository() ports.CommissionerOrderRepository {
	return projectionrepo.NewGormCommissionerOrderRepository(uow.conn())
}
