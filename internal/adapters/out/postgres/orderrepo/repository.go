package orderrepo

import (
	"context"
	"time"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM. Updates are
// guarded by the stored version, so two writers starting from the same version
// cannot both succeed.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Classify("add order", "order", aggregate.ID().String(), err)
	}
	return nil
}

func (r *GormOrderRepository) Update(ctx context.Context, aggregate order.Order, expectedVersion int64) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	id := aggregate.ID().String()
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Classify("update order", "order", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("order", id, expectedVersion)
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "workshop_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "responded_at"}),
	}).Create(&dto.Invitations).Error; err != nil {
		return pgerr.Classify("update order invitations", "order", id, err)
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"marked_by", "marked_at", "confirmed_at"}),
	}).Create(&dto.Stages).Error; err != nil {
		return pgerr.Classify("update order stages", "order", id, err)
	}

	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (order.Order, error) {
	if err := id.Validate(); err != nil {
		return order.Order{}, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Invitations", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Stages", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Google()).Error
	if err != nil {
		return order.Order{}, pgerr.Classify("get order", "order", id.String(), err)
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetExpiredPending(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("state = ? AND request_deadline <= ?", int(order.PendingWorkshopInvitations), now).
		Order("request_deadline").
		Limit(limit).
		Pluck("id", &raw).Error
	if err != nil {
		return nil, pgerr.Classify("list expired orders", "order", "pending", err)
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, u := range raw {
		id, idErr := kernel.UUIDFromGoogle(u)
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}
	return ids, nil
}
