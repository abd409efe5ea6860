// Package projectionrepo stores the commissioner_orders read model of the
// bonus service.
package projectionrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/projection"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommissionerOrderDTO struct {
	OrderID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CommissionerID   uuid.UUID `gorm:"type:uuid;index"`
	State            string    `gorm:"size:32;index"`
	StateVersion     int64
	Title            string `gorm:"size:255"`
	Budget           string `gorm:"type:numeric"`
	Deadline         time.Time
	RequestVersion   int64
	Workshops        pq.StringArray `gorm:"type:text[]"`
	AggregateVersion int64
	LastEventID      uuid.UUID `gorm:"type:uuid"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime:false"`
}

func (CommissionerOrderDTO) TableName() string {
	return "commissioner_orders"
}

type GormCommissionerOrderRepository struct {
	db *gorm.DB
}

func NewGormCommissionerOrderRepository(db *gorm.DB) *GormCommissionerOrderRepository {
	return &GormCommissionerOrderRepository{db: db}
}

// Get takes a row lock so concurrent deliveries for one order serialize.
func (r *GormCommissionerOrderRepository) Get(ctx context.Context, orderID kernel.UUID) (projection.CommissionerOrder, bool, error) {
	var dto CommissionerOrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&dto, "order_id = ?", orderID.Google()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return projection.CommissionerOrder{}, false, nil
	}
	if err != nil {
		return projection.CommissionerOrder{}, false, pgerr.Classify("get commissioner order", "commissioner order", orderID.String(), err)
	}

	row, err := toDomain(dto)
	if err != nil {
		return projection.CommissionerOrder{}, false, err
	}
	return row, true, nil
}

// Insert creates the first row of an order. The row lock taken by Get cannot
// cover a row that does not exist yet, so the primary key arbitrates between
// concurrent first deliveries.
func (r *GormCommissionerOrderRepository) Insert(ctx context.Context, row projection.CommissionerOrder) error {
	dto := fromDomain(row)
	err := r.db.WithContext(ctx).Create(&dto).Error
	if pgerr.IsUniqueViolation(err) {
		return errs.NewConcurrencyConflictErrorWithCause("commissioner order", row.OrderID.String(), 0, err)
	}
	return pgerr.Classify("insert commissioner order", "commissioner order", row.OrderID.String(), err)
}

// Upsert keeps the stored row when it already reflects a newer aggregate
// version.
func (r *GormCommissionerOrderRepository) Upsert(ctx context.Context, row projection.CommissionerOrder) error {
	dto := fromDomain(row)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"commissioner_id", "state", "state_version", "title", "budget", "deadline",
			"request_version", "workshops", "aggregate_version", "last_event_id", "updated_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "commissioner_orders.aggregate_version <= excluded.aggregate_version"},
		}},
	}).Create(&dto).Error
	return pgerr.Classify("upsert commissioner order", "commissioner order", row.OrderID.String(), err)
}

func fromDomain(row projection.CommissionerOrder) CommissionerOrderDTO {
	return CommissionerOrderDTO{
		OrderID:          row.OrderID.Google(),
		CommissionerID:   row.CommissionerID.Google(),
		State:            row.State,
		StateVersion:     row.StateVersion,
		Title:            row.Title,
		Budget:           row.Budget.String(),
		Deadline:         row.Deadline,
		RequestVersion:   row.RequestVersion,
		Workshops:        pq.StringArray(row.Workshops),
		AggregateVersion: row.AggregateVersion,
		LastEventID:      row.LastEventID.Google(),
		UpdatedAt:        row.UpdatedAt,
	}
}

func toDomain(dto CommissionerOrderDTO) (projection.CommissionerOrder, error) {
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return projection.CommissionerOrder{}, err
	}
	// the commissioner is unknown until the first event carrying it arrives
	commissionerID, _ := kernel.UUIDFromGoogle(dto.CommissionerID)
	lastEventID, _ := kernel.UUIDFromGoogle(dto.LastEventID)

	budget := decimal.Zero
	if dto.Budget != "" {
		if budget, err = decimal.Parse(dto.Budget); err != nil {
			return projection.CommissionerOrder{}, err
		}
	}

	return projection.CommissionerOrder{
		OrderID:          orderID,
		CommissionerID:   commissionerID,
		State:            dto.State,
		StateVersion:     dto.StateVersion,
		Title:            dto.Title,
		Budget:           budget,
		Deadline:         dto.Deadline.UTC(),
		RequestVersion:   dto.RequestVersion,
		Workshops:        []string(dto.Workshops),
		AggregateVersion: dto.AggregateVersion,
		LastEventID:      lastEventID,
		UpdatedAt:        dto.UpdatedAt.UTC(),
	}, nil
}
