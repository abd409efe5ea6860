package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetCommissionerOrdersQueryHandler reads the bonus service projection.
type GetCommissionerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetCommissionerOrdersQueryHandler creates a GetCommissionerOrdersQueryHandler.
func NewGetCommissionerOrdersQueryHandler(db *gorm.DB) GetCommissionerOrdersQueryHandler {
	return GetCommissionerOrdersQueryHandler{db: db}
}

// Handle returns the commissioner's orders, latest deadline first.
func (h GetCommissionerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCommissionerOrdersQuery,
) (GetCommissionerOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCommissionerOrdersQueryResponse{}, err
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return GetCommissionerOrdersQueryResponse{}, err
	}

	filter := sq.Eq{"commissioner_id": query.CommissionerID().Google()}
	if query.State() != "" {
		filter["state"] = query.State()
	}

	rows, err := sq.StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("order_id", "state", "title", "budget", "deadline", "workshops", "aggregate_version", "updated_at").
		From("commissioner_orders").
		Where(filter).
		OrderBy("deadline DESC", "order_id").
		Limit(uint64(query.Limit())).
		RunWith(sqlDB).
		QueryContext(ctx)
	if err != nil {
		return GetCommissionerOrdersQueryResponse{}, err
	}
	defer rows.Close()

	resp := GetCommissionerOrdersQueryResponse{Orders: make([]CommissionerOrderView, 0)}
	for rows.Next() {
		var (
			view      CommissionerOrderView
			orderID   uuid.UUID
			budget    string
			workshops pq.StringArray
		)
		if err = rows.Scan(
			&orderID,
			&view.State,
			&view.Title,
			&budget,
			&view.Deadline,
			&workshops,
			&view.AggregateVersion,
			&view.UpdatedAt,
		); err != nil {
			return GetCommissionerOrdersQueryResponse{}, err
		}
		if view.OrderID, err = kernel.UUIDFromGoogle(orderID); err != nil {
			return GetCommissionerOrdersQueryResponse{}, err
		}
		if view.Budget, err = decimal.Parse(budget); err != nil {
			return GetCommissionerOrdersQueryResponse{}, err
		}
		view.Workshops = []string(workshops)
		resp.Orders = append(resp.Orders, view)
	}
	return resp, rows.Err()
}
