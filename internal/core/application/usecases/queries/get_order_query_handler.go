package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order with its invitations and stages.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a GetOrderQueryHandler.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for an unknown order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	var (
		resp                  GetOrderQueryResponse
		commissionerID        uuid.UUID
		state, cancelledBy    int
		budget                string
		total, responses, dec int
	)

	row := db.Raw(`
		SELECT
			commissioner_id,
			state,
			cancelled_by,
			cancel_reason,
			version,
			request_title,
			request_description,
			request_deadline,
			request_budget,
			request_version,
			invitations_total,
			invitations_responses,
			invitations_declines,
			created_at,
			last_updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Google()).Row()
	err := row.Scan(
		&commissionerID,
		&state,
		&cancelledBy,
		&resp.CancelReason,
		&resp.Version,
		&resp.Request.Title,
		&resp.Request.Description,
		&resp.Request.Deadline,
		&budget,
		&resp.Request.Version,
		&total,
		&responses,
		&dec,
		&resp.CreatedAt,
		&resp.LastUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID = query.OrderID()
	if resp.CommissionerID, err = kernel.UUIDFromGoogle(commissionerID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Request.Budget, err = decimal.Parse(budget); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.State = order.State(state).String()
	resp.CancelledBy = order.Party(cancelledBy).String()
	resp.Invitations = InvitationsView{Total: total, Responses: responses, Declines: dec}

	if resp.Invitations.Items, err = h.invitations(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Stages, err = h.stages(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	return resp, nil
}

func (h GetOrderQueryHandler) invitations(db *gorm.DB, orderID kernel.UUID) ([]InvitationView, error) {
	rows, err := db.Raw(`
		SELECT workshop_id, status, responded_at
		FROM order_invitations
		WHERE order_id = ?
		ORDER BY position
	`, orderID.Google()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]InvitationView, 0)
	for rows.Next() {
		var (
			item        InvitationView
			workshopID  uuid.UUID
			status      int
			respondedAt *time.Time
		)
		if err = rows.Scan(&workshopID, &status, &respondedAt); err != nil {
			return nil, err
		}
		if item.WorkshopID, err = kernel.UUIDFromGoogle(workshopID); err != nil {
			return nil, err
		}
		item.Status = order.InvitationStatus(status).String()
		item.RespondedAt = respondedAt
		items = append(items, item)
	}
	return items, rows.Err()
}

func (h GetOrderQueryHandler) stages(db *gorm.DB, orderID kernel.UUID) ([]StageView, error) {
	rows, err := db.Raw(`
		SELECT name, marked_by, marked_at, confirmed_at
		FROM order_stages
		WHERE order_id = ?
		ORDER BY position
	`, orderID.Google()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stages := make([]StageView, 0)
	for rows.Next() {
		var (
			stage    StageView
			markedBy uuid.NullUUID
		)
		if err = rows.Scan(&stage.Name, &markedBy, &stage.MarkedAt, &stage.ConfirmedAt); err != nil {
			return nil, err
		}
		if markedBy.Valid {
			by, idErr := kernel.UUIDFromGoogle(markedBy.UUID)
			if idErr != nil {
				return nil, idErr
			}
			stage.MarkedBy = &by
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}
