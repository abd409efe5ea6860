package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/bonus"

	"gorm.io/gorm"
)

// GetBonusProfileQueryHandler reads bonus profiles straight from gorm.
type GetBonusProfileQueryHandler struct {
	db *gorm.DB
}

// NewGetBonusProfileQueryHandler creates a GetBonusProfileQueryHandler.
func NewGetBonusProfileQueryHandler(db *gorm.DB) GetBonusProfileQueryHandler {
	return GetBonusProfileQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for a commissioner without a profile.
func (h GetBonusProfileQueryHandler) Handle(
	ctx context.Context,
	query GetBonusProfileQuery,
) (GetBonusProfileQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBonusProfileQueryResponse{}, err
	}

	resp := GetBonusProfileQueryResponse{
		CommissionerID: query.CommissionerID(),
		Grade:          bonus.Newcomer.String(),
	}

	var updatedAt time.Time
	err := h.db.WithContext(ctx).Raw(`
		SELECT points, grade, is_vip, version, updated_at
		FROM bonus_profiles
		WHERE commissioner_id = ?
	`, query.CommissionerID().Google()).Row().Scan(
		&resp.Points,
		&resp.Grade,
		&resp.IsVip,
		&resp.Version,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return resp, nil
	}
	if err != nil {
		return GetBonusProfileQueryResponse{}, err
	}
	resp.UpdatedAt = &updatedAt
	return resp, nil
}
