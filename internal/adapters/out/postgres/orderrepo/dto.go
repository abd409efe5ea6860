// Package orderrepo persists order aggregates across three tables: orders,
// order_invitations and order_stages.
package orderrepo

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type OrderDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CommissionerID uuid.UUID `gorm:"type:uuid;index"`
	State          int       `gorm:"type:smallint"`
	IsTerminated   bool
	CancelledBy    int        `gorm:"type:smallint"`
	CancelReason   string     `gorm:"size:512"`
	Request        RequestDTO `gorm:"embedded;embeddedPrefix:request_"`
	Tracker        TrackerDTO `gorm:"embedded;embeddedPrefix:invitations_"`
	Version        int64
	CreatedAt      time.Time
	LastUpdatedAt  time.Time

	Invitations []InvitationDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Stages      []StageDTO      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type RequestDTO struct {
	Title       string `gorm:"size:255"`
	Description string
	Deadline    time.Time
	Budget      string `gorm:"type:numeric"`
	Version     int64
}

type TrackerDTO struct {
	Total     int
	Responses int
	Declines  int
}

type InvitationDTO struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkshopID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position    int
	Status      int `gorm:"type:smallint"`
	RespondedAt *time.Time
}

func (InvitationDTO) TableName() string {
	return "order_invitations"
}

type StageDTO struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"primaryKey;size:64"`
	Position    int
	MarkedBy    *uuid.UUID `gorm:"type:uuid"`
	MarkedAt    *time.Time
	ConfirmedAt *time.Time
}

func (StageDTO) TableName() string {
	return "order_stages"
}

func fromDomain(o order.Order) OrderDTO {
	request := o.Request()
	tracker := o.Tracker()
	id := o.ID().Google()

	dto := OrderDTO{
		ID:             id,
		CommissionerID: o.CommissionerID().Google(),
		State:          int(o.State()),
		IsTerminated:   o.IsTerminated(),
		CancelledBy:    int(o.CancelledBy()),
		CancelReason:   o.CancelReason(),
		Request: RequestDTO{
			Title:       request.Title(),
			Description: request.Description(),
			Deadline:    request.Deadline(),
			Budget:      request.Budget().String(),
			Version:     request.Version(),
		},
		Tracker: TrackerDTO{
			Total:     tracker.Total(),
			Responses: tracker.Responses(),
			Declines:  tracker.Declines(),
		},
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		LastUpdatedAt: o.LastUpdatedAt(),
	}

	for i, inv := range o.Invitations() {
		dto.Invitations = append(dto.Invitations, InvitationDTO{
			OrderID:     id,
			WorkshopID:  inv.WorkshopID().Google(),
			Position:    i,
			Status:      int(inv.Status()),
			RespondedAt: inv.RespondedAt(),
		})
	}

	for i, s := range o.Stages().Stages() {
		var markedBy *uuid.UUID
		if by := s.MarkedBy(); by != nil {
			raw := by.Google()
			markedBy = &raw
		}
		dto.Stages = append(dto.Stages, StageDTO{
			OrderID:     id,
			Name:        s.Name(),
			Position:    i,
			MarkedBy:    markedBy,
			MarkedAt:    s.MarkedAt(),
			ConfirmedAt: s.ConfirmedAt(),
		})
	}

	return dto
}

// toDomain expects Invitations and Stages sorted by Position.
func toDomain(dto OrderDTO) (order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return order.Order{}, err
	}
	commissionerID, err := kernel.UUIDFromGoogle(dto.CommissionerID)
	if err != nil {
		return order.Order{}, err
	}

	budget, err := decimal.Parse(dto.Request.Budget)
	if err != nil {
		return order.Order{}, err
	}
	request, err := order.RestoreRequest(
		dto.Request.Title, dto.Request.Description, dto.Request.Deadline.UTC(), budget, dto.Request.Version,
	)
	if err != nil {
		return order.Order{}, err
	}

	tracker, err := order.RestoreInvitationTracker(dto.Tracker.Total, dto.Tracker.Responses, dto.Tracker.Declines)
	if err != nil {
		return order.Order{}, err
	}

	invitations := make([]order.Invitation, 0, len(dto.Invitations))
	for _, inv := range dto.Invitations {
		workshopID, idErr := kernel.UUIDFromGoogle(inv.WorkshopID)
		if idErr != nil {
			return order.Order{}, idErr
		}
		restored, invErr := order.RestoreInvitation(workshopID, order.InvitationStatus(inv.Status), utcPtr(inv.RespondedAt))
		if invErr != nil {
			return order.Order{}, invErr
		}
		invitations = append(invitations, restored)
	}

	stages := make([]order.Stage, 0, len(dto.Stages))
	for _, s := range dto.Stages {
		var markedBy *kernel.UUID
		if s.MarkedBy != nil {
			by, idErr := kernel.UUIDFromGoogle(*s.MarkedBy)
			if idErr != nil {
				return order.Order{}, idErr
			}
			markedBy = &by
		}
		restored, stageErr := order.RestoreStage(s.Name, markedBy, utcPtr(s.MarkedAt), utcPtr(s.ConfirmedAt))
		if stageErr != nil {
			return order.Order{}, stageErr
		}
		stages = append(stages, restored)
	}
	stageTracker, err := order.RestoreStageTracker(stages)
	if err != nil {
		return order.Order{}, err
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:             id,
		CommissionerID: commissionerID,
		State:          order.State(dto.State),
		IsTerminated:   dto.IsTerminated,
		CancelledBy:    order.Party(dto.CancelledBy),
		CancelReason:   dto.CancelReason,
		Request:        request,
		Invitations:    invitations,
		Tracker:        tracker,
		Stages:         stageTracker,
		Version:        dto.Version,
		CreatedAt:      dto.CreatedAt.UTC(),
		LastUpdatedAt:  dto.LastUpdatedAt.UTC(),
	})
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
