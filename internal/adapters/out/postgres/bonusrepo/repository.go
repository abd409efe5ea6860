// Package bonusrepo stores commissioner bonus profiles and the single current
// VIP policy snapshot. Both writes are compare-and-set on version.
package bonusrepo

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/adapters/out/postgres/pgerr"
	"orderflow/internal/core/domain/model/bonus"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// policyRowID keys the singleton policy row.
const policyRowID = 1

type ProfileDTO struct {
	CommissionerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Points         int64     `gorm:"check:points >= 0"`
	Grade          string    `gorm:"size:16"`
	IsVip          bool
	Version        int64
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
}

func (ProfileDTO) TableName() string {
	return "bonus_profiles"
}

type PolicyDTO struct {
	ID           int    `gorm:"primaryKey;autoIncrement:false"`
	Name         string `gorm:"size:64"`
	VipThreshold int64
	Version      int64
}

func (PolicyDTO) TableName() string {
	return "vip_policies"
}

type GormBonusProfileRepository struct {
	db *gorm.DB
}

func NewGormBonusProfileRepository(db *gorm.DB) *GormBonusProfileRepository {
	return &GormBonusProfileRepository{db: db}
}

func (r *GormBonusProfileRepository) Get(ctx context.Context, commissionerID kernel.UUID) (bonus.Profile, error) {
	var dto ProfileDTO
	err := r.db.WithContext(ctx).First(&dto, "commissioner_id = ?", commissionerID.Google()).Error
	if err != nil {
		return bonus.Profile{}, pgerr.Classify("get bonus profile", "bonus profile", commissionerID.String(), err)
	}

	grade, err := bonus.ParseGrade(dto.Grade)
	if err != nil {
		return bonus.Profile{}, err
	}
	return bonus.RestoreProfile(commissionerID, dto.Points, grade, dto.IsVip, dto.Version, dto.UpdatedAt.UTC())
}

func (r *GormBonusProfileRepository) Save(ctx context.Context, p bonus.Profile) error {
	id := p.CommissionerID().String()
	dto := ProfileDTO{
		CommissionerID: p.CommissionerID().Google(),
		Points:         p.Points(),
		Grade:          p.Grade().String(),
		IsVip:          p.IsVip(),
		Version:        p.Version(),
		UpdatedAt:      p.UpdatedAt(),
	}
	db := r.db.WithContext(ctx)

	if p.Version() == 1 {
		err := db.Create(&dto).Error
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConcurrencyConflictErrorWithCause("bonus profile", id, 0, err)
		}
		return pgerr.Classify("insert bonus profile", "bonus profile", id, err)
	}

	result := db.Model(&ProfileDTO{}).
		Where("commissioner_id = ? AND version = ?", dto.CommissionerID, p.Version()-1).
		Updates(map[string]any{
			"points":     dto.Points,
			"grade":      dto.Grade,
			"is_vip":     dto.IsVip,
			"version":    dto.Version,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return pgerr.Classify("update bonus profile", "bonus profile", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("bonus profile", id, p.Version()-1)
	}
	return nil
}

type GormVipPolicyRepository struct {
	db *gorm.DB
}

func NewGormVipPolicyRepository(db *gorm.DB) *GormVipPolicyRepository {
	return &GormVipPolicyRepository{db: db}
}

func (r *GormVipPolicyRepository) Current(ctx context.Context) (bonus.VipProfilePolicy, error) {
	var dto PolicyDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", policyRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return bonus.DefaultVipProfilePolicy(), nil
	}
	if err != nil {
		return bonus.VipProfilePolicy{}, pgerr.Classify("get vip policy", "vip policy", policyRowID, err)
	}
	return bonus.NewVipProfilePolicy(dto.Name, dto.VipThreshold, dto.Version)
}

// Replace inserts the row on the first replacement of the default policy.
func (r *GormVipPolicyRepository) Replace(ctx context.Context, p bonus.VipProfilePolicy) error {
	dto := PolicyDTO{ID: policyRowID, Name: p.Name(), VipThreshold: p.VipThreshold(), Version: p.Version()}
	db := r.db.WithContext(ctx)

	result := db.Model(&PolicyDTO{}).
		Where("id = ? AND version = ?", policyRowID, p.Version()-1).
		Updates(map[string]any{"name": dto.Name, "vip_threshold": dto.VipThreshold, "version": dto.Version})
	if result.Error != nil {
		return pgerr.Classify("replace vip policy", "vip policy", policyRowID, result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	if p.Version()-1 == bonus.DefaultVipProfilePolicy().Version() {
		err := db.Create(&dto).Error
		if err == nil {
			return nil
		}
		if !pgerr.IsUniqueViolation(err) {
			return pgerr.Classify("insert vip policy", "vip policy", policyRowID, err)
		}
	}
	return errs.NewConcurrencyConflictError("vip policy", p.Name(), p.Version()-1)
}
