package gormstore

import (
	"context"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type donorRepo struct {
	db *gorm.DB
}

func (r *donorRepo) Create(ctx context.Context, d *models.Donor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error)
}

func (r *donorRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Donor, error) {
	var d models.Donor
	if err := r.db.WithContext(ctx).Preload("Account").Scopes(ForUser(userID)).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *donorRepo) Update(ctx context.Context, d *models.Donor) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error)
}

func (r *donorRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Scopes(ForUser(userID)).Delete(&models.Donor{}).Error)
}

func (r *donorRepo) Search(ctx context.Context, f store.DonorFilter) ([]models.Donor, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Donor{}).
		Joins("JOIN accounts ON accounts.id = donors.user_id").
		Where("accounts.role = ?", models.RoleDonor)

	if f.BloodType != "" {
		query = query.Where("donors.blood_type = ?", f.BloodType)
	}
	if f.Country != "" {
		query = query.Where("LOWER(donors.country) = LOWER(?)", f.Country)
	}
	if f.State != "" {
		query = query.Where("LOWER(donors.state) = LOWER(?)", f.State)
	}
	if f.City != "" {
		query = query.Where("LOWER(donors.city) = LOWER(?)", f.City)
	}
	if f.AvailableOnly {
		query = query.Where("donors.is_available = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donors []models.Donor
	err := query.Preload("Account").
		Scopes(paginate(f.Limit, f.Offset)).
		Order("donors.created_at DESC").
		Find(&donors).Error
	if err != nil {
		return nil, 0, err
	}
	return donors, total, nil
}

func (r *donorRepo) ReleaseDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Donor{}).
		Where("is_available = ? AND available_from IS NOT NULL AND available_from <= ?", false, now).
		Updates(map[string]interface{}{
			"is_available":   true,
			"available_from": nil,
		})
	return res.RowsAffected, res.Error
}
