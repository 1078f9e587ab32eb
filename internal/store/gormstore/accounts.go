package gormstore

import (
	"context"
	"strings"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepo struct {
	db *gorm.DB
}

func (r *accountRepo) Create(ctx context.Context, a *models.Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *accountRepo) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var a models.Account
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var a models.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *accountRepo) Update(ctx context.Context, a *models.Account) error {
	return translate(r.db.WithContext(ctx).Save(a).Error)
}

func (r *accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id))
}

func (r *accountRepo) List(ctx context.Context, f store.AccountFilter) ([]models.Account, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Account{})
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accounts []models.Account
	if err := query.Scopes(paginate(f.Limit, f.Offset)).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *accountRepo) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
