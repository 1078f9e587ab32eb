package gormstore

import (
	"context"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type blockRepo struct {
	db *gorm.DB
}

func (r *blockRepo) Create(ctx context.Context, b *models.BlockRecord) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(b).Error)
}

func (r *blockRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.BlockRecord, error) {
	var b models.BlockRecord
	if err := r.db.WithContext(ctx).Scopes(ForUser(userID)).First(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *blockRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Scopes(ForUser(userID)).Delete(&models.BlockRecord{}))
}

func (r *blockRepo) List(ctx context.Context) ([]models.BlockRecord, error) {
	var blocks []models.BlockRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&blocks).Error
	return blocks, err
}

func (r *blockRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.BlockRecord{}).Count(&n).Error
	return n, err
}

type unblockRequestRepo struct {
	db *gorm.DB
}

func (r *unblockRequestRepo) Create(ctx context.Context, req *models.UnblockRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(req).Error)
}

func (r *unblockRequestRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UnblockRequest, error) {
	var reqs []models.UnblockRequest
	err := r.db.WithContext(ctx).Scopes(ForUser(userID)).Order("created_at ASC").Find(&reqs).Error
	return reqs, err
}

func (r *unblockRequestRepo) List(ctx context.Context, status models.UnblockStatus) ([]models.UnblockRequest, error) {
	query := r.db.WithContext(ctx)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reqs []models.UnblockRequest
	err := query.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *unblockRequestRepo) SetStatusByUser(ctx context.Context, userID uuid.UUID, status models.UnblockStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.UnblockRequest{}).
		Scopes(ForUser(userID)).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *unblockRequestRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Scopes(ForUser(userID)).Delete(&models.UnblockRequest{}).Error)
}

type reportRepo struct {
	db *gorm.DB
}

func (r *reportRepo) Create(ctx context.Context, rep *models.Report) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(rep).Error)
}

func (r *reportRepo) List(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	if err := query.Scopes(paginate(limit, offset)).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status, note string) error {
	return affected(r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"admin_note": note,
		}))
}

func (r *reportRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *reportRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).
		Where("reporter_id = ? OR reported_id = ?", userID, userID).
		Delete(&models.Report{}).Error)
}

var _ store.Store = (*Store)(nil)
