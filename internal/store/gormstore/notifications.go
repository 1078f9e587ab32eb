package gormstore

import (
	"context"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepo struct {
	db *gorm.DB
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(n).Error)
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Scopes(ForUser(userID))
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	var list []models.Notification
	err := query.Order("created_at DESC").Limit(100).Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Model(&models.Notification{}).
		Scopes(ForUser(userID)).
		Where("id = ?", id).
		Update("read", true))
}

func (r *notificationRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Scopes(ForUser(userID)).Where("id = ?", id).Delete(&models.Notification{}))
}

func (r *notificationRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Scopes(ForUser(userID)).Delete(&models.Notification{}).Error)
}

type voteRepo struct {
	db *gorm.DB
}

func (r *voteRepo) Create(ctx context.Context, v *models.DonorVote) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *voteRepo) Get(ctx context.Context, voterID, donorID uuid.UUID) (*models.DonorVote, error) {
	var v models.DonorVote
	if err := r.db.WithContext(ctx).Where("voter_id = ? AND donor_id = ?", voterID, donorID).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *voteRepo) Update(ctx context.Context, v *models.DonorVote) error {
	return translate(r.db.WithContext(ctx).Save(v).Error)
}

func (r *voteRepo) Delete(ctx context.Context, voterID, donorID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).
		Where("voter_id = ? AND donor_id = ?", voterID, donorID).
		Delete(&models.DonorVote{}))
}

func (r *voteRepo) Tally(ctx context.Context, donorID uuid.UUID) (store.VoteTally, error) {
	var rows []struct {
		Vote string
		N    int64
	}
	err := r.db.WithContext(ctx).Model(&models.DonorVote{}).
		Select("vote, COUNT(*) AS n").
		Where("donor_id = ?", donorID).
		Group("vote").
		Scan(&rows).Error
	if err != nil {
		return store.VoteTally{}, err
	}

	var tally store.VoteTally
	for _, row := range rows {
		switch row.Vote {
		case models.VoteUp:
			tally.Up = row.N
		case models.VoteDown:
			tally.Down = row.N
		}
	}
	return tally, nil
}

func (r *voteRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).
		Where("voter_id = ? OR donor_id = ?", userID, userID).
		Delete(&models.DonorVote{}).Error)
}

type chatRepo struct {
	db *gorm.DB
}

func (r *chatRepo) Create(ctx context.Context, m *models.ChatMessage) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *chatRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := r.db.WithContext(ctx).Scopes(ForUser(userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *chatRepo) CountUserMessagesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Scopes(ForUser(userID)).
		Where("sender = ? AND created_at >= ?", models.ChatSenderUser, since).
		Count(&n).Error
	return n, err
}

func (r *chatRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Scopes(ForUser(userID)).Delete(&models.ChatMessage{}).Error)
}
