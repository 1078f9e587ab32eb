// Package gormstore implements store.Store on PostgreSQL through GORM.
package gormstore

import (
	"context"
	"errors"

	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

// New expects a *gorm.DB opened with TranslateError so duplicate keys surface
// as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Accounts() store.AccountRepository { return &accountRepo{db: s.db} }
func (s *Store) Donors() store.DonorRepository     { return &donorRepo{db: s.db} }
func (s *Store) Blocks() store.BlockRepository     { return &blockRepo{db: s.db} }
func (s *Store) UnblockRequests() store.UnblockRequestRepository {
	return &unblockRequestRepo{db: s.db}
}
func (s *Store) Notifications() store.NotificationRepository { return &notificationRepo{db: s.db} }
func (s *Store) Reports() store.ReportRepository             { return &reportRepo{db: s.db} }
func (s *Store) Votes() store.VoteRepository                 { return &voteRepo{db: s.db} }
func (s *Store) Chats() store.ChatRepository                 { return &chatRepo{db: s.db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ForUser returns a GORM scope that filters by user_id.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func paginate(limit, offset int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		if offset < 0 {
			offset = 0
		}
		return db.Limit(limit).Offset(offset)
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrConflict
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
