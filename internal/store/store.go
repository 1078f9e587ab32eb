// Package store defines the persistence ports used by the services. The
// gormstore package implements them on PostgreSQL, the memory package in
// process.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Store is the set of repositories plus a transactional boundary. Inside
// WithTx every repository call joins the same transaction; returning an error
// from fn rolls all of it back.
type Store interface {
	Accounts() AccountRepository
	Donors() DonorRepository
	Blocks() BlockRepository
	UnblockRequests() UnblockRequestRepository
	Notifications() NotificationRepository
	Reports() ReportRepository
	Votes() VoteRepository
	Chats() ChatRepository

	WithTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type AccountFilter struct {
	Role   models.Role
	Limit  int
	Offset int
}

type AccountRepository interface {
	Create(ctx context.Context, a *models.Account) error
	Get(ctx context.Context, id uuid.UUID) (*models.Account, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f AccountFilter) ([]models.Account, int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

type DonorFilter struct {
	BloodType     string
	Country       string
	State         string
	City          string
	AvailableOnly bool
	Limit         int
	Offset        int
}

type DonorRepository interface {
	Create(ctx context.Context, d *models.Donor) error
	// GetByUser returns the donor with its Account populated.
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Donor, error)
	Update(ctx context.Context, d *models.Donor) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	// Search only returns donors whose account role is donor.
	Search(ctx context.Context, f DonorFilter) ([]models.Donor, int64, error)
	// ReleaseDue makes every donor whose available_from is not after now
	// available again and returns how many were changed.
	ReleaseDue(ctx context.Context, now time.Time) (int64, error)
}

type BlockRepository interface {
	Create(ctx context.Context, b *models.BlockRecord) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.BlockRecord, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context) ([]models.BlockRecord, error)
	Count(ctx context.Context) (int64, error)
}

type UnblockRequestRepository interface {
	Create(ctx context.Context, r *models.UnblockRequest) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UnblockRequest, error)
	// List filters by status when it is not empty.
	List(ctx context.Context, status models.UnblockStatus) ([]models.UnblockRequest, error)
	SetStatusByUser(ctx context.Context, userID uuid.UUID, status models.UnblockStatus) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type ReportRepository interface {
	Create(ctx context.Context, r *models.Report) error
	List(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, note string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
	// DeleteByUser removes reports filed by or against the user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type VoteTally struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

type VoteRepository interface {
	Create(ctx context.Context, v *models.DonorVote) error
	Get(ctx context.Context, voterID, donorID uuid.UUID) (*models.DonorVote, error)
	Update(ctx context.Context, v *models.DonorVote) error
	Delete(ctx context.Context, voterID, donorID uuid.UUID) error
	Tally(ctx context.Context, donorID uuid.UUID) (VoteTally, error)
	// DeleteByUser removes votes cast by or about the user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type ChatRepository interface {
	Create(ctx context.Context, m *models.ChatMessage) error
	// ListByUser returns the latest limit messages, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error)
	CountUserMessagesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
