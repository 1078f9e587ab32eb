package models

import (
	"time"

	"github.com/google/uuid"
)

// BlockRecord marks a suspended account. Its existence is what makes an
// account blocked; it is deleted on unblock.
type BlockRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Email           string    `gorm:"size:255;not null" json:"email"`
	Name            string    `gorm:"size:120" json:"name"`
	RoleBeforeBlock Role      `gorm:"size:20" json:"role_before_block"`
	Reason          string    `gorm:"size:1000" json:"reason"`
	BlockedBy       uuid.UUID `gorm:"type:uuid" json:"blocked_by"`
	CreatedAt       time.Time `json:"created_at"`
}

func (BlockRecord) TableName() string {
	return "block_records"
}

type UnblockStatus string

const (
	UnblockStatusBlocked   UnblockStatus = "blocked"
	UnblockStatusUnblocked UnblockStatus = "unblocked"
)

// UnblockRequest is an appeal submitted by a blocked account.
type UnblockRequest struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	BlockID   uuid.UUID     `gorm:"type:uuid;not null" json:"block_id"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    UnblockStatus `gorm:"size:20;not null;default:'blocked';index" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (UnblockRequest) TableName() string {
	return "unblock_requests"
}
