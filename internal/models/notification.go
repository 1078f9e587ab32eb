package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationThanks  = "thanks"
	NotificationWarning = "warning"
	NotificationBlock   = "block"
	NotificationUnblock = "unblock"
	NotificationSystem  = "system"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind      string     `gorm:"size:20;not null" json:"kind"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	SenderID  *uuid.UUID `gorm:"type:uuid" json:"sender_id,omitempty"`
	Read      bool       `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}
