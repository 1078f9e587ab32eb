package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatSenderUser      = "user"
	ChatSenderAssistant = "assistant"
)

// ChatMessage is one turn of a health chatbot conversation.
type ChatMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_user_created,priority:1" json:"user_id"`
	Sender      string    `gorm:"size:10;not null" json:"sender"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentHTML string    `gorm:"type:text" json:"content_html,omitempty"`
	Gated       bool      `gorm:"not null;default:false" json:"gated"`
	CreatedAt   time.Time `gorm:"index:idx_chat_user_created,priority:2" json:"created_at"`
}
