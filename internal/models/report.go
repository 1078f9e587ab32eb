package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusReviewed  = "reviewed"
	ReportStatusActioned  = "actioned"
	ReportStatusDismissed = "dismissed"
)

// Report is a user's complaint about another account, reviewed by admins.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReportedID uuid.UUID `gorm:"type:uuid;not null;index" json:"reported_id"`
	Reason     string    `gorm:"not null;size:500" json:"reason"`
	Status     string    `gorm:"not null;default:'pending';size:50;index" json:"status"`
	AdminNote  string    `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	VoteUp   = "up"
	VoteDown = "down"
)

// DonorVote is one account's rating of a donor they were in contact with.
type DonorVote struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	VoterID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_donor_votes_voter_donor,priority:1" json:"voter_id"`
	DonorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_donor_votes_voter_donor,priority:2;index" json:"donor_id"`
	Vote      string    `gorm:"size:4;not null" json:"vote"`
	Comment   string    `gorm:"size:500" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DonorVote) TableName() string {
	return "donor_votes"
}
