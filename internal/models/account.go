package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleDonor   Role = "donor"
	RoleAdmin   Role = "admin"
	RoleBlocked Role = "blocked"
)

// SignupReason is why a non-donor account signed up. Empty for accounts that
// registered directly as donors or have since upgraded.
type SignupReason string

const (
	ReasonNone        SignupReason = ""
	ReasonDonateLater SignupReason = "donateLater"
	ReasonHealthIssue SignupReason = "healthIssue"
	ReasonUnderAge    SignupReason = "underAge"
	ReasonAboveAge    SignupReason = "aboveAge"

	// ReasonAgeRestriction is only accepted on input and never stored.
	ReasonAgeRestriction SignupReason = "ageRestriction"
)

// Account is the identity record for every platform user.
type Account struct {
	ID                 uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email              string       `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password           string       `gorm:"not null" json:"-"`
	Name               string       `gorm:"not null;size:120" json:"name"`
	Phone              string       `gorm:"size:32" json:"phone"`
	Role               Role         `gorm:"size:20;not null;default:'user';index" json:"role"`
	SignupReason       SignupReason `gorm:"size:20" json:"signup_reason,omitempty"`
	DateOfBirth        time.Time    `gorm:"type:date;not null" json:"date_of_birth"`
	CurrentAge         int          `gorm:"not null;default:0" json:"current_age"`
	CanUpdateToDonor   bool         `gorm:"not null;default:false" json:"can_update_to_donor"`
	ProfileUpdatableAt *time.Time   `json:"profile_updatable_at"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
