package models

import (
	"time"

	"github.com/google/uuid"
)

var BloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// Donor holds donor-specific attributes, owned 1:1 by an Account. It has no
// role of its own: blocked donors are found through Account.Role.
type Donor struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	BloodType     string     `gorm:"size:3;not null;index" json:"blood_type"`
	DateOfBirth   time.Time  `gorm:"type:date;not null" json:"date_of_birth"`
	Gender        string     `gorm:"size:10;not null" json:"gender"`
	WeightKg      float64    `gorm:"not null" json:"weight_kg"`
	HeightCm      float64    `gorm:"not null" json:"height_cm"`
	Country       string     `gorm:"size:80;not null;index:idx_donors_location,priority:1" json:"country"`
	State         string     `gorm:"size:80;index:idx_donors_location,priority:2" json:"state"`
	City          string     `gorm:"size:80;index:idx_donors_location,priority:3" json:"city"`
	IsAvailable   *bool      `json:"is_available"`
	AvailableFrom *time.Time `gorm:"index" json:"available_from"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Account       Account    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Donor) TableName() string {
	return "donors"
}
