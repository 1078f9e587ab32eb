package dto

import (
	"strings"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/eligibility"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
)

// DonorFields are the attributes required to create a donor record.
type DonorFields struct {
	BloodType string  `json:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Gender    string  `json:"gender" validate:"required,oneof=male female other"`
	WeightKg  float64 `json:"weight_kg" validate:"required,gt=0,lte=400"`
	HeightCm  float64 `json:"height_cm" validate:"required,gt=0,lte=300"`
	Country   string  `json:"country" validate:"required,max=80"`
	State     string  `json:"state" validate:"max=80"`
	City      string  `json:"city" validate:"required,max=80"`
}

// DonorPatch is a partial update of donor attributes.
type DonorPatch struct {
	BloodType *string  `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Gender    *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	WeightKg  *float64 `json:"weight_kg" validate:"omitempty,gt=0,lte=400"`
	HeightCm  *float64 `json:"height_cm" validate:"omitempty,gt=0,lte=300"`
	Country   *string  `json:"country" validate:"omitempty,min=1,max=80"`
	State     *string  `json:"state" validate:"omitempty,max=80"`
	City      *string  `json:"city" validate:"omitempty,min=1,max=80"`
}

type EditProfileRequest struct {
	Name         *string     `json:"name" validate:"omitempty,min=2,max=120"`
	Phone        *string     `json:"phone" validate:"omitempty,min=6,max=32"`
	DateOfBirth  *string     `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	SignupReason *string     `json:"signup_reason" validate:"omitempty,min=1"`
	Donor        *DonorPatch `json:"donor" validate:"omitempty"`
}

type UpgradeRequest struct {
	Donor *DonorPatch `json:"donor" validate:"omitempty"`
}

type DonorResponse struct {
	UserID        uuid.UUID        `json:"user_id"`
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	Role          models.Role      `json:"role"`
	BloodType     string           `json:"blood_type"`
	Gender        string           `json:"gender"`
	Age           int              `json:"age"`
	WeightKg      float64          `json:"weight_kg"`
	HeightCm      float64          `json:"height_cm"`
	Country       string           `json:"country"`
	State         string           `json:"state"`
	City          string           `json:"city"`
	IsAvailable   *bool            `json:"is_available"`
	AvailableFrom *time.Time       `json:"available_from"`
	Votes         *store.VoteTally `json:"votes,omitempty"`
}

// NewDonorResponse flattens a donor and its account. The role is always the
// account's role.
func NewDonorResponse(d *models.Donor, now time.Time) DonorResponse {
	age := d.Account.CurrentAge
	if !d.DateOfBirth.IsZero() {
		age = eligibility.AgeAt(d.DateOfBirth, now)
	}
	return DonorResponse{
		UserID:        d.UserID,
		Name:          d.Account.Name,
		Phone:         d.Account.Phone,
		Role:          d.Account.Role,
		BloodType:     d.BloodType,
		Gender:        d.Gender,
		Age:           age,
		WeightKg:      d.WeightKg,
		HeightCm:      d.HeightCm,
		Country:       d.Country,
		State:         d.State,
		City:          d.City,
		IsAvailable:   d.IsAvailable,
		AvailableFrom: d.AvailableFrom,
	}
}

type ProfileResponse struct {
	User    *models.Account      `json:"user"`
	Variant string               `json:"variant"`
	Donor   *DonorResponse       `json:"donor,omitempty"`
	Block   *BlockRecordResponse `json:"block,omitempty"`
}

type ScheduleRequest struct {
	AvailableFrom string `json:"available_from" validate:"required,datetime=2006-01-02"`
}

type ScheduleResponse struct {
	IsAvailable   bool       `json:"is_available"`
	AvailableFrom *time.Time `json:"available_from"`
}

// Complete reports whether the patch carries every attribute a new donor
// record needs and returns them.
func (p *DonorPatch) Complete() (DonorFields, bool) {
	if p.BloodType == nil || p.Gender == nil || p.WeightKg == nil || p.HeightCm == nil ||
		p.Country == nil || p.City == nil {
		return DonorFields{}, false
	}
	f := DonorFields{
		BloodType: *p.BloodType,
		Gender:    *p.Gender,
		WeightKg:  *p.WeightKg,
		HeightCm:  *p.HeightCm,
		Country:   *p.Country,
		City:      *p.City,
	}
	if p.State != nil {
		f.State = *p.State
	}
	return f, true
}

func (p *DonorPatch) ApplyTo(d *models.Donor) {
	if p.BloodType != nil {
		d.BloodType = *p.BloodType
	}
	if p.Gender != nil {
		d.Gender = *p.Gender
	}
	if p.WeightKg != nil {
		d.WeightKg = *p.WeightKg
	}
	if p.HeightCm != nil {
		d.HeightCm = *p.HeightCm
	}
	if p.Country != nil {
		d.Country = strings.TrimSpace(*p.Country)
	}
	if p.State != nil {
		d.State = strings.TrimSpace(*p.State)
	}
	if p.City != nil {
		d.City = strings.TrimSpace(*p.City)
	}
}
