package dto

import (
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
)

// DateLayout is the wire format of every date-only field.
const DateLayout = "2006-01-02"

type DonorRegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Phone       string `json:"phone" validate:"required,min=6,max=32"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	DonorFields
}

type SignupRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Phone        string `json:"phone" validate:"required,min=6,max=32"`
	DateOfBirth  string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	SignupReason string `json:"signup_reason" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string          `json:"token"`
	User      *models.Account `json:"user"`
	Variant   string          `json:"variant"`
	ExpiresAt time.Time       `json:"expires_at"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// EligibilityErrorResponse is returned when an upgrade is refused.
type EligibilityErrorResponse struct {
	Error              bool       `json:"error"`
	Message            string     `json:"message"`
	SignupReason       string     `json:"signup_reason,omitempty"`
	ProfileUpdatableAt *time.Time `json:"profile_updatable_at,omitempty"`
}

type ValidationErrorResponse struct {
	Error   bool              `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
