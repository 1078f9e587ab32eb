package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
)

var (
	ErrEmailTaken                = errors.New("email already registered")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrAccountNotFound           = errors.New("account not found")
	ErrInvalidDate               = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNotEligible               = errors.New("not eligible to register as a donor: age must be between 18 and 65")
	ErrAdminRegistrationDisabled = errors.New("admin registration is disabled")
	ErrInvalidAdminSecret        = errors.New("invalid admin secret")

	ErrVariantMismatch       = errors.New("profile variant does not match this account")
	ErrDonorFieldsNotAllowed = errors.New("donor fields are not allowed for this profile")
	ErrReasonChangeForbidden = errors.New("donors cannot change signup reason")
	ErrIncompleteDonorData   = errors.New("blood_type, gender, weight_kg, height_cm, country and city are required")
	ErrAlreadyDonor          = errors.New("account is already a donor")

	ErrAlreadyBlocked    = errors.New("user already blocked")
	ErrCannotBlockAdmin  = errors.New("admins cannot be blocked")
	ErrNotBlocked        = errors.New("user is not blocked")
	ErrCannotDeleteAdmin = errors.New("admins cannot be deleted")

	ErrDonorNotFound        = errors.New("donor not found")
	ErrNotADonor            = errors.New("only donors can do this")
	ErrScheduleInPast       = errors.New("available_from must be in the future")
	ErrSelfAction           = errors.New("cannot target your own account")
	ErrReportNotFound       = errors.New("report not found")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyVoted         = errors.New("you already voted for this donor")
	ErrVoteNotFound         = errors.New("vote not found")

	ErrEmptyMessage      = errors.New("message is required")
	ErrMessageTooLong    = errors.New("message too long (max 1000 characters)")
	ErrChatQuotaExceeded = errors.New("daily chatbot limit reached, try again tomorrow")
)

// EligibilityError refuses an upgrade to donor. UpdatableAt is set when the
// account becomes eligible on a known date.
type EligibilityError struct {
	Reason      models.SignupReason
	UpdatableAt *time.Time
}

func (e *EligibilityError) Error() string {
	if e.UpdatableAt != nil {
		return fmt.Sprintf("not eligible to become a donor until %s", e.UpdatableAt.Format("2006-01-02"))
	}
	return "not eligible to become a donor"
}

// ContentRejectedError carries the content filter verdict.
type ContentRejectedError struct {
	Reason  string
	Message string
}

func (e *ContentRejectedError) Error() string {
	return e.Message
}
