// Package eligibility decides which profile variant an account belongs to and
// whether it may become a donor. Everything here is pure: callers pass "now".
package eligibility

import (
	"errors"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
)

const (
	MinDonorAge = 18
	MaxDonorAge = 65
)

var ErrUnknownReason = errors.New("invalid signup_reason: must be donateLater, healthIssue, underAge, aboveAge or ageRestriction")

type Variant string

const (
	VariantDefault     Variant = "user"
	VariantDonor       Variant = "donor"
	VariantDonateLater Variant = "donateLater"
	VariantHealthIssue Variant = "healthIssue"
	VariantUnderAge    Variant = "underAge"
	VariantAboveAge    Variant = "aboveAge"
)

// ParseVariant maps the kebab-case route suffixes (edit-donate-later, ...) to a variant.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "donor":
		return VariantDonor, true
	case "donate-later", string(VariantDonateLater):
		return VariantDonateLater, true
	case "health-issue", string(VariantHealthIssue):
		return VariantHealthIssue, true
	case "under-age", string(VariantUnderAge):
		return VariantUnderAge, true
	case "above-age", string(VariantAboveAge):
		return VariantAboveAge, true
	}
	return "", false
}

// Snapshot is the slice of an account the resolver looks at.
type Snapshot struct {
	Role         models.Role
	SignupReason models.SignupReason
	CurrentAge   int
}

func SnapshotOf(a *models.Account) Snapshot {
	return Snapshot{Role: a.Role, SignupReason: a.SignupReason, CurrentAge: a.CurrentAge}
}

// Resolve maps an account snapshot to its profile variant. Missing data maps
// to VariantDefault.
func Resolve(s Snapshot) Variant {
	if s.Role == models.RoleDonor {
		return VariantDonor
	}
	switch s.SignupReason {
	case models.ReasonDonateLater:
		return VariantDonateLater
	case models.ReasonHealthIssue:
		return VariantHealthIssue
	case models.ReasonUnderAge:
		return VariantUnderAge
	case models.ReasonAboveAge:
		return VariantAboveAge
	case models.ReasonAgeRestriction:
		if s.CurrentAge < MinDonorAge {
			return VariantUnderAge
		}
		return VariantAboveAge
	}
	return VariantDefault
}

// AgeAt returns the age in whole calendar years on the date of now.
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// Assessment is the eligibility state derived from a date of birth.
type Assessment struct {
	Reason             models.SignupReason
	Age                int
	CanUpdateToDonor   bool
	ProfileUpdatableAt *time.Time
}

func Assess(dob, now time.Time) Assessment {
	age := AgeAt(dob, now)
	switch {
	case age < MinDonorAge:
		at := dob.AddDate(MinDonorAge, 0, 0)
		return Assessment{Reason: models.ReasonUnderAge, Age: age, ProfileUpdatableAt: &at}
	case age > MaxDonorAge:
		return Assessment{Reason: models.ReasonAboveAge, Age: age}
	default:
		return Assessment{Reason: models.ReasonDonateLater, Age: age, CanUpdateToDonor: true}
	}
}

// CanDonate reports whether the age on now is inside the donor window.
func CanDonate(dob, now time.Time) bool {
	age := AgeAt(dob, now)
	return age >= MinDonorAge && age <= MaxDonorAge
}

// Normalize is the write-time signup reason policy. Age-based ineligibility
// overrides the declared reason, the legacy ageRestriction value is migrated
// here and never stored, and healthIssue stays gated until it is changed.
func Normalize(declared models.SignupReason, dob, now time.Time) (Assessment, error) {
	assessed := Assess(dob, now)
	switch declared {
	case models.ReasonDonateLater, models.ReasonAgeRestriction, models.ReasonUnderAge, models.ReasonAboveAge:
		return assessed, nil
	case models.ReasonHealthIssue:
		if assessed.Reason != models.ReasonDonateLater {
			return assessed, nil
		}
		return Assessment{Reason: models.ReasonHealthIssue, Age: assessed.Age}, nil
	}
	return Assessment{}, ErrUnknownReason
}

// Apply copies an assessment onto an account.
func (a Assessment) Apply(acc *models.Account) {
	acc.SignupReason = a.Reason
	acc.CurrentAge = a.Age
	acc.CanUpdateToDonor = a.CanUpdateToDonor
	acc.ProfileUpdatableAt = a.ProfileUpdatableAt
}
