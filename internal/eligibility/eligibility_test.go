package eligibility

import (
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func dobForAge(age int) time.Time {
	return time.Date(now.Year()-age, time.January, 10, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday already passed", time.Date(2000, time.March, 1, 0, 0, 0, 0, time.UTC), 26},
		{"birthday today", time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC), 26},
		{"birthday tomorrow", time.Date(2000, time.June, 16, 0, 0, 0, 0, time.UTC), 25},
		{"birthday later this year", time.Date(2000, time.December, 1, 0, 0, 0, 0, time.UTC), 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeAt(tt.dob, now))
		})
	}
}

func TestAssess(t *testing.T) {
	t.Run("age 17 is under age with window at 18th birthday", func(t *testing.T) {
		dob := dobForAge(17)
		a := Assess(dob, now)
		assert.Equal(t, models.ReasonUnderAge, a.Reason)
		assert.False(t, a.CanUpdateToDonor)
		require.NotNil(t, a.ProfileUpdatableAt)
		assert.Equal(t, dob.AddDate(18, 0, 0), *a.ProfileUpdatableAt)
	})

	t.Run("age 70 is above age without window", func(t *testing.T) {
		a := Assess(dobForAge(70), now)
		assert.Equal(t, models.ReasonAboveAge, a.Reason)
		assert.False(t, a.CanUpdateToDonor)
		assert.Nil(t, a.ProfileUpdatableAt)
	})

	t.Run("age 30 can donate later", func(t *testing.T) {
		a := Assess(dobForAge(30), now)
		assert.Equal(t, models.ReasonDonateLater, a.Reason)
		assert.True(t, a.CanUpdateToDonor)
		assert.Nil(t, a.ProfileUpdatableAt)
		assert.Equal(t, 30, a.Age)
	})

	t.Run("boundaries 18 and 65 are eligible", func(t *testing.T) {
		assert.True(t, Assess(dobForAge(18), now).CanUpdateToDonor)
		assert.True(t, Assess(dobForAge(65), now).CanUpdateToDonor)
		assert.False(t, Assess(dobForAge(66), now).CanUpdateToDonor)
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		declared   models.SignupReason
		age        int
		wantReason models.SignupReason
		wantCan    bool
	}{
		{"legacy age restriction, minor", models.ReasonAgeRestriction, 17, models.ReasonUnderAge, false},
		{"legacy age restriction, senior", models.ReasonAgeRestriction, 70, models.ReasonAboveAge, false},
		{"legacy age restriction, adult", models.ReasonAgeRestriction, 30, models.ReasonDonateLater, true},
		{"donate later overridden by age", models.ReasonDonateLater, 16, models.ReasonUnderAge, false},
		{"health issue adult stays gated", models.ReasonHealthIssue, 40, models.ReasonHealthIssue, false},
		{"health issue minor becomes under age", models.ReasonHealthIssue, 15, models.ReasonUnderAge, false},
		{"declared under age but adult", models.ReasonUnderAge, 25, models.ReasonDonateLater, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Normalize(tt.declared, dobForAge(tt.age), now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantReason, a.Reason)
			assert.Equal(t, tt.wantCan, a.CanUpdateToDonor)
			assert.NotEqual(t, models.ReasonAgeRestriction, a.Reason)
		})
	}

	t.Run("unknown reason", func(t *testing.T) {
		_, err := Normalize("bored", dobForAge(30), now)
		assert.ErrorIs(t, err, ErrUnknownReason)
	})

	t.Run("under age window equals dob plus 18 years", func(t *testing.T) {
		dob := dobForAge(12)
		a, err := Normalize(models.ReasonDonateLater, dob, now)
		require.NoError(t, err)
		require.NotNil(t, a.ProfileUpdatableAt)
		assert.Equal(t, dob.AddDate(18, 0, 0), *a.ProfileUpdatableAt)
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   Snapshot
		want Variant
	}{
		{"donor role wins over reason", Snapshot{Role: models.RoleDonor, SignupReason: models.ReasonHealthIssue}, VariantDonor},
		{"donate later", Snapshot{Role: models.RoleUser, SignupReason: models.ReasonDonateLater}, VariantDonateLater},
		{"health issue", Snapshot{Role: models.RoleUser, SignupReason: models.ReasonHealthIssue}, VariantHealthIssue},
		{"under age", Snapshot{Role: models.RoleUser, SignupReason: models.ReasonUnderAge}, VariantUnderAge},
		{"above age", Snapshot{Role: models.RoleUser, SignupReason: models.ReasonAboveAge}, VariantAboveAge},
		{"legacy minor", Snapshot{Role: models.RoleUser, SignupReason: models.ReasonAgeRestriction, CurrentAge: 17}, VariantUnderAge},
		{"legacy senior", Snapshot{Role: models.RoleUser, SignupReason: models.ReasonAgeRestriction, CurrentAge: 18}, VariantAboveAge},
		{"no data", Snapshot{}, VariantDefault},
		{"admin", Snapshot{Role: models.RoleAdmin}, VariantDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.in))
		})
	}
}

func TestParseVariant(t *testing.T) {
	v, ok := ParseVariant("donate-later")
	assert.True(t, ok)
	assert.Equal(t, VariantDonateLater, v)

	_, ok = ParseVariant("admin")
	assert.False(t, ok)
}
