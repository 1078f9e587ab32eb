package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/eligibility"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPatch() *dto.DonorPatch {
	return &dto.DonorPatch{
		BloodType: ptr("A-"),
		Gender:    ptr("male"),
		WeightKg:  ptr(70.0),
		HeightCm:  ptr(175.0),
		Country:   ptr("Bangladesh"),
		City:      ptr("Chattogram"),
	}
}

func TestGetProfileResolvesVariant(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	donor := e.registerDonor(t, "d@example.com", 30)
	minor := e.signup(t, "m@example.com", 16, models.ReasonDonateLater)

	p, err := e.profile.GetProfile(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, string(eligibility.VariantDonor), p.Variant)
	require.NotNil(t, p.Donor)
	assert.Equal(t, models.RoleDonor, p.Donor.Role)

	p, err = e.profile.GetProfile(ctx, minor.ID)
	require.NoError(t, err)
	assert.Equal(t, string(eligibility.VariantUnderAge), p.Variant)
	assert.Nil(t, p.Donor)
}

func TestEditProfileVariantMismatch(t *testing.T) {
	e := newEnv(t)
	minor := e.signup(t, "m@example.com", 16, models.ReasonDonateLater)

	_, err := e.profile.EditProfile(context.Background(), minor.ID, eligibility.VariantDonor, &dto.EditProfileRequest{Name: ptr("New Name")})
	assert.ErrorIs(t, err, ErrVariantMismatch)
	assert.Equal(t, "User m@example.com", e.account(t, minor.ID).Name)
}

func TestEditProfileRecomputesEligibility(t *testing.T) {
	e := newEnv(t)
	user := e.signup(t, "u@example.com", 30, models.ReasonDonateLater)

	p, err := e.profile.EditProfile(context.Background(), user.ID, eligibility.VariantDonateLater, &dto.EditProfileRequest{
		DateOfBirth: ptr(dob(15)),
	})
	require.NoError(t, err)
	assert.Equal(t, string(eligibility.VariantUnderAge), p.Variant)
	assert.Equal(t, models.ReasonUnderAge, p.User.SignupReason)
	assert.False(t, p.User.CanUpdateToDonor)
	require.NotNil(t, p.User.ProfileUpdatableAt)

	p, err = e.profile.EditProfile(context.Background(), user.ID, "", &dto.EditProfileRequest{
		DateOfBirth:  ptr(dob(40)),
		SignupReason: ptr(string(models.ReasonHealthIssue)),
	})
	require.NoError(t, err)
	assert.Equal(t, string(eligibility.VariantHealthIssue), p.Variant)
	assert.False(t, p.User.CanUpdateToDonor)
	assert.Nil(t, p.User.ProfileUpdatableAt)
}

func TestEditProfileDonorFields(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	minor := e.signup(t, "m@example.com", 16, models.ReasonDonateLater)
	later := e.signup(t, "l@example.com", 30, models.ReasonDonateLater)
	donor := e.registerDonor(t, "d@example.com", 30)

	_, err := e.profile.EditProfile(ctx, minor.ID, "", &dto.EditProfileRequest{Donor: fullPatch()})
	assert.ErrorIs(t, err, ErrDonorFieldsNotAllowed)

	_, err = e.profile.EditProfile(ctx, later.ID, "", &dto.EditProfileRequest{Donor: &dto.DonorPatch{BloodType: ptr("B+")}})
	assert.ErrorIs(t, err, ErrIncompleteDonorData)

	p, err := e.profile.EditProfile(ctx, later.ID, eligibility.VariantDonateLater, &dto.EditProfileRequest{Donor: fullPatch()})
	require.NoError(t, err)
	require.NotNil(t, p.Donor)
	assert.Equal(t, models.RoleUser, p.User.Role)
	assert.Equal(t, "A-", p.Donor.BloodType)

	p, err = e.profile.EditProfile(ctx, donor.ID, eligibility.VariantDonor, &dto.EditProfileRequest{
		Donor: &dto.DonorPatch{City: ptr("Sylhet")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sylhet", p.Donor.City)
	assert.Equal(t, "O+", p.Donor.BloodType)
}

func TestDonorCannotChangeSignupReason(t *testing.T) {
	e := newEnv(t)
	donor := e.registerDonor(t, "d@example.com", 30)

	_, err := e.profile.EditProfile(context.Background(), donor.ID, "", &dto.EditProfileRequest{
		SignupReason: ptr(string(models.ReasonHealthIssue)),
	})
	assert.ErrorIs(t, err, ErrReasonChangeForbidden)
}

func TestUpgradeToDonor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	user := e.signup(t, "u@example.com", 30, models.ReasonDonateLater)

	_, err := e.profile.UpgradeToDonor(ctx, user.ID, &dto.UpgradeRequest{})
	assert.ErrorIs(t, err, ErrIncompleteDonorData)
	assert.Equal(t, models.RoleUser, e.account(t, user.ID).Role)

	p, err := e.profile.UpgradeToDonor(ctx, user.ID, &dto.UpgradeRequest{Donor: fullPatch()})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDonor, p.User.Role)
	assert.Equal(t, models.ReasonNone, p.User.SignupReason)
	assert.False(t, p.User.CanUpdateToDonor)
	assert.Nil(t, p.User.ProfileUpdatableAt)
	require.NotNil(t, p.Donor)
	assert.Equal(t, models.RoleDonor, p.Donor.Role)

	_, err = e.profile.UpgradeToDonor(ctx, user.ID, &dto.UpgradeRequest{Donor: fullPatch()})
	assert.ErrorIs(t, err, ErrAlreadyDonor)
}

func TestUpgradeRefusedForUnderAge(t *testing.T) {
	e := newEnv(t)
	minor := e.signup(t, "m@example.com", 16, models.ReasonDonateLater)

	_, err := e.profile.UpgradeToDonor(context.Background(), minor.ID, &dto.UpgradeRequest{Donor: fullPatch()})

	var eligErr *EligibilityError
	require.True(t, errors.As(err, &eligErr))
	assert.Equal(t, models.ReasonUnderAge, eligErr.Reason)
	require.NotNil(t, eligErr.UpdatableAt)
	assert.Equal(t, models.RoleUser, e.account(t, minor.ID).Role)
}

func TestUpgradeReassessesWhenWindowOpens(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	minor := e.signup(t, "m@example.com", 17, models.ReasonDonateLater)
	require.Equal(t, models.ReasonUnderAge, minor.SignupReason)

	e.profile.now = func() time.Time { return testNow.AddDate(1, 0, 0) }
	p, err := e.profile.UpgradeToDonor(ctx, minor.ID, &dto.UpgradeRequest{Donor: fullPatch()})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDonor, p.User.Role)
	assert.Equal(t, 18, p.User.CurrentAge)
}

func TestUpgradeRefusedForHealthIssue(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sick := e.signup(t, "s@example.com", 30, models.ReasonHealthIssue)

	_, err := e.profile.UpgradeToDonor(ctx, sick.ID, &dto.UpgradeRequest{Donor: fullPatch()})
	var eligErr *EligibilityError
	require.True(t, errors.As(err, &eligErr))
	assert.Nil(t, eligErr.UpdatableAt)

	_, err = e.store.Donors().GetByUser(ctx, sick.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
