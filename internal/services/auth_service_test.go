package services

import (
	"context"
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/eligibility"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDonor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	account := e.registerDonor(t, "Donor@Example.com ", 25)

	assert.Equal(t, "donor@example.com", account.Email)
	assert.Equal(t, models.RoleDonor, account.Role)
	assert.False(t, account.CanUpdateToDonor)
	assert.Equal(t, models.ReasonNone, account.SignupReason)
	assert.Equal(t, 25, account.CurrentAge)
	assert.NotEqual(t, "password123", account.Password)

	donor, err := e.store.Donors().GetByUser(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "O+", donor.BloodType)
	require.NotNil(t, donor.IsAvailable)
	assert.True(t, *donor.IsAvailable)
}

func TestRegisterDonorRejectsAgeOutsideWindow(t *testing.T) {
	e := newEnv(t)
	for _, age := range []int{17, 66} {
		_, err := e.auth.RegisterDonor(context.Background(), &dto.DonorRegisterRequest{
			Name: "x", Email: "young@example.com", Password: "password123", Phone: "0170000",
			DateOfBirth: dob(age), DonorFields: donorFields(),
		})
		assert.ErrorIs(t, err, ErrNotEligible, "age %d", age)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.registerDonor(t, "dup@example.com", 30)

	_, err := e.auth.Signup(context.Background(), &dto.SignupRequest{
		Name: "Other", Email: "DUP@example.com", Password: "password123", Phone: "0170000",
		DateOfBirth: dob(30), SignupReason: "donateLater",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDonorRejectsBadDate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	_, err := e.auth.RegisterDonor(ctx, &dto.DonorRegisterRequest{
		Name: "x", Email: "bad@example.com", Password: "password123", Phone: "0170000",
		DateOfBirth: "15/01/1990", DonorFields: donorFields(),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = e.store.Accounts().FindByEmail(ctx, "bad@example.com")
	assert.Error(t, err)
}

func TestSignupAppliesAgePolicy(t *testing.T) {
	e := newEnv(t)

	minor := e.signup(t, "minor@example.com", 17, models.ReasonAgeRestriction)
	assert.Equal(t, models.ReasonUnderAge, minor.SignupReason)
	assert.False(t, minor.CanUpdateToDonor)
	require.NotNil(t, minor.ProfileUpdatableAt)
	born, _ := time.Parse(dto.DateLayout, dob(17))
	assert.Equal(t, born.AddDate(18, 0, 0), *minor.ProfileUpdatableAt)

	senior := e.signup(t, "senior@example.com", 70, models.ReasonDonateLater)
	assert.Equal(t, models.ReasonAboveAge, senior.SignupReason)
	assert.Nil(t, senior.ProfileUpdatableAt)

	adult := e.signup(t, "adult@example.com", 30, models.ReasonDonateLater)
	assert.Equal(t, models.ReasonDonateLater, adult.SignupReason)
	assert.True(t, adult.CanUpdateToDonor)

	sick := e.signup(t, "sick@example.com", 30, models.ReasonHealthIssue)
	assert.Equal(t, models.ReasonHealthIssue, sick.SignupReason)
	assert.False(t, sick.CanUpdateToDonor)
}

func TestSignupRejectsUnknownReason(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.Signup(context.Background(), &dto.SignupRequest{
		Name: "x", Email: "x@example.com", Password: "password123", Phone: "0170000",
		DateOfBirth: dob(30), SignupReason: "bored",
	})
	assert.ErrorIs(t, err, eligibility.ErrUnknownReason)
}

func TestRegisterAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	req := &dto.SignupRequest{
		Name: "Admin", Email: "admin@example.com", Password: "password123", Phone: "0170000",
		DateOfBirth: dob(40), SignupReason: "donateLater",
	}

	_, err := e.auth.RegisterAdmin(ctx, "wrong", req)
	assert.ErrorIs(t, err, ErrInvalidAdminSecret)

	res, err := e.auth.RegisterAdmin(ctx, "admin-key", req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Account.Role)

	e.auth.adminSecret = ""
	_, err = e.auth.RegisterAdmin(ctx, "", req)
	assert.ErrorIs(t, err, ErrAdminRegistrationDisabled)
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.registerDonor(t, "login@example.com", 30)

	_, err := e.auth.Login(ctx, &dto.LoginRequest{Email: "login@example.com", Password: "nope-nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := e.auth.Login(ctx, &dto.LoginRequest{Email: "LOGIN@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, string(eligibility.VariantDonor), res.Response().Variant)

	claims, err := e.auth.tokens.Parse(res.Token)
	require.NoError(t, err)
	e.auth.now = time.Now
	require.NoError(t, e.auth.Logout(ctx, claims))

	revoked, err := e.revocations.IsRevoked(ctx, claims.JTI)
	require.NoError(t, err)
	assert.True(t, revoked)
}
