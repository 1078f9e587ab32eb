package services

import (
	"context"
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/dto"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleLifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	donor := e.registerDonor(t, "d@example.com", 30)

	sched, err := e.donors.GetSchedule(ctx, donor.ID)
	require.NoError(t, err)
	assert.True(t, sched.IsAvailable)

	_, err = e.donors.SetSchedule(ctx, donor.ID, "2026-06-15")
	assert.ErrorIs(t, err, ErrScheduleInPast)
	_, err = e.donors.SetSchedule(ctx, donor.ID, "someday")
	assert.ErrorIs(t, err, ErrInvalidDate)

	sched, err = e.donors.SetSchedule(ctx, donor.ID, "2026-06-16")
	require.NoError(t, err)
	assert.False(t, sched.IsAvailable)
	require.NotNil(t, sched.AvailableFrom)

	found, _, err := e.donors.Search(ctx, store.DonorFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Empty(t, found)

	n, err := e.donors.ReleaseDueAvailability(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	e.donors.now = func() time.Time { return testNow.Add(48 * time.Hour) }
	n, err = e.donors.ReleaseDueAvailability(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sched, err = e.donors.GetSchedule(ctx, donor.ID)
	require.NoError(t, err)
	assert.True(t, sched.IsAvailable)
	assert.Nil(t, sched.AvailableFrom)
}

func TestClearSchedule(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	donor := e.registerDonor(t, "d@example.com", 30)

	_, err := e.donors.SetSchedule(ctx, donor.ID, "2026-07-01")
	require.NoError(t, err)
	sched, err := e.donors.ClearSchedule(ctx, donor.ID)
	require.NoError(t, err)
	assert.True(t, sched.IsAvailable)
	assert.Nil(t, sched.AvailableFrom)
}

func TestScheduleRequiresDonorRole(t *testing.T) {
	e := newEnv(t)
	user := e.signup(t, "u@example.com", 30, models.ReasonDonateLater)

	_, err := e.donors.SetSchedule(context.Background(), user.ID, "2026-07-01")
	assert.ErrorIs(t, err, ErrNotADonor)
}

func TestSearchHidesBlockedDonors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	admin := e.registerAdmin(t, "admin@example.com")
	visible := e.registerDonor(t, "a@example.com", 30)
	hidden := e.registerDonor(t, "b@example.com", 30)

	_, err := e.moderation.Block(ctx, admin.ID, &dto.BlockRequest{UserID: hidden.ID, Reason: "test"})
	require.NoError(t, err)

	found, total, err := e.donors.Search(ctx, store.DonorFilter{BloodType: "O+"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, visible.ID, found[0].UserID)
	assert.Equal(t, 30, found[0].Age)

	_, err = e.donors.GetDonor(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrDonorNotFound)

	found, _, err = e.donors.Search(ctx, store.DonorFilter{BloodType: "AB-"})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGetDonorIncludesVotes(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	donor := e.registerDonor(t, "d@example.com", 30)
	fan := e.signup(t, "fan@example.com", 30, models.ReasonDonateLater)

	_, err := e.votes.Cast(ctx, fan.ID, &dto.VoteRequest{DonorID: donor.ID, Vote: models.VoteUp})
	require.NoError(t, err)

	resp, err := e.donors.GetDonor(ctx, donor.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Votes)
	assert.Equal(t, int64(1), resp.Votes.Up)

	_, err = e.donors.GetDonor(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrDonorNotFound)
}

func TestUpdateDonorData(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	donor := e.registerDonor(t, "d@example.com", 30)
	user := e.signup(t, "u@example.com", 30, models.ReasonDonateLater)

	resp, err := e.donors.UpdateDonorData(ctx, donor.ID, &dto.DonorPatch{City: ptr("Chittagong")})
	require.NoError(t, err)
	assert.Equal(t, "Chittagong", resp.City)
	assert.Equal(t, "O+", resp.BloodType)

	_, err = e.donors.UpdateDonorData(ctx, user.ID, &dto.DonorPatch{City: ptr("Sylhet")})
	assert.ErrorIs(t, err, ErrNotADonor)
}
