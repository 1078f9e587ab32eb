package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/bloodbridge/bloodbridge-backend/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type releaserFunc func(ctx context.Context) (int64, error)

func (f releaserFunc) ReleaseDueAvailability(ctx context.Context) (int64, error) { return f(ctx) }

func TestReleaseAvailabilityWithMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	acc := &models.Account{Email: "d@example.com", Name: "d", Role: models.RoleDonor, DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, st.Accounts().Create(ctx, acc))
	unavailable := false
	past := time.Now().Add(-time.Hour)
	require.NoError(t, st.Donors().Create(ctx, &models.Donor{UserID: acc.ID, BloodType: "O+", IsAvailable: &unavailable, AvailableFrom: &past}))

	jr := NewJobRunner(services.NewDonorService(st), nil)
	require.NoError(t, jr.Run(ctx, ReleaseAvailability))

	got, err := st.Donors().GetByUser(ctx, acc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.IsAvailable)
	assert.True(t, *got.IsAvailable)
}

func TestRunReportsFailures(t *testing.T) {
	boom := errors.New("boom")
	jr := NewJobRunner(releaserFunc(func(context.Context) (int64, error) { return 0, boom }), nil)

	assert.ErrorIs(t, jr.Run(context.Background(), ReleaseAvailability), boom)
}

func TestRunRecoversFromPanic(t *testing.T) {
	jr := NewJobRunner(releaserFunc(func(context.Context) (int64, error) { panic("nil map") }), nil)

	err := jr.Run(context.Background(), ReleaseAvailability)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestRunUnknownJob(t *testing.T) {
	jr := NewJobRunner(releaserFunc(func(context.Context) (int64, error) { return 0, nil }), nil)

	assert.Error(t, jr.Run(context.Background(), PurgeLogs))
	assert.Error(t, jr.Run(context.Background(), "nope"))
	assert.Equal(t, []string{ReleaseAvailability}, jr.Names())
}

func TestRunAllExecutesEveryJob(t *testing.T) {
	released := make(chan struct{}, 1)
	purged := make(chan struct{}, 1)
	jr := NewJobRunner(
		releaserFunc(func(context.Context) (int64, error) { released <- struct{}{}; return 2, nil }),
		func(context.Context) (int64, error) { purged <- struct{}{}; return 7, nil },
	)

	require.NoError(t, jr.RunAll(context.Background()))
	assert.Len(t, released, 1)
	assert.Len(t, purged, 1)
	assert.Equal(t, []string{ReleaseAvailability, PurgeLogs}, jr.Names())
}

func TestJobsGetADeadline(t *testing.T) {
	var hasDeadline bool
	jr := NewJobRunner(releaserFunc(func(ctx context.Context) (int64, error) {
		_, hasDeadline = ctx.Deadline()
		return 0, nil
	}), nil)

	jr.Func(ReleaseAvailability)()
	assert.True(t, hasDeadline)
}
