package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReleaser struct{ calls atomic.Int32 }

func (r *countingReleaser) ReleaseDueAvailability(context.Context) (int64, error) {
	r.calls.Add(1)
	return 0, nil
}

func noopPurge(context.Context) (int64, error) { return 0, nil }

func TestNewSchedulerRegistersScheduledJobs(t *testing.T) {
	runner := jobs.NewJobRunner(&countingReleaser{}, noopPurge)

	s, err := NewScheduler(runner, Schedules{
		jobs.ReleaseAvailability: "0 */15 * * * *",
		jobs.PurgeLogs:           "0 0 3 * * *",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())
}

func TestNewSchedulerSkipsUnscheduledJobs(t *testing.T) {
	runner := jobs.NewJobRunner(&countingReleaser{}, nil)

	s, err := NewScheduler(runner, Schedules{
		jobs.ReleaseAvailability: "0 */15 * * * *",
		jobs.PurgeLogs:           "0 0 3 * * *",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	runner := jobs.NewJobRunner(&countingReleaser{}, nil)

	_, err := NewScheduler(runner, Schedules{jobs.ReleaseAvailability: "every tuesday"})
	assert.Error(t, err)
}

func TestSchedulerRunsJobs(t *testing.T) {
	r := &countingReleaser{}
	s, err := NewScheduler(jobs.NewJobRunner(r, nil), Schedules{jobs.ReleaseAvailability: "* * * * * *"})
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
