// Package jobs holds the background maintenance work the scheduler and the
// cronjob binary run.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/logging"
	"github.com/bloodbridge/bloodbridge-backend/internal/metrics"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	ReleaseAvailability = "release_availability"
	PurgeLogs           = "purge_logs"
)

const jobTimeout = 5 * time.Minute

// AvailabilityReleaser is satisfied by services.DonorService.
type AvailabilityReleaser interface {
	ReleaseDueAvailability(ctx context.Context) (int64, error)
}

// LogPurger deletes expired system logs and returns how many rows it removed.
type LogPurger func(ctx context.Context) (int64, error)

// GormLogPurger purges the system_logs table of db.
func GormLogPurger(db *gorm.DB, retention time.Duration) LogPurger {
	return func(ctx context.Context) (int64, error) {
		return logging.PurgeSystemLogs(ctx, db, retention)
	}
}

// JobRunner coordinates all scheduled jobs.
type JobRunner struct {
	donors    AvailabilityReleaser
	purgeLogs LogPurger
}

// NewJobRunner creates a runner. A nil purger leaves the log purge job out.
func NewJobRunner(donors AvailabilityReleaser, purgeLogs LogPurger) *JobRunner {
	return &JobRunner{donors: donors, purgeLogs: purgeLogs}
}

// Names lists the jobs this runner can execute.
func (jr *JobRunner) Names() []string {
	names := []string{ReleaseAvailability}
	if jr.purgeLogs != nil {
		names = append(names, PurgeLogs)
	}
	return names
}

// Run executes one job by name.
func (jr *JobRunner) Run(ctx context.Context, name string) error {
	switch {
	case name == ReleaseAvailability:
		return jr.runWithRecovery(ctx, name, jr.donors.ReleaseDueAvailability)
	case name == PurgeLogs && jr.purgeLogs != nil:
		return jr.runWithRecovery(ctx, name, jr.purgeLogs)
	}
	return fmt.Errorf("unknown job %q", name)
}

// RunAll executes every job concurrently and returns the first failure.
func (jr *JobRunner) RunAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range jr.Names() {
		g.Go(func() error { return jr.Run(ctx, name) })
	}
	return g.Wait()
}

// Func adapts a job to the signature cron expects.
func (jr *JobRunner) Func(name string) func() {
	return func() {
		_ = jr.Run(context.Background(), name)
	}
}

// runWithRecovery bounds the job with a timeout, turns a panic into an error
// and records the outcome.
func (jr *JobRunner) runWithRecovery(ctx context.Context, name string, fn func(context.Context) (int64, error)) (err error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
		result := "success"
		if err != nil {
			result = "failure"
			slog.Error("job failed", "job", name, "action", name, "error", err)
		}
		metrics.JobRuns.WithLabelValues(name, result).Inc()
	}()

	slog.Debug("job started", "job", name)
	n, err := fn(ctx)
	if err != nil {
		return err
	}
	metrics.JobRowsAffected.WithLabelValues(name).Add(float64(n))
	slog.Info("job completed", "job", name, "rows", n, "latency_ms", time.Since(start).Milliseconds())
	return nil
}
