package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/jobs"
	"github.com/robfig/cron/v3"
)

// Scheduler manages cron job scheduling.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// Schedules maps job names to six-field cron specs (seconds first).
type Schedules map[string]string

// NewScheduler registers every job of the runner that has a schedule. Jobs
// without one are skipped; an unparsable cron expression is an error.
func NewScheduler(runner *jobs.JobRunner, schedules Schedules) (*Scheduler, error) {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	s := &Scheduler{cron: c, jobs: runner}
	for _, name := range runner.Names() {
		spec, ok := schedules[name]
		if !ok || spec == "" {
			continue
		}
		if _, err := c.AddFunc(spec, runner.Func(name)); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", name, spec, err)
		}
		slog.Info("cron job registered", "job", name, "spec", spec)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("cron scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("cron scheduler stopped")
}

// Entries is the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
