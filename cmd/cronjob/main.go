package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bloodbridge/bloodbridge-backend/internal/config"
	"github.com/bloodbridge/bloodbridge-backend/internal/database"
	"github.com/bloodbridge/bloodbridge-backend/internal/jobs"
	"github.com/bloodbridge/bloodbridge-backend/internal/logging"
	"github.com/bloodbridge/bloodbridge-backend/internal/scheduler"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/bloodbridge/bloodbridge-backend/internal/store/gormstore"
)

func main() {
	runOnce := flag.String("run-once", "", "Run one job and exit: availability, logs or all")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.AppEnv)

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	runner := jobs.NewJobRunner(
		services.NewDonorService(gormstore.New(db)),
		jobs.GormLogPurger(db, cfg.LogRetention),
	)

	if *runOnce != "" {
		if err := runJobOnce(runner, *runOnce); err != nil {
			slog.Error("job failed", "job", *runOnce, "error", err)
			database.Close(db)
			os.Exit(1)
		}
		return
	}

	sched, err := scheduler.NewScheduler(runner, scheduler.Schedules{
		jobs.ReleaseAvailability: cfg.AvailabilityCron,
		jobs.PurgeLogs:           cfg.LogPurgeCron,
	})
	if err != nil {
		slog.Error("scheduler setup failed", "error", err)
		os.Exit(1)
	}
	sched.Start()
	slog.Info("cronjob runner is running", "jobs", strings.Join(runner.Names(), ","))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down cronjob runner...")
	sched.Stop()
}

var jobAliases = map[string]string{
	"availability": jobs.ReleaseAvailability,
	"logs":         jobs.PurgeLogs,
}

func runJobOnce(runner *jobs.JobRunner, name string) error {
	ctx := context.Background()
	if name == "all" {
		return runner.RunAll(ctx)
	}
	if job, ok := jobAliases[name]; ok {
		name = job
	}
	return runner.Run(ctx, name)
}
