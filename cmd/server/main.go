package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"

	"github.com/bloodbridge/bloodbridge-backend/internal/config"
	"github.com/bloodbridge/bloodbridge-backend/internal/database"
	"github.com/bloodbridge/bloodbridge-backend/internal/handlers"
	"github.com/bloodbridge/bloodbridge-backend/internal/jobs"
	"github.com/bloodbridge/bloodbridge-backend/internal/logging"
	"github.com/bloodbridge/bloodbridge-backend/internal/routes"
	"github.com/bloodbridge/bloodbridge-backend/internal/scheduler"
	"github.com/bloodbridge/bloodbridge-backend/internal/services"
	"github.com/bloodbridge/bloodbridge-backend/internal/session"
	"github.com/bloodbridge/bloodbridge-backend/internal/store/gormstore"
	"github.com/bloodbridge/bloodbridge-backend/internal/textproc"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	st := gormstore.New(db)

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(cfg.AppEnv),
		pgLogHandler,
	)))

	// Session revocation
	var revocations session.Revocations = session.NewMemoryRevocations()
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		revocations = session.NewRedisRevocations(redisClient)
		slog.Info("token revocation backed by redis")
	}

	// Mail
	var mailer services.Mailer = services.LogMailer{}
	if cfg.SendGridAPIKey != "" {
		mailer = services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
	}

	// Services
	text := textproc.New()
	tokens := session.NewManager(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(st, tokens, revocations, cfg.AdminSecretKey)
	profileService := services.NewProfileService(st)
	moderationService := services.NewModerationService(st, text)
	adminService := services.NewAdminService(st, mailer, text)
	donorService := services.NewDonorService(st)
	notificationService := services.NewNotificationService(st, moderationService, text)
	voteService := services.NewVoteService(st, moderationService, text)
	chatbotService := services.NewChatbotService(st, moderationService, text, cfg)

	// Fiber app
	app := routes.NewApp(cfg)
	routes.Setup(app, cfg, routes.Session{Tokens: tokens, Revocations: revocations, Store: st}, routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService, profileService, session.CookieConfig{Name: cfg.CookieName, Secure: cfg.CookieSecure}),
		Profile:    handlers.NewProfileHandler(profileService),
		Moderation: handlers.NewModerationHandler(moderationService),
		Admin:      handlers.NewAdminHandler(adminService),
		Donor:      handlers.NewDonorHandler(donorService),
		Social:     handlers.NewSocialHandler(notificationService, voteService),
		Chatbot:    handlers.NewChatbotHandler(chatbotService),
		Health:     handlers.NewHealthHandler(st),
	})

	// Background jobs
	runner := jobs.NewJobRunner(donorService, jobs.GormLogPurger(db, cfg.LogRetention))
	sched, err := scheduler.NewScheduler(runner, scheduler.Schedules{
		jobs.ReleaseAvailability: cfg.AvailabilityCron,
		jobs.PurgeLogs:           cfg.LogPurgeCron,
	})
	if err != nil {
		slog.Error("scheduler setup failed", "error", err)
		os.Exit(1)
	}
	sched.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	sched.Stop()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	database.Close(db)

	slog.Info("server stopped")
}
