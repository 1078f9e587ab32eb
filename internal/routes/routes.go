package routes

import (
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/config"
	"github.com/bloodbridge/bloodbridge-backend/internal/eligibility"
	"github.com/bloodbridge/bloodbridge-backend/internal/handlers"
	"github.com/bloodbridge/bloodbridge-backend/internal/middleware"
	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"github.com/bloodbridge/bloodbridge-backend/internal/session"
	"github.com/bloodbridge/bloodbridge-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every HTTP handler the API serves.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Profile    *handlers.ProfileHandler
	Moderation *handlers.ModerationHandler
	Admin      *handlers.AdminHandler
	Donor      *handlers.DonorHandler
	Social     *handlers.SocialHandler
	Chatbot    *handlers.ChatbotHandler
	Health     *handlers.HealthHandler
}

// Session is what the auth chain needs to verify a request.
type Session struct {
	Tokens      *session.Manager
	Revocations session.Revocations
	Store       store.Store
}

// Profile edit routes, one per variant.
var editRoutes = map[string]eligibility.Variant{
	"/profile/edit-donor":        eligibility.VariantDonor,
	"/profile/edit-donate-later": eligibility.VariantDonateLater,
	"/profile/edit-health-issue": eligibility.VariantHealthIssue,
	"/profile/edit-under-age":    eligibility.VariantUnderAge,
	"/profile/edit-above-age":    eligibility.VariantAboveAge,
}

func Setup(app *fiber.App, cfg *config.Config, sess Session, h Handlers) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter per IP
	if cfg.RateLimit > 0 {
		api.Use(newLimiter(cfg.RateLimit))
	}

	api.Get("/health", h.Health.Check)

	// Public auth routes with a stricter limiter
	authLimit := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.AuthRateLimit > 0 {
		authLimit = newLimiter(cfg.AuthRateLimit)
	}
	api.Post("/register", authLimit, h.Auth.RegisterDonor)
	api.Post("/signup", authLimit, h.Auth.Signup)
	api.Post("/login", authLimit, h.Auth.Login)
	api.Post("/admin/register", authLimit, h.Auth.RegisterAdmin)

	// Everything registered below requires a live session and passes the
	// role guard.
	api.Use(
		middleware.JWTProtected(sess.Tokens, cfg.CookieName),
		middleware.LoadSession(sess.Store, sess.Revocations),
		middleware.RoleGuard(),
	)

	api.Post("/logout", h.Auth.Logout)
	api.Get("/me", h.Auth.Me)

	// Profile
	api.Post("/profile/edit", h.Profile.Edit)
	for path, variant := range editRoutes {
		api.Post(path, h.Profile.EditAs(variant))
	}
	api.Post("/profile/update", h.Profile.Upgrade)

	// Donors and availability
	api.Get("/donordata", h.Donor.GetDonorData)
	api.Put("/donordata", h.Donor.UpdateDonorData)
	api.Get("/donors", h.Donor.Search)
	api.Get("/donors/:id", h.Donor.GetDonor)
	api.Get("/schedule", h.Donor.GetSchedule)
	api.Post("/schedule", h.Donor.SetSchedule)
	api.Delete("/schedule", h.Donor.ClearSchedule)

	// Notifications, thanks, reports and votes
	api.Get("/notifications", h.Social.ListNotifications)
	api.Patch("/notifications/:id/read", h.Social.MarkRead)
	api.Delete("/notifications/:id", h.Social.DeleteNotification)
	api.Post("/thanks", h.Social.SendThanks)
	api.Post("/report", h.Moderation.CreateReport)
	api.Get("/reportvotedata", h.Social.VoteSummary)
	api.Post("/reportvotedata", h.Social.CastVote)
	api.Patch("/reportvotedata", h.Social.ChangeVote)
	api.Delete("/reportvotedata", h.Social.DeleteVote)

	// Health assistant
	api.Get("/healthaibot", h.Chatbot.History)
	api.Post("/healthaibot", h.Chatbot.Ask)
	api.Delete("/healthaibot", h.Chatbot.Clear)

	// Blocked accounts
	blocked := api.Group("/blocked")
	blocked.Get("/status", h.Moderation.BlockedStatus)
	blocked.Post("/unblock-request", h.Moderation.SubmitUnblockRequest)

	// Admin panel
	admin := api.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.Post("/block", h.Moderation.Block)
	admin.Post("/unblock", h.Moderation.Unblock)
	admin.Get("/blockedusers", h.Moderation.BlockedUsers)
	admin.Get("/unblock-requests", h.Moderation.UnblockRequests)
	admin.Get("/reports", h.Moderation.ListReports)
	admin.Patch("/reports/:id", h.Moderation.ActionReport)
	admin.Post("/warn", h.Admin.Warn)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Delete("/users/:id", h.Admin.DeleteUser)
	admin.Get("/stats", h.Admin.Stats)
}

func newLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
