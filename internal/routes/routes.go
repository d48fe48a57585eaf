package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Health         *handlers.HealthHandler
	Task           *handlers.TaskHandler
	Pomodoro       *handlers.PomodoroHandler
	Recommendation *handlers.RecommendationHandler
	File           *handlers.FileHandler
	Notification   *handlers.NotificationHandler
	Profile        *handlers.ProfileHandler
	Admin          *handlers.AdminHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	store storage.Store,
	authz *services.Authorizer,
	h Handlers,
) {
	api := app.Group("/api")

	if cfg.RateLimitPerMinute > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:               cfg.RateLimitPerMinute,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	// Public
	api.Get("/health", h.Health.Check)

	// Everything below needs a verified session token
	protected := api.Group("", middleware.JWTProtected(cfg), middleware.SyncIdentity(store))

	protected.Get("/tasks", h.Task.List)
	protected.Post("/tasks", h.Task.Create)
	protected.Get("/tasks/:id", h.Task.Get)
	protected.Patch("/tasks/:id", h.Task.Update)
	protected.Delete("/tasks/:id", h.Task.Delete)

	protected.Get("/pomodoro", h.Pomodoro.List)
	protected.Post("/pomodoro", h.Pomodoro.Create)

	// AI generation is the expensive path; keep it to a few calls per minute
	protected.Get("/recommendations", h.Recommendation.List)
	protected.Post("/recommendations/generate", limiter.New(limiter.Config{
		Max:               5,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      userOrIP,
	}), h.Recommendation.Generate)
	protected.Patch("/recommendations/:id/dismiss", h.Recommendation.Dismiss)

	protected.Get("/files", h.File.List)
	protected.Post("/files/upload", h.File.Upload)
	protected.Get("/files/:id/download", h.File.Download)
	protected.Delete("/files/:id", h.File.Delete)

	protected.Get("/notifications", h.Notification.List)
	protected.Patch("/notifications/read-all", h.Notification.MarkAllRead)
	protected.Patch("/notifications/:id/read", h.Notification.MarkRead)

	protected.Get("/profile", h.Profile.Get)
	protected.Patch("/profile", h.Profile.Update)

	admin := protected.Group("/admin", middleware.AdminRequired(authz))
	admin.Get("/stats", h.Admin.Stats)
	admin.Get("/users", h.Admin.Users)
	admin.Patch("/users/:userId/role", h.Admin.UpdateRole)
}

func userOrIP(c *fiber.Ctx) string {
	if userID, err := auth.GetUserID(c); err == nil {
		return "user:" + userID
	}
	return c.IP()
}
