package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/ai"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/filestore"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/queue"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/studyhub-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records also go to system_logs, in batches
	dbLogHandler := logging.NewDBHandler(database.DB, 5*time.Second)
	logging.Setup(cfg.AppEnv, dbLogHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Log cleanup (30-day retention)
	logging.StartCleanup(ctx, database.DB)

	store := storage.NewGormStore(database.DB)

	// File storage
	var blobs filestore.Store
	if cfg.CloudinaryURL != "" {
		cld, err := filestore.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			slog.Error("cloudinary init failed", "error", err)
			os.Exit(1)
		}
		blobs = cld
		slog.Info("file storage: cloudinary", "folder", cfg.CloudinaryFolder)
	} else {
		local, err := filestore.NewLocalStore(cfg.UploadDir)
		if err != nil {
			slog.Error("upload directory init failed", "path", cfg.UploadDir, "error", err)
			os.Exit(1)
		}
		blobs = local
		slog.Info("file storage: local disk", "path", cfg.UploadDir)
	}

	// AI client is optional; without a key generation answers 503
	var aiClient ai.Client
	if cfg.AIAPIKey != "" {
		chain := ai.NewFallbackClient().Add("primary", ai.NewChatClient(cfg.AIAPIURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout))
		if cfg.AIFallbackAPIKey != "" {
			chain.Add("fallback", ai.NewChatClient(cfg.AIFallbackAPIURL, cfg.AIFallbackAPIKey, cfg.AIFallbackModel, cfg.AITimeout))
		}
		aiClient = chain
	} else {
		slog.Warn("AI_API_KEY not set, recommendation generation disabled")
	}

	// Services
	authorizer := services.NewAuthorizer(store)
	profileService := services.NewProfileService(store)
	notificationService := services.NewNotificationService(store)

	if err := profileService.EnsureAdmins(ctx, cfg.AdminUserIDs); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Notification ingestion
	var consumer *queue.NotificationConsumer
	if len(cfg.KafkaBrokers) > 0 {
		consumer = queue.NewNotificationConsumer(queue.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaNotificationsTopic,
			GroupID:  cfg.KafkaGroupID,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
		}, notificationService)
		go consumer.Run(ctx)
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
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app. The body limit leaves room for multipart framing around a
	// maximum-size upload.
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxUploadBytes) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))

	prometheus := fiberprometheus.New("studyhub")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, store, authorizer, routes.Handlers{
		Health:         handlers.NewHealthHandler(database.DB),
		Task:           handlers.NewTaskHandler(services.NewTaskService(store)),
		Pomodoro:       handlers.NewPomodoroHandler(services.NewPomodoroService(store)),
		Recommendation: handlers.NewRecommendationHandler(services.NewRecommendationService(store, aiClient, services.NewContentFilter())),
		File:           handlers.NewFileHandler(services.NewFileService(store, blobs, cfg.MaxUploadBytes)),
		Notification:   handlers.NewNotificationHandler(notificationService),
		Profile:        handlers.NewProfileHandler(profileService),
		Admin:          handlers.NewAdminHandler(services.NewAdminService(store)),
	})

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

	cancel()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			slog.Warn("kafka consumer close error", "error", err)
		}
	}

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
