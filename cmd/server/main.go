package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/condoflow/backend/internal/auth"
	"github.com/condoflow/backend/internal/config"
	"github.com/condoflow/backend/internal/database"
	"github.com/condoflow/backend/internal/handlers"
	"github.com/condoflow/backend/internal/middleware"
	"github.com/condoflow/backend/internal/repository"
	"github.com/condoflow/backend/internal/services"
	"github.com/condoflow/backend/internal/storage"
	"github.com/condoflow/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.Seed(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	redisClient, err := database.ConnectRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer database.CloseRedis(redisClient)

	mediaStorage, err := storage.NewMediaStorage(&cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpireHour)
	sessionStore := database.NewSessionStore(redisClient)
	identityProvider := auth.NewSupabaseProvider(&cfg.Supabase)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	residentRepo := repository.NewResidentRepository(db)
	condominiumRepo := repository.NewCondominiumRepository(db)
	occurrenceRepo := repository.NewOccurrenceRepository(db)
	providerConfigRepo := repository.NewProviderConfigRepository(db)
	templateRepo := repository.NewMessageTemplateRepository(db)
	deliveryAttemptRepo := repository.NewDeliveryAttemptRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	accessAttemptRepo := repository.NewAccessAttemptRepository(db)
	accountRoleRepo := repository.NewAccountRoleRepository(db)
	jobRepo := repository.NewJobRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager, sessionStore)
	templateService := services.NewTemplateService(templateRepo)
	dispatcherService := services.NewDispatcherService(providerConfigRepo, templateRepo, deliveryAttemptRepo, mediaStorage, nil)
	accessService := services.NewAccessService(notificationRepo, residentRepo, accessAttemptRepo, accountRoleRepo, identityProvider, cfg.App.BaseURL)
	occurrenceService := services.NewOccurrenceService(occurrenceRepo, residentRepo, notificationRepo, dispatcherService, cfg.App.BaseURL)
	jobRunner := services.NewJobRunner(jobRepo)

	// Unread notification reminders (hourly sweep)
	reminderMonitor := services.NewReminderMonitor(notificationRepo, dispatcherService, jobRunner, cfg.App.BaseURL, time.Hour)
	ctx := context.Background()
	reminderMonitor.Start(ctx)
	defer reminderMonitor.Stop()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	userHandler := handlers.NewUserHandler(userService)
	accessHandler := handlers.NewAccessHandler(accessService)
	dispatchHandler := handlers.NewDispatchHandler(dispatcherService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	providerConfigHandler := handlers.NewProviderConfigHandler(providerConfigRepo, dispatcherService)
	jobHandler := handlers.NewJobHandler(jobRepo)
	auditHandler := handlers.NewAuditHandler(deliveryAttemptRepo, accessAttemptRepo)
	occurrenceHandler := handlers.NewOccurrenceHandler(occurrenceService)
	residentHandler := handlers.NewResidentHandler(residentRepo, condominiumRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	webhookHandler := handlers.NewWebhookHandler(webhookRepo)
	mediaHandler := handlers.NewMediaHandler(mediaStorage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	app := fiber.New(fiber.Config{
		AppName:      "Condoflow Backend",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health routes
	v1.Get("/health", healthHandler.Health)
	v1.Get("/ready", healthHandler.Ready)

	// Public routes
	v1.Post("/access/verify", accessHandler.Verify)
	v1.Post("/webhooks/payment", webhookHandler.Payment)

	// Auth routes
	authRoutes := v1.Group("/auth")
	authRoutes.Post("/login", userHandler.Login)
	authRoutes.Post("/refresh", userHandler.RefreshToken)
	authRoutes.Post("/logout", authMiddleware.Authenticate(), userHandler.Logout)

	// User routes
	users := v1.Group("/users")
	users.Get("/me", authMiddleware.Authenticate(), userHandler.GetProfile)

	// Admin routes
	admin := v1.Group("/admin", authMiddleware.Authenticate())

	// User management
	admin.Get("/users", authMiddleware.RequireRole("super_admin", "manager"), userHandler.ListUsers)
	admin.Post("/users", authMiddleware.RequireRole("super_admin"), userHandler.CreateUser)

	// Media attachments (object names feed media dispatches)
	media := admin.Group("/media", authMiddleware.RequireRole("super_admin", "manager"))
	media.Post("/", mediaHandler.Upload)
	media.Get("/*", mediaHandler.Download)
	media.Delete("/*", mediaHandler.Delete)

	// Notification dispatch
	notifications := admin.Group("/notifications")
	notifications.Post("/dispatch", authMiddleware.RequireRole("super_admin", "manager"), dispatchHandler.Dispatch)
	notifications.Post("/dispatch-media", authMiddleware.RequireRole("super_admin", "manager"), dispatchHandler.DispatchMedia)

	// Message templates
	templates := admin.Group("/templates")
	templates.Get("/", templateHandler.List)
	templates.Post("/preview", templateHandler.Preview)
	templates.Get("/:slug", templateHandler.GetBySlug)
	templates.Put("/:slug", authMiddleware.RequireRole("super_admin", "manager"), templateHandler.Update)
	templates.Post("/:slug/reset", authMiddleware.RequireRole("super_admin", "manager"), templateHandler.ResetToDefault)

	// Provider configurations
	providers := admin.Group("/providers", authMiddleware.RequireRole("super_admin"))
	providers.Post("/", providerConfigHandler.Create)
	providers.Get("/", providerConfigHandler.List)
	providers.Post("/test-send", providerConfigHandler.TestSend)
	providers.Post("/:id/activate", providerConfigHandler.Activate)
	providers.Post("/:id/deactivate", providerConfigHandler.Deactivate)

	// Scheduled jobs
	jobs := admin.Group("/jobs", authMiddleware.RequireRole("super_admin", "manager"))
	jobs.Get("/", jobHandler.List)
	jobs.Post("/:name/pause", jobHandler.Pause)
	jobs.Post("/:name/resume", jobHandler.Resume)
	jobs.Get("/:name/executions", jobHandler.ListExecutions)

	// Audit logs
	audit := admin.Group("/audit")
	audit.Get("/deliveries", auditHandler.ListDeliveries)
	audit.Get("/deliveries/:id", auditHandler.GetDelivery)
	audit.Get("/access-attempts", auditHandler.ListAccessAttempts)

	// Occurrences
	occurrences := admin.Group("/occurrences")
	occurrences.Post("/", occurrenceHandler.Create)
	occurrences.Get("/", occurrenceHandler.List)
	occurrences.Get("/:id", occurrenceHandler.GetByID)

	// Residents and condominiums
	residents := admin.Group("/residents")
	residents.Post("/", residentHandler.Create)
	residents.Get("/", residentHandler.List)
	residents.Get("/:id", residentHandler.GetByID)
	residents.Get("/:id/notifications", notificationHandler.ListByResident)

	condominiums := admin.Group("/condominiums")
	condominiums.Post("/", residentHandler.CreateCondominium)
	condominiums.Get("/", residentHandler.ListCondominiums)

	// Payment webhook event log
	admin.Get("/webhooks/payment", webhookHandler.ListPaymentEvents)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
