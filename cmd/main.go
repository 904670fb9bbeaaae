package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"mentorhub/internal/caching"
	"mentorhub/internal/config"
	"mentorhub/internal/handlers"
	"mentorhub/internal/jobs"
	"mentorhub/internal/jobs/background"
	"mentorhub/internal/loader"
	"mentorhub/internal/middleware"
	"mentorhub/internal/repositories"
	"mentorhub/internal/services"
	"mentorhub/internal/session"
	"mentorhub/pkg/database"

	"github.com/labstack/echo/v4"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = random.String(32)
		logger.Warn("JWT_SECRET not set, using a generated secret; sessions will not survive restarts")
	}

	pool, err := database.NewPool(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	orgRepo := repositories.NewOrganizationRepo(pool)
	matchRepo := repositories.NewMatchRepo(pool)
	deviceRepo := repositories.NewDeviceRepo(pool)
	auditRepo := repositories.NewAuditLogsRepo(pool)

	// Redis-backed cache and session stores
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionStore := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Object storage for avatars and program logos
	mediaSvc, err := services.NewMediaService(cfg.Minio.Endpoint, cfg.Minio.AccessKey,
		cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Bucket)
	if err != nil {
		logger.Fatal("Failed to initialize media storage", zap.Error(err))
	}
	if err := mediaSvc.EnsureBucket(context.Background()); err != nil {
		logger.Warn("Media bucket check failed, uploads may not work", zap.Error(err))
	}

	// Services
	authSvc := services.NewAuthService(userRepo, cacheSvc, cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	userSvc := services.NewUserService(userRepo, cacheSvc)
	orgSvc := services.NewOrganizationService(orgRepo, cacheSvc)
	matchSvc := services.NewMatchService(matchRepo, userRepo, logger)
	notificationSvc := services.NewNotificationService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	deviceSvc := services.NewDeviceService(deviceRepo, auditRepo, sessionStore, notificationSvc, logger)
	emailSvc := services.NewEmailService(cfg.Email, auditRepo, logger)
	calendarSvc := services.NewCalendarService(sessionStore, cfg.Calendar, logger)
	flowgladSvc := services.NewFlowgladService(cfg.Flowglad.APIKey, cfg.Flowglad.BaseURL)
	billingSvc := services.NewBillingService(orgRepo, flowgladSvc)

	adminLoader := loader.NewAdminLoader(userRepo, orgRepo, logger, loader.Options{})
	defer adminLoader.Close()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userSvc, orgSvc, deviceSvc)
	userHandlers := handlers.NewUserHandlers(userSvc, mediaSvc)
	orgHandlers := handlers.NewOrganizationHandlers(orgSvc, mediaSvc)
	adminHandlers := handlers.NewAdminHandlers(adminLoader, emailSvc)
	billingHandlers := handlers.NewBillingHandlers(billingSvc)
	matchHandlers := handlers.NewMatchHandlers(matchSvc)
	deviceHandlers := handlers.NewDeviceHandlers(deviceSvc)
	calendarHandlers := handlers.NewCalendarHandlers(calendarSvc)
	notificationHandlers := handlers.NewNotificationHandlers(notificationSvc)
	auditHandlers := handlers.NewAuditLogsHandlers(auditRepo)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	versionMiddleware := middleware.NewVersionMiddleware()
	v1 := versionMiddleware.VersionRoute(e, "v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	// Protected routes
	auditMiddleware := middleware.NewAuditMiddleware(auditRepo)
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(cfg.JWT.Secret))
	protected.Use(auditMiddleware.AuditMutations())

	protected.GET("/me", authHandlers.Me)
	protected.POST("/me/avatar", userHandlers.UploadMyAvatar)

	// User routes
	protected.GET("/users", userHandlers.ListUsers, middleware.RequireAdmin())
	protected.POST("/users", userHandlers.CreateUser, middleware.RequireAdmin())
	protected.GET("/users/:id", userHandlers.GetUser)
	protected.PUT("/users/:id", userHandlers.UpdateUser)
	protected.DELETE("/users/:id", userHandlers.DeleteUser)
	protected.POST("/users/:id/avatar", userHandlers.UploadAvatar)

	// Organization routes
	protected.POST("/organizations", orgHandlers.CreateOrganization, middleware.RequirePlatformAdmin())
	protected.GET("/organizations", orgHandlers.ListOrganizations, middleware.RequirePlatformAdmin())
	protected.GET("/organizations/:id", orgHandlers.GetOrganization)
	protected.PUT("/organizations/:id", orgHandlers.UpdateOrganization)
	protected.DELETE("/organizations/:id", orgHandlers.DeleteOrganization, middleware.RequirePlatformAdmin())
	protected.POST("/organizations/:id/logo", orgHandlers.UploadLogo)

	// Billing routes
	protected.GET("/organizations/:id/billing", billingHandlers.GetBilling)
	protected.POST("/organizations/:id/billing/checkout", billingHandlers.Checkout)
	protected.GET("/organizations/:id/billing/portal", billingHandlers.Portal)

	// Match routes
	protected.POST("/matches", matchHandlers.CreateMatch, middleware.RequireAdmin())
	protected.GET("/matches", matchHandlers.ListMatches)
	protected.GET("/matches/:id", matchHandlers.GetMatch)
	protected.PUT("/matches/:id/status", matchHandlers.UpdateMatchStatus, middleware.RequireAdmin())
	protected.GET("/mentors/:id/capacity", matchHandlers.MentorCapacity)

	// Device routes
	protected.GET("/devices", deviceHandlers.ListDevices)
	protected.POST("/devices", deviceHandlers.RegisterDevice)
	protected.DELETE("/devices/:id", deviceHandlers.RevokeDevice)

	// Calendar routes
	protected.POST("/calendar/:provider/connect", calendarHandlers.Connect)
	protected.GET("/calendar/status", calendarHandlers.Status)
	protected.DELETE("/calendar/:provider", calendarHandlers.Disconnect)

	// Notification feed
	protected.GET("/notifications", notificationHandlers.ListNotifications)
	protected.DELETE("/notifications", notificationHandlers.ClearNotifications)

	// Platform admin console
	protected.GET("/admin/directory", adminHandlers.Directory, middleware.RequirePlatformAdmin())
	protected.POST("/admin/directory/refresh", adminHandlers.RefreshDirectory, middleware.RequirePlatformAdmin())
	protected.POST("/admin/email", adminHandlers.SendEmail, middleware.RequireAdmin())
	protected.GET("/admin/audit-logs", auditHandlers.ListAuditLogs, middleware.RequireAdmin())

	// Background jobs
	sweeper := jobs.NewTrialSweeper(orgRepo, userRepo, emailSvc, cacheSvc, logger)
	cleaner := jobs.NewDeviceCleaner(deviceSvc, logger)
	scheduler, err := background.NewJobScheduler(sweeper, cleaner, logger)
	if err != nil {
		logger.Fatal("Failed to initialize job scheduler", zap.Error(err))
	}
	scheduler.Start()

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("version", version))
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := scheduler.Stop(); err != nil {
		logger.Warn("Job scheduler shutdown failed", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Forced shutdown", zap.Error(err))
	}
}
