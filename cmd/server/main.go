package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/viptalca/viptalca-backend/config"
	"github.com/viptalca/viptalca-backend/internal/app/controller"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/internal/app/service"
	"github.com/viptalca/viptalca-backend/internal/db"
	"github.com/viptalca/viptalca-backend/internal/middleware"
	"github.com/viptalca/viptalca-backend/internal/router"
	"github.com/viptalca/viptalca-backend/internal/scheduler"
	"github.com/viptalca/viptalca-backend/pkg/email"
	"github.com/viptalca/viptalca-backend/pkg/email/smtp"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"github.com/viptalca/viptalca-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting VIP Talca Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist; the server still runs without it.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, logout token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize email sender
	var sender email.Sender
	if cfg.Email.Enabled {
		sender, err = smtp.NewSMTPSender(cfg.Email.From, cfg.Email.Password, cfg.Email.Host, cfg.Email.Port)
		if err != nil {
			logger.Fatal("Failed to initialize SMTP sender", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	tiendaRepo := repository.NewTiendaRepository(db.GetDB())
	asociacionRepo := repository.NewClienteTiendaRepository(db.GetDB())
	vipRepo := repository.NewVipRegistrationRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// Initialize services
	emailService := service.NewEmailService(sender, cfg.Email)
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	passwordResetService := service.NewPasswordResetService(resetRepo, userRepo, emailService, cfg.App.BaseURL)
	tiendaService := service.NewTiendaService(tiendaRepo)
	clienteService := service.NewClienteService(userRepo)
	asociacionService := service.NewAsociacionService(asociacionRepo, userRepo, tiendaRepo)
	vipService := service.NewVipRegistrationService(db.GetDB(), vipRepo, tiendaRepo, emailService, cfg.App.BaseURL)
	exportService := service.NewExportService(userRepo, asociacionRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, passwordResetService)
	tiendaController := controller.NewTiendaController(tiendaService, asociacionService)
	clienteController := controller.NewClienteController(clienteService, asociacionService)
	asociacionController := controller.NewAsociacionController(asociacionService)
	vipController := controller.NewVipRegistrationController(vipService)
	exportController := controller.NewExportController(exportService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start nightly token cleanup
	cleanupScheduler := scheduler.NewCleanupScheduler(resetRepo, vipRepo)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		tiendaController,
		clienteController,
		asociacionController,
		vipController,
		exportController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
