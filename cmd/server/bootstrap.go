package main

import (
	"os"

	"github.com/jviitor13/rodocheck/internal/config"
	"github.com/jviitor13/rodocheck/internal/handlers"
	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/jviitor13/rodocheck/internal/services"
	"github.com/jviitor13/rodocheck/internal/utils"
	"github.com/jviitor13/rodocheck/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg              *config.Config
	retentionService *services.RetentionService
	authHandler      *handlers.AuthHandler
	vehicleHandler   *handlers.VehicleHandler
	tireHandler      *handlers.TireHandler
	checklistHandler *handlers.ChecklistHandler
	aiHandler        *handlers.AIHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedAIConfigurations(&cfg.AI); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed AI configurations")
	}

	db := models.GetDB()

	// Seed the first admin account
	authService := services.NewAuthService(db, &cfg.JWT, &cfg.Google)
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" {
		adminEmail = "admin@rodocheck.com"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}
	if err := authService.CreateAdminIfNotExists(adminEmail, adminPassword); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	// Usage log retention
	retentionService := services.NewRetentionService(services.NewAIUsageService(db), cfg.AI.UsageRetentionDays)
	retentionService.StartScheduler()

	return &appServices{
		cfg:              cfg,
		retentionService: retentionService,
		authHandler:      handlers.NewAuthHandler(db, cfg),
		vehicleHandler:   handlers.NewVehicleHandler(db),
		tireHandler:      handlers.NewTireHandler(db),
		checklistHandler: handlers.NewChecklistHandler(db, cfg),
		aiHandler:        handlers.NewAIHandler(db, cfg),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.retentionService.StopScheduler()
	logger.Info().Msg("All schedulers stopped")
}
