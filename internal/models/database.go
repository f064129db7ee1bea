package models

import (
	"fmt"

	"github.com/jviitor13/rodocheck/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&UserProfile{},
		&Vehicle{},
		&Tire{},
		&ChecklistTemplate{},
		&CompletedChecklist{},
		&AssistantSession{},
		&AssistantMessage{},
		&DamageAssessment{},
		&TireAnalysis{},
		&AIConfiguration{},
		&AIUsageLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedAIConfigurations records the configured AI services for the admin
// configurations listing. Keys are stored masked only.
func SeedAIConfigurations(cfg *config.AIConfig) error {
	entries := []AIConfiguration{}
	if cfg.OpenAIAPIKey != "" {
		entries = append(entries, AIConfiguration{
			ServiceName: "openai",
			APIKeyMask:  MaskAPIKey(cfg.OpenAIAPIKey),
			ModelName:   cfg.OpenAIModel,
			IsActive:    true,
		})
	}
	if cfg.GoogleAIAPIKey != "" {
		entries = append(entries, AIConfiguration{
			ServiceName: "google_ai",
			APIKeyMask:  MaskAPIKey(cfg.GoogleAIAPIKey),
			ModelName:   cfg.GoogleAIModel,
			IsActive:    true,
		})
	}

	for _, entry := range entries {
		var existing AIConfiguration
		err := DB.Where("service_name = ?", entry.ServiceName).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := DB.Create(&entry).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		existing.APIKeyMask = entry.APIKeyMask
		existing.ModelName = entry.ModelName
		existing.IsActive = true
		if err := DB.Save(&existing).Error; err != nil {
			return err
		}
	}
	return nil
}
