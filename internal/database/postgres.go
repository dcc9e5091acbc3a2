package database

import (
	"fmt"
	"log"

	"github.com/condoflow/backend/internal/config"
	"github.com/condoflow/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	log.Println("Database connected successfully")
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Condominium{},
		&models.Resident{},
		&models.Occurrence{},
		// Messaging
		&models.ProviderConfig{},
		&models.MessageTemplate{},
		&models.DeliveryAttempt{},
		&models.Notification{},
		// Access
		&models.AccessAttempt{},
		&models.AccountRole{},
		// Jobs
		&models.JobControl{},
		&models.JobExecution{},
		// Webhooks
		&models.PaymentWebhookEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

func Seed(db *gorm.DB) error {
	log.Println("Seeding database...")

	roles := []models.Role{
		{Name: "Super Admin", Code: "super_admin", Description: "Platform administrator", IsSystem: true},
		{Name: "Manager", Code: "manager", Description: "Condominium manager (síndico)", IsSystem: true},
		{Name: "Doorkeeper", Code: "doorkeeper", Description: "Front desk staff", IsSystem: true},
	}
	for _, role := range roles {
		var existing models.Role
		err := db.Where("code = ?", role.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			role.IsActive = true
			if err := db.Create(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", role.Code, err)
			}
		} else if err != nil {
			return err
		}
	}

	for _, tpl := range models.DefaultTemplates() {
		var existing models.MessageTemplate
		err := db.Where("slug = ?", tpl.Slug).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&tpl).Error; err != nil {
				return fmt.Errorf("failed to seed template %s: %w", tpl.Slug, err)
			}
		} else if err != nil {
			return err
		}
	}

	log.Println("Database seeding completed")
	return nil
}
