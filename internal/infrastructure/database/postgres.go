package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KEBA-mall/sto-backend/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate performs database migration for all required tables. The
// casbin_rules table is created by the GORM adapter when the enforcer
// is constructed.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBAccount{}, &repositories.DBVerification{}); err != nil {
		return fmt.Errorf("failed to migrate auth tables: %w", err)
	}
	return nil
}
