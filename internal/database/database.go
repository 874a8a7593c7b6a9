package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/netsentry/netsentry/internal/models"
)

// Open bootstraps a SQLite database using the provided filesystem path.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	return db, nil
}

// Migrate applies the schema for all persisted local state.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Setting{}, &models.NotificationProvider{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}
