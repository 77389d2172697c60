package repositories

import (
	"fmt"

	"automarket_backend/internal/models"
	"automarket_backend/internal/repositories/plans"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.PaymentRequest{},
		&models.Vehicle{},
		&plans.OverrideRow{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(OnePendingIndexSQL).Error; err != nil {
		return fmt.Errorf("create pending index: %w", err)
	}
	return nil
}
