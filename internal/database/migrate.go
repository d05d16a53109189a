package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/carefleet/carefleet-backend/internal/domain"
)

// Migrate brings the schema up to date for all registered models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Ambulance{},
		&domain.Bed{},
		&domain.Staff{},
		&domain.Assignment{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
