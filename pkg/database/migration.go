package database

import (
	"fmt"

	"github.com/photoshare/api/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables for every model, then the extra indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Token{},
		&model.BlacklistedToken{},
		&model.Tag{},
		&model.Photo{},
		&model.Rating{},
		&model.Comment{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return EnsureIndexes(db)
}
