package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/photoshare/api/config"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/model"
	"github.com/photoshare/api/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the configured admin account when no user has its email yet.
// An existing account is left untouched, including its password and role.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg config.SecurityConfig) error {
	if !cfg.SeedAdmin {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	var existing model.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:          &email,
		FullName:       "Administrator",
		HashedPassword: string(hashed),
		Role:           constants.RoleAdmin,
		IsActive:       true,
		RegisteredAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("Seeded admin account", zap.String("email", email))
	return nil
}
