package repository

import (
	"context"
	"time"

	"github.com/photoshare/api/internal/model"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.Token) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "TokenRepository.Create")

	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to persist issued token").
			Uint("user_id", token.UserID).
			Err(err).
			Log()
		return err
	}
	return nil
}

// ListActiveByUser returns the user's tokens that have not expired at now.
func (r *TokenRepository) ListActiveByUser(ctx context.Context, userID uint, now time.Time) ([]model.Token, error) {
	var tokens []model.Token
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("id").
		Find(&tokens).Error
	return tokens, err
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.Token{})
	return result.RowsAffected, result.Error
}

type BlacklistRepository struct {
	db *gorm.DB
}

func NewBlacklistRepository(db *gorm.DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

// Add inserts the token; an existing row is left untouched.
func (r *BlacklistRepository) Add(ctx context.Context, token string, at time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "BlacklistRepository.Add")

	entry := model.BlacklistedToken{Token: token, BlacklistedOn: at}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to blacklist token").
			Err(err).
			Log()
	}
	return err
}

func (r *BlacklistRepository) Exists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.BlacklistedToken{}).
		Where("token = ?", token).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// DeleteForExpiredTokens removes entries whose issued token has already expired.
func (r *BlacklistRepository) DeleteForExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	expired := r.db.Model(&model.Token{}).Select("token").Where("expires_at <= ?", now)
	result := r.db.WithContext(ctx).
		Where("token IN (?)", expired).
		Delete(&model.BlacklistedToken{})
	return result.RowsAffected, result.Error
}
