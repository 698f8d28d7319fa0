package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/photoshare/api/internal/model"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UserRepository.Create")

	start := time.Now()
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.EmailValue()).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "User created").
		Uint("user_id", user.ID).
		Duration(time.Since(start)).
		Log()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "UserRepository.GetByID")
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "UserRepository.GetByEmail")
	return r.first(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "UserRepository.GetByUsername")
	return r.first(ctx, "username = ?", username)
}

// GetByLogin matches either the email (case-insensitive) or the username.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "UserRepository.GetByLogin")
	return r.first(ctx, "email = ? OR username = ?", strings.ToLower(login), login)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to get user").
				Duration(time.Since(start)).
				Err(err).
				Log()
		}
		return nil, err
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		Uint("user_id", user.ID).
		Duration(time.Since(start)).
		Log()
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int, search string) ([]model.User, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "UserRepository.List")

	start := time.Now()
	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).Model(&model.User{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("email ILIKE ? OR username ILIKE ? OR full_name ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count users").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch users").
			Int("limit", limit).
			Int("offset", offset).
			String("search", search).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Users retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(users)).
		Duration(time.Since(start)).
		Log()
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UserRepository.Update")

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return err
	}
	return nil
}
