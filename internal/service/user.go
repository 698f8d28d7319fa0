package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/dto"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/events"
	"github.com/photoshare/api/pkg/logger"
	"gorm.io/gorm"
)

// UserService is the user directory behind /users.
type UserService struct {
	users     UserStore
	hasher    *PasswordHasher
	blacklist *BlacklistService
	publisher events.Publisher
}

func NewUserService(users UserStore, hasher *PasswordHasher, blacklist *BlacklistService, publisher events.Publisher) *UserService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &UserService{users: users, hasher: hasher, blacklist: blacklist, publisher: publisher}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UserService.GetByID")

	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrManagedNotFound
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get user by ID").
			Uint("target_user_id", id).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, params constants.PaginationParams) ([]model.User, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UserService.List")

	users, total, err := s.users.List(ctx, params.Limit, params.Offset, strings.TrimSpace(params.Search))
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list users").
			Err(err).
			Log()
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return users, total, nil
}

// UpdateProfile changes the username and full name of the caller. Nil fields are left alone.
func (s *UserService) UpdateProfile(ctx context.Context, user *model.User, req dto.UpdateProfileRequest) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UserService.UpdateProfile")

	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name != user.UsernameValue() {
			existing, err := s.users.GetByUsername(ctx, name)
			if err == nil && existing.ID != user.ID {
				return nil, apperrors.ErrUsernameExists
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			user.Username = &name
		}
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword requires the current password and revokes every token of the user on success.
func (s *UserService) ChangePassword(ctx context.Context, user *model.User, req dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, "service", "UserService.ChangePassword")

	if !s.hasher.Verify(req.CurrentPassword, user.HashedPassword) {
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	user.HashedPassword = hashed
	if err := s.save(ctx, user); err != nil {
		return err
	}

	n, err := s.blacklist.RevokeAllForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	publishAudit(ctx, s.publisher, events.NewEvent(constants.EventTokensRevoked, user.ID, user.Subject()).
		With("count", strconv.Itoa(n)).
		With("reason", "password_changed"))
	return nil
}

// SetRole changes another user's role. Admins cannot change their own.
func (s *UserService) SetRole(ctx context.Context, actor *model.User, id uint, role string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UserService.SetRole")

	target, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !validRole(role) {
		return nil, apperrors.ErrInvalidInput
	}

	previous := target.Role
	target.Role = role
	if err := s.save(ctx, target); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User role changed").
		Uint("target_user_id", target.ID).
		String("from", previous).
		String("to", role).
		Log()
	publishAudit(ctx, s.publisher, events.NewEvent(constants.EventRoleChanged, target.ID, target.Subject()).
		With("from", previous).
		With("to", role).
		With("actor_id", strconv.FormatUint(uint64(actor.ID), 10)))
	return target, nil
}

// SetActive flips the activity flag of another user. Existing tokens are left alone;
// the gate rejects them while the account is inactive.
func (s *UserService) SetActive(ctx context.Context, actor *model.User, id uint, active bool) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UserService.SetActive")

	target, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	target.IsActive = active
	if err := s.save(ctx, target); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User activation changed").
		Uint("target_user_id", target.ID).
		Bool("is_active", active).
		Log()
	publishAudit(ctx, s.publisher, events.NewEvent(constants.EventActiveChanged, target.ID, target.Subject()).
		With("is_active", strconv.FormatBool(active)).
		With("actor_id", strconv.FormatUint(uint64(actor.ID), 10)))
	return target, nil
}

func (s *UserService) managed(ctx context.Context, actor *model.User, id uint) (*model.User, error) {
	if actor.ID == id {
		return nil, apperrors.ErrSelfModification
	}
	return s.GetByID(ctx, id)
}

func (s *UserService) save(ctx context.Context, user *model.User) error {
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrUsernameExists
		}
		logger.ErrorWithContext(ctx, "Failed to update user").
			Uint("target_user_id", user.ID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

func validRole(role string) bool {
	switch role {
	case constants.RoleUser, constants.RoleModerator, constants.RoleAdmin:
		return true
	}
	return false
}
