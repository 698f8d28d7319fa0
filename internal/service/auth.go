package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/dto"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/events"
	"github.com/photoshare/api/pkg/logger"
	"gorm.io/gorm"
)

// AuthService handles signup, login and token revocation.
type AuthService struct {
	users     UserStore
	hasher    *PasswordHasher
	tokens    *TokenService
	blacklist *BlacklistService
	publisher events.Publisher
	now       Clock

	// decoy is compared against when the login does not exist so both paths cost one bcrypt run.
	decoy string
}

func NewAuthService(users UserStore, hasher *PasswordHasher, tokens *TokenService, blacklist *BlacklistService, publisher events.Publisher, now Clock) *AuthService {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	decoy, _ := hasher.Hash("photoshare-decoy-password")
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		blacklist: blacklist,
		publisher: publisher,
		now:       now,
		decoy:     decoy,
	}
}

func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "AuthService.Signup")

	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, apperrors.ErrInvalidInput
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	var username *string
	if name := strings.TrimSpace(req.Username); name != "" {
		if _, err := s.users.GetByUsername(ctx, name); err == nil {
			return nil, apperrors.ErrUsernameExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		username = &name
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Username:       username,
		Email:          &email,
		FullName:       strings.TrimSpace(req.FullName),
		HashedPassword: hashed,
		Role:           constants.RoleUser,
		IsActive:       true,
		RegisteredAt:   s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent signup can slip past the lookups above.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailExists
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User signed up").
		Uint("user_id", user.ID).
		Log()
	publishAudit(ctx, s.publisher, events.NewEvent(constants.EventUserSignedUp, user.ID, user.Subject()))
	return user, nil
}

// Login accepts an email or a username. Unknown logins and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, login, password string) (*dto.TokenResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "AuthService.Login")
	login = strings.TrimSpace(login)

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user == nil {
		s.hasher.Verify(password, s.decoy)
		s.loginFailed(ctx, 0, login, "unknown login")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		s.loginFailed(ctx, user.ID, login, "wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.loginFailed(ctx, user.ID, login, "inactive account")
		return nil, apperrors.ErrAccountInactive
	}

	token, err := s.tokens.Issue(ctx, user.Subject(), user.ID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Login succeeded").
		Uint("user_id", user.ID).
		Log()
	publishAudit(ctx, s.publisher, events.NewEvent(constants.EventLoginSucceeded, user.ID, user.Subject()))

	return &dto.TokenResponse{AccessToken: token, TokenType: constants.TokenTypeBearer}, nil
}

// Logout revokes the token the caller authenticated with.
func (s *AuthService) Logout(ctx context.Context, user *model.User, token string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "AuthService.Logout")

	if err := s.blacklist.Revoke(ctx, token); err != nil {
		return err
	}
	publishAudit(ctx, s.publisher, events.NewEvent(constants.EventLoggedOut, user.ID, user.Subject()))
	return nil
}

// RevokeUserTokens revokes every unexpired token of the user and returns how many there were.
func (s *AuthService) RevokeUserTokens(ctx context.Context, userID uint) (int, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "AuthService.RevokeUserTokens")

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.ErrManagedNotFound
	}
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	n, err := s.blacklist.RevokeAllForUser(ctx, user.ID)
	if err != nil {
		return 0, err
	}

	publishAudit(ctx, s.publisher, events.NewEvent(constants.EventTokensRevoked, user.ID, user.Subject()).
		With("count", strconv.Itoa(n)))
	return n, nil
}

func (s *AuthService) loginFailed(ctx context.Context, userID uint, login, reason string) {
	logger.WarnWithContext(ctx, "Login failed").
		String("login", login).
		String("reason", reason).
		Log()
	publishAudit(ctx, s.publisher, events.NewEvent(constants.EventLoginFailed, userID, login).
		With("reason", reason))
}

func logAuditFailure(ctx context.Context, event events.Event, err error) {
	logger.WarnWithContext(ctx, "Failed to publish audit event").
		String("event_type", event.Type).
		Err(err).
		Log()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
