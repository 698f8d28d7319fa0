package service

import (
	"context"
	"errors"
	"slices"

	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	"gorm.io/gorm"
)

// TokenVerifier is satisfied by *TokenService.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// AccessGate turns a bearer token into an authorized user.
type AccessGate struct {
	verifier TokenVerifier
	users    UserStore
}

func NewAccessGate(verifier TokenVerifier, users UserStore) *AccessGate {
	return &AccessGate{verifier: verifier, users: users}
}

// CurrentUser verifies the token and loads the user it was issued for.
func (g *AccessGate) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetByLogin(ctx, claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	// The subject may have been reassigned to another account since issue.
	if claims.UserID != 0 && claims.UserID != user.ID {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// ActiveUser rejects deactivated accounts.
func (g *AccessGate) ActiveUser(user *model.User) (*model.User, error) {
	if !user.IsActive {
		return nil, apperrors.ErrInactiveUser
	}
	return user, nil
}

// Authenticate is CurrentUser followed by ActiveUser.
func (g *AccessGate) Authenticate(ctx context.Context, token string) (*model.User, error) {
	user, err := g.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return g.ActiveUser(user)
}

// RequireRole allows the user through only when their role is one of allowed.
func RequireRole(user *model.User, allowed ...string) (*model.User, error) {
	if user == nil || !slices.Contains(allowed, user.Role) {
		return nil, apperrors.ErrInsufficientRole
	}
	return user, nil
}
