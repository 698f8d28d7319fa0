package service

import (
	"context"
	"testing"

	"github.com/photoshare/api/internal/constants"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessGate_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice@example.com", constants.RoleUser, true)

	token := f.login(t, "alice@example.com")
	user, err := f.gate.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
}

func TestAccessGate_UnknownSubject(t *testing.T) {
	f := newFixture(t)
	token, err := f.tokenSvc.Issue(context.Background(), "ghost@example.com", 99)
	require.NoError(t, err)

	_, err = f.gate.CurrentUser(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAccessGate_SubjectNowBelongsToSomeoneElse(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice@example.com", constants.RoleUser, true)
	token, err := f.tokenSvc.Issue(context.Background(), "alice@example.com", 42)
	require.NoError(t, err)

	_, err = f.gate.CurrentUser(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAccessGate_InactiveUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice@example.com", constants.RoleUser, true)
	token := f.login(t, "alice@example.com")

	alice.IsActive = false
	require.NoError(t, f.users.Update(ctx, alice))

	user, err := f.gate.CurrentUser(ctx, token)
	require.NoError(t, err)
	_, err = f.gate.ActiveUser(user)
	assert.ErrorIs(t, err, apperrors.ErrInactiveUser)

	_, err = f.gate.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrInactiveUser)
}

func TestAccessGate_VerificationComesFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice@example.com", constants.RoleUser, true)
	token := f.login(t, "alice@example.com")

	alice.IsActive = false
	require.NoError(t, f.users.Update(ctx, alice))
	require.NoError(t, f.blacklistSvc.Revoke(ctx, token))

	_, err := f.gate.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role    string
		allowed []string
		ok      bool
	}{
		{constants.RoleUser, []string{constants.RoleAdmin, constants.RoleModerator}, false},
		{constants.RoleModerator, []string{constants.RoleAdmin, constants.RoleModerator}, true},
		{constants.RoleAdmin, []string{constants.RoleAdmin, constants.RoleModerator}, true},
		{constants.RoleModerator, []string{constants.RoleAdmin}, false},
		{constants.RoleAdmin, nil, false},
		{"", []string{constants.RoleUser}, false},
	}
	for _, tt := range tests {
		user := &model.User{ID: 1, Role: tt.role}
		got, err := RequireRole(user, tt.allowed...)
		if tt.ok {
			assert.NoError(t, err, tt.role)
			assert.Same(t, user, got)
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInsufficientRole, tt.role)
			assert.Nil(t, got)
		}
	}

	_, err := RequireRole(nil, constants.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientRole)
}
