package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive account at login", ErrAccountInactive, http.StatusUnauthorized},
		{"invalid signature", ErrInvalidSignature, http.StatusUnauthorized},
		{"expired", ErrTokenExpired, http.StatusUnauthorized},
		{"revoked", ErrTokenRevoked, http.StatusUnauthorized},
		{"user not found", ErrUserNotFound, http.StatusUnauthorized},
		{"inactive user", ErrInactiveUser, http.StatusBadRequest},
		{"insufficient role", ErrInsufficientRole, http.StatusForbidden},
		{"not owner", ErrNotOwner, http.StatusForbidden},
		{"comment not found", ErrCommentNotFound, http.StatusNotFound},
		{"email exists", ErrEmailExists, http.StatusConflict},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"wrapped internal", WrapError(ErrInternal, errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"fmt wrapped domain", fmt.Errorf("ctx: %w", ErrTokenRevoked), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestDomainError_IsMatchesWrappedCopies(t *testing.T) {
	cause := errors.New("signature is invalid")
	err := WrapError(ErrInvalidSignature, cause)

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, "invalid token: signature is invalid", err.Error())
}

func TestIsTokenRejection(t *testing.T) {
	assert.True(t, IsTokenRejection(ErrTokenExpired))
	assert.True(t, IsTokenRejection(WrapError(ErrInvalidSignature, errors.New("x"))))
	assert.False(t, IsTokenRejection(ErrInactiveUser))
	assert.False(t, IsTokenRejection(errors.New("x")))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "", GetErrorMessage(nil))
	assert.Equal(t, "inactive user", GetErrorMessage(ErrInactiveUser))
	assert.Equal(t, "boom", GetErrorMessage(errors.New("boom")))
}
