package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on Code so wrapped copies still compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Credentials and accounts
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid credentials")
	ErrAccountInactive    = NewDomainError("ACCOUNT_INACTIVE", "account is inactive")
	ErrEmailExists        = NewDomainError("EMAIL_EXISTS", "email already exists")
	ErrUsernameExists     = NewDomainError("USERNAME_EXISTS", "username already exists")
	ErrIncorrectPassword  = NewDomainError("INCORRECT_PASSWORD", "current password is incorrect")

	// Token verification. All of these surface as 401 so callers cannot tell them apart.
	ErrUnauthorized     = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrInvalidSignature = NewDomainError("INVALID_SIGNATURE", "invalid token")
	ErrTokenExpired     = NewDomainError("TOKEN_EXPIRED", "token has expired")
	ErrTokenRevoked     = NewDomainError("TOKEN_REVOKED", "token has been revoked")

	// Access control
	ErrUserNotFound     = NewDomainError("USER_NOT_FOUND", "could not validate credentials")
	ErrInactiveUser     = NewDomainError("INACTIVE_USER", "inactive user")
	ErrInsufficientRole = NewDomainError("INSUFFICIENT_ROLE", "operation not permitted")
	ErrSelfModification = NewDomainError("SELF_MODIFICATION", "admins cannot change their own role or activation")
	ErrNotOwner         = NewDomainError("NOT_OWNER", "only the owner can modify this resource")
	ErrRateOwnPhoto     = NewDomainError("NOT_OWNER", "owners cannot rate their own photo")

	// Resources
	ErrNotFound        = NewDomainError("NOT_FOUND", "resource not found")
	ErrPhotoNotFound   = NewDomainError("NOT_FOUND", "photo not found")
	ErrCommentNotFound = NewDomainError("NOT_FOUND", "comment not found")
	ErrManagedNotFound = NewDomainError("NOT_FOUND", "user not found")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "invalid input")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "INACTIVE_USER":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "ACCOUNT_INACTIVE",
		"INVALID_SIGNATURE", "TOKEN_EXPIRED", "TOKEN_REVOKED",
		"USER_NOT_FOUND", "INCORRECT_PASSWORD":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "INSUFFICIENT_ROLE", "SELF_MODIFICATION", "NOT_OWNER":
		return http.StatusForbidden

	// 404 Not Found
	case "NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS", "USERNAME_EXISTS":
		return http.StatusConflict

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// IsTokenRejection reports whether err is one of the bearer token failures.
func IsTokenRejection(err error) bool {
	return errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked) ||
		errors.Is(err, ErrUnauthorized)
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
