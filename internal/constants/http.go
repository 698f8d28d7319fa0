package constants

// HTTP Header Names
const (
	HeaderContentType     = "Content-Type"
	HeaderAuthorization   = "Authorization"
	HeaderUserAgent       = "User-Agent"
	HeaderXRequestID      = "X-Request-ID"
	HeaderWWWAuthenticate = "WWW-Authenticate"
)

// AuthSchemeBearer is the only accepted Authorization scheme.
const AuthSchemeBearer = "Bearer"

// Common HTTP Error Messages
const (
	MsgUnauthorized       = "Unauthorized"
	MsgForbidden          = "Access forbidden"
	MsgNotFound           = "Resource not found"
	MsgBadRequest         = "Invalid request"
	MsgValidationFailed   = "Validation failed"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgTooManyRequests    = "Rate limit exceeded"
)

// HTTP Success Messages
const (
	MsgLoggedOut       = "Logout successful"
	MsgPasswordChanged = "Password changed, please log in again"
	MsgTokensRevoked   = "Tokens revoked"
)
