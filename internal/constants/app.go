package constants

// Application Information
const (
	AppName    = "PhotoShare API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// User roles, ordered by privilege.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// TokenTypeBearer is the token_type returned by /login.
const TokenTypeBearer = "bearer"

// Cache Key Prefixes
const (
	CacheKeyPrefix    = "photoshare:"
	CacheKeyBlacklist = CacheKeyPrefix + "blacklist:"
)

// Audit event types
const (
	EventUserSignedUp   = "user.signed_up"
	EventLoginSucceeded = "auth.login_succeeded"
	EventLoginFailed    = "auth.login_failed"
	EventLoggedOut      = "auth.logged_out"
	EventTokensRevoked  = "auth.tokens_revoked"
	EventRoleChanged    = "user.role_changed"
	EventActiveChanged  = "user.active_changed"
)
