package constants

import "time"

// Auth Error Codes
const (
	ErrCodeAuthRequired           = "AUTH_REQUIRED"
	ErrCodeAuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	ErrCodeAuthForbidden          = "AUTH_FORBIDDEN"
	ErrCodeAuthUserNotFound       = "AUTH_USER_NOT_FOUND"
	ErrCodeAuthUserExists         = "AUTH_USER_ALREADY_EXISTS"
	ErrCodeAuthUserDisabled       = "AUTH_USER_DISABLED"
	ErrCodeAuthSessionExpired     = "AUTH_SESSION_EXPIRED"
	ErrCodeAuthAccountLocked      = "AUTH_ACCOUNT_LOCKED"
	ErrCodeAuthPasswordTooWeak    = "AUTH_PASSWORD_TOO_WEAK"
	ErrCodeAuthEmailInvalid       = "AUTH_EMAIL_INVALID"
	ErrCodeAuthEmailNotVerified   = "AUTH_EMAIL_NOT_VERIFIED"
	ErrCodeAuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	ErrCodeAuthBootstrapProtected = "AUTH_BOOTSTRAP_PROTECTED"
)

// Auth HTTP Headers
const (
	HeaderAuthorization = "Authorization"
	HeaderXAPIKey       = "X-API-Key"
	AuthBearerPrefix    = "Bearer "
)

// Auth Token Prefixes (for disambiguation without a DB lookup)
const (
	APIKeyPrefix       = "gwk_"
	SessionTokenPrefix = "gws_"
)

// Auth Configuration
const (
	AuthBcryptCost          = 12
	AuthAPIKeyRandomBytes   = 48 // 384 bits of entropy
	AuthSessionTokenBytes   = 32 // 256 bits of entropy
	AuthTokenPrefixLength   = 8  // visible prefix for identification in logs
	AuthMinPasswordLength   = 10
	AuthMaxPasswordLength   = 128
	AuthMaxLoginAttempts    = 5
	AuthLockoutDurationMins = 15
	AuthBootstrapEmail      = "admin@localhost"
	AuthMaxEmailLength      = 254
	AuthPasswordGenLength   = 24 // chars for auto-generated passwords
)

// Auth Session Configuration
const (
	AuthSessionDuration        = 24 * time.Hour
	AuthSessionCleanupInterval = 30 * time.Minute
)

// Email token purposes (JWT claims for mailed links)
const (
	EmailTokenPurposeVerify = "verify_email"
	EmailTokenPurposeReset  = "reset_password"
	EmailVerifyTokenTTL     = 24 * time.Hour
	PasswordResetTokenTTL   = time.Hour
)
