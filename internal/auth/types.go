// Package auth provides account management and request authentication for
// the groundwork service: bcrypt password verification, opaque hashed session
// tokens and API keys, signed email-link tokens, and the HTTP middleware that
// resolves an identity onto the request context.
package auth

// User represents an account in the system.
// Sensitive fields (password hash, API key hash) are excluded from JSON serialization.
type User struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`
	IsActive      bool   `json:"is_active"`
	IsBootstrap   bool   `json:"is_bootstrap"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`

	FailedLoginCount int    `json:"-"`
	LockedUntil      *int64 `json:"-"`
}

// UserWithSensitive includes password hash and API key fields for internal use.
// These fields must never be serialized to JSON or returned in API responses.
type UserWithSensitive struct {
	User
	PasswordHash string `json:"-"`
	APIKeyHash   string `json:"-"`
	APIKeyPrefix string `json:"api_key_prefix,omitempty"`
}

// Session represents an active login session (opaque token stored hashed).
type Session struct {
	TokenHash    string `json:"-"`
	TokenPrefix  string `json:"token_prefix"`
	UserID       int64  `json:"user_id"`
	IPAddress    string `json:"ip_address"`
	UserAgent    string `json:"user_agent,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	ExpiresAt    int64  `json:"expires_at"`
	LastActiveAt int64  `json:"last_active_at"`
}

// Identity represents the resolved identity of an authenticated request.
// It is attached to the request context by the auth middleware.
type Identity struct {
	User   *User  `json:"user"`
	Method string `json:"method"` // "session", "api_key"
}
