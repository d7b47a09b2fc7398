package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"groundwork/internal/constants"
	"groundwork/internal/logger"
)

// contextKey is an unexported type for context keys in this package.
type contextKey int

const (
	identityContextKey contextKey = iota
)

// Middleware provides HTTP middleware for authentication.
type Middleware struct {
	store  *Store
	logger *logger.Logger
}

// NewMiddleware creates a new auth middleware backed by the given store.
func NewMiddleware(store *Store, log *logger.Logger) *Middleware {
	return &Middleware{store: store, logger: log}
}

// Authenticate extracts and validates the identity from the request and sets
// it on the context. It always calls next — it does not block unauthenticated
// requests. Individual handlers decide whether auth is required.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := m.resolveIdentity(r)
		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveIdentity attempts to extract a valid identity from the request.
// Tries the X-API-Key header first, then an Authorization bearer token.
func (m *Middleware) resolveIdentity(r *http.Request) *Identity {
	if apiKey := r.Header.Get(constants.HeaderXAPIKey); apiKey != "" {
		if identity := m.resolveAPIKey(apiKey); identity != nil {
			return identity
		}
	}

	if authHeader := r.Header.Get(constants.HeaderAuthorization); strings.HasPrefix(authHeader, constants.AuthBearerPrefix) {
		token := strings.TrimPrefix(authHeader, constants.AuthBearerPrefix)
		switch {
		case IsAPIKey(token):
			if identity := m.resolveAPIKey(token); identity != nil {
				return identity
			}
		case IsSessionToken(token):
			if identity := m.resolveSession(token); identity != nil {
				return identity
			}
		}
	}

	return nil
}

// resolveAPIKey looks up a user by their API key hash.
func (m *Middleware) resolveAPIKey(apiKey string) *Identity {
	user, err := m.store.GetUserByAPIKeyHash(HashToken(apiKey))
	if err != nil {
		m.logger.Debug("auth: API key lookup failed: %v", err)
		return nil
	}
	if user == nil {
		return nil
	}

	if !user.IsActive {
		m.logger.Debug("auth: API key user %s is inactive", user.Email)
		return nil
	}

	if user.LockedUntil != nil && time.Now().Unix() < *user.LockedUntil {
		m.logger.Debug("auth: API key user %s is locked", user.Email)
		return nil
	}

	return &Identity{User: &user.User, Method: "api_key"}
}

// resolveSession looks up a user by their session token hash.
func (m *Middleware) resolveSession(token string) *Identity {
	tokenHash := HashToken(token)

	session, user, err := m.store.GetSessionByTokenHash(tokenHash)
	if err != nil {
		m.logger.Debug("auth: session lookup failed: %v", err)
		return nil
	}
	if session == nil || user == nil {
		return nil
	}

	if !user.IsActive {
		m.logger.Debug("auth: session user %s is inactive", user.Email)
		return nil
	}

	if err := m.store.TouchSession(tokenHash); err != nil {
		m.logger.Warn("auth: failed to touch session: %v", err)
	}

	return &Identity{User: user, Method: "session"}
}

// GetIdentity retrieves the authenticated identity from the request context.
// Returns nil if no identity is present (unauthenticated request).
func GetIdentity(r *http.Request) *Identity {
	identity, _ := r.Context().Value(identityContextKey).(*Identity)
	return identity
}

// RequireAuth extracts the identity and reports whether one is present.
// Handlers use this to enforce authentication:
//
//	identity, ok := auth.RequireAuth(r)
//	if !ok { WriteError(w, 401, ...); return }
func RequireAuth(r *http.Request) (*Identity, bool) {
	identity := GetIdentity(r)
	if identity == nil || identity.User == nil {
		return nil, false
	}
	return identity, true
}

// WithIdentity returns a request whose context carries the given identity.
// Test helper for exercising handlers without the middleware.
func WithIdentity(r *http.Request, identity *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityContextKey, identity))
}
