package server

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"groundwork/internal/constants"
	"groundwork/internal/logger"
)

// Chain applies middlewares in order. The first middleware is the outermost (runs first).
// Usage: Chain(handler, requestID, securityHeaders, authenticate)
// Request flow: requestID → securityHeaders → authenticate → handler
func Chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	// Apply in reverse so the first middleware in the list is outermost
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// SecurityHeaders adds standard security headers to every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// RequestID sets a unique request ID on the response header.
// If the incoming request already has an X-Request-ID header, it is preserved.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

// CORS handles cross-origin requests for the configured origins.
// An empty allowlist disables CORS entirely: no headers are emitted and
// preflight requests pass through to the mux (which will 404 them).
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAny := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAny = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(constants.HeaderOrigin)
			if origin != "" && (allowAny || allowed[origin]) {
				w.Header().Set(constants.HeaderACAllowOrigin, origin)
				w.Header().Set(constants.HeaderACAllowCreds, "true")
				w.Header().Add(constants.HeaderVary, constants.HeaderOrigin)

				if r.Method == http.MethodOptions {
					w.Header().Set(constants.HeaderACAllowMethods, constants.CORSAllowedMethods)
					w.Header().Set(constants.HeaderACAllowHeaders, constants.CORSAllowedHeaders)
					w.Header().Set(constants.HeaderACMaxAge, constants.CORSPreflightMaxAgeSec)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Recover converts handler panics into 500 responses instead of dropping the
// connection. The stack trace goes to the log, never to the client.
func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic in %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					WriteError(w, http.StatusInternalServerError, "internal server error", constants.ErrCodeInternalError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP address from the request.
// It checks proxy headers first, then falls back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (reverse proxy)
	if xff := r.Header.Get(constants.HeaderForwardedFor); xff != "" {
		// Take the first IP in the chain (original client)
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get(constants.HeaderRealIP); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	// Remove port if present
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
