package server

import (
	"context"
	"net/http"
	"time"

	"groundwork/internal/auth"
	"groundwork/internal/constants"
	"groundwork/internal/logger"
	"groundwork/internal/version"
)

// Server wraps the HTTP server. Signal handling and exit live in the
// lifecycle coordinator; the server only knows how to serve and how to stop
// accepting.
type Server struct {
	httpServer  *http.Server
	app         *App
	logger      *logger.Logger
	rateLimiter *ipRateLimiter
}

// NewServer creates a new HTTP server
func NewServer(app *App, addr string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		app:         app,
		logger:      app.Logger,
		rateLimiter: newIPRateLimiter(app.Config.RateLimit.PerSecond, app.Config.RateLimit.Burst),
	}

	// Register routes
	s.registerRoutes(mux)

	// Build middleware chain:
	// RequestID → SecurityHeaders → CORS → RateLimit → GzipCompress → Recover → Authenticate → handler
	authMW := auth.NewMiddleware(app.AuthStore, app.Logger)
	handler := Chain(mux,
		RequestID,
		SecurityHeaders,
		CORS(app.Config.Server.AllowedOrigins),
		s.rateLimiter.Middleware,
		GzipCompress,
		Recover(app.Logger),
		authMW.Authenticate,
	)

	// Start the periodic expired-session cleanup
	app.Services.Auth.Start(constants.AuthSessionCleanupInterval)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  constants.HTTPReadTimeout,
		WriteTimeout: constants.HTTPWriteTimeout,
		IdleTimeout:  constants.HTTPIdleTimeout,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health
	mux.HandleFunc("/api/health", s.handleHealth)

	// Auth routes
	mux.HandleFunc("/api/auth/", s.handleAuthRoutes)

	// Notes routes
	mux.HandleFunc("/api/notes", s.handleNotes)
	mux.HandleFunc("/api/notes/", s.handleNoteByID)

	// Audit log routes
	mux.HandleFunc("/api/audit", s.handleAuditQuery)
	mux.HandleFunc("/api/audit/actions", s.handleAuditActions)
}

// Start runs the server and blocks until the listener closes.
// Returns nil after a graceful shutdown, or the listen error otherwise.
func (s *Server) Start() error {
	s.logger.Info("Server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StopAccepting closes the listener, drains in-flight requests until ctx
// expires, and stops the server's background goroutines. After it returns no
// request is touching the database.
func (s *Server) StopAccepting(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	// Stop auth service cleanup goroutine
	s.app.Services.Auth.Stop()

	// Stop audit logger cleanup goroutine
	if s.app.AuditLogger != nil {
		s.app.AuditLogger.Stop()
	}

	// Stop rate limiter sweeper goroutine
	s.rateLimiter.Stop()

	return err
}

// Handler returns the HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// GET /api/health — liveness probe with version and uptime
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"status":      "ok",
		"name":        constants.AppDisplayName,
		"version":     version.Version,
		"uptime_secs": int64(time.Since(s.app.StartedAt).Seconds()),
	})
}
