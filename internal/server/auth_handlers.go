package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"groundwork/internal/audit"
	"groundwork/internal/auth"
	"groundwork/internal/constants"
	"groundwork/internal/services"
)

// =============================================================================
// Auth Helpers
// =============================================================================

// requireAuth extracts the authenticated identity from the request.
// Returns nil and writes a 401 response if not authenticated.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) *auth.Identity {
	identity, ok := auth.RequireAuth(r)
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Authentication required", constants.ErrCodeAuthRequired)
		return nil
	}
	return identity
}

// getAuditActor extracts the email from an authenticated identity for audit logging.
// Returns empty string if identity is nil (e.g. unauthenticated or system actions).
func getAuditActor(identity *auth.Identity) string {
	if identity != nil && identity.User != nil {
		return identity.User.Email
	}
	return ""
}

// bearerToken extracts the raw bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get(constants.HeaderAuthorization)
	if strings.HasPrefix(h, constants.AuthBearerPrefix) {
		return strings.TrimPrefix(h, constants.AuthBearerPrefix)
	}
	return ""
}

// handleAuthRoutes dispatches /api/auth/* to the individual handlers.
func (s *Server) handleAuthRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/auth/")

	switch path {
	case "signup":
		s.handleAuthSignup(w, r)
	case "login":
		s.handleAuthLogin(w, r)
	case "logout":
		s.handleAuthLogout(w, r)
	case "me":
		s.handleAuthMe(w, r)
	case "verify-email":
		s.handleAuthVerifyEmail(w, r)
	case "resend-verification":
		s.handleAuthResendVerification(w, r)
	case "request-password-reset":
		s.handleAuthRequestPasswordReset(w, r)
	case "reset-password":
		s.handleAuthResetPassword(w, r)
	case "api-key":
		s.handleAuthAPIKey(w, r)
	default:
		WriteError(w, http.StatusNotFound, "Not found", constants.ErrCodeNotFound)
	}
}

// =============================================================================
// Public Auth Endpoints
// =============================================================================

// POST /api/auth/signup — Create an account; a verification link is emailed
func (s *Server) handleAuthSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON", constants.ErrCodeInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required", constants.ErrCodeInvalidRequest)
		return
	}

	user, err := s.app.Services.Auth.Signup(req.Email, req.DisplayName, req.Password)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.app.AuditLogger.Log(constants.AuditActionSignup, getClientIP(r), user.Email, nil)

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"message": "Account created. Check your email for a verification link.",
	})
}

// POST /api/auth/login — Authenticate and receive a session token
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON", constants.ErrCodeInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required", constants.ErrCodeInvalidRequest)
		return
	}

	token, user, err := s.app.Services.Auth.Login(
		req.Email, req.Password,
		getClientIP(r), r.UserAgent(),
	)
	if err != nil {
		// Audit failed login attempt
		reason := "unknown"
		if code, ok := services.IsServiceError(err); ok {
			reason = code
		}
		s.app.AuditLogger.Log(constants.AuditActionLoginFailed, getClientIP(r), req.Email, audit.LoginFailedDetails{
			AttemptedEmail: req.Email,
			Reason:         reason,
			UserAgent:      r.UserAgent(),
		})
		if services.IsLockedError(err) {
			s.app.AuditLogger.Log(constants.AuditActionAccountLocked, getClientIP(r), req.Email, nil)
		}
		s.handleServiceError(w, err)
		return
	}

	// Audit successful login
	s.app.AuditLogger.Log(constants.AuditActionLoginSuccess, getClientIP(r), user.Email, audit.LoginSuccessDetails{
		UserAgent: r.UserAgent(),
	})

	WriteSuccess(w, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GET /api/auth/verify-email?token=... — Consume a mailed verification link
func (s *Server) handleAuthVerifyEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		WriteError(w, http.StatusBadRequest, "Missing token parameter", constants.ErrCodeMissingParam)
		return
	}

	user, err := s.app.Services.Auth.VerifyEmail(token)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.app.AuditLogger.Log(constants.AuditActionEmailVerified, getClientIP(r), user.Email, nil)

	WriteSuccess(w, map[string]interface{}{
		"user":    user,
		"message": "Email verified. You can now log in.",
	})
}

// POST /api/auth/resend-verification — Request a fresh verification link.
// Always returns 200 to avoid confirming whether an account exists.
func (s *Server) handleAuthResendVerification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		WriteError(w, http.StatusBadRequest, "Email is required", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Auth.ResendVerification(req.Email); err != nil {
		s.handleServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"message": "If the account exists and is unverified, a new link has been sent.",
	})
}

// POST /api/auth/request-password-reset — Mail a reset link.
// Always returns 200 to avoid confirming whether an account exists.
func (s *Server) handleAuthRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		WriteError(w, http.StatusBadRequest, "Email is required", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Auth.RequestPasswordReset(req.Email); err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.app.AuditLogger.Log(constants.AuditActionResetRequested, getClientIP(r), req.Email, nil)

	WriteSuccess(w, map[string]interface{}{
		"message": "If the account exists, a reset link has been sent.",
	})
}

// POST /api/auth/reset-password — Consume a reset token and set a new password
func (s *Server) handleAuthResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON", constants.ErrCodeInvalidRequest)
		return
	}
	if req.Token == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Token and password are required", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Auth.ResetPassword(req.Token, req.Password); err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.app.AuditLogger.Log(constants.AuditActionResetCompleted, getClientIP(r), "", nil)

	WriteSuccess(w, map[string]interface{}{
		"message": "Password updated. All sessions have been revoked.",
	})
}

// =============================================================================
// Protected Auth Endpoints
// =============================================================================

// POST /api/auth/logout — Invalidate the current session token
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity := s.requireAuth(w, r)
	if identity == nil {
		return
	}

	token := bearerToken(r)
	if !auth.IsSessionToken(token) {
		WriteError(w, http.StatusBadRequest, "Logout requires a session token", constants.ErrCodeInvalidRequest)
		return
	}

	if err := s.app.Services.Auth.Logout(token); err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.app.AuditLogger.Log(constants.AuditActionLogout, getClientIP(r), getAuditActor(identity), nil)

	WriteSuccess(w, map[string]interface{}{"message": "Logged out"})
}

// GET /api/auth/me — Current identity; PATCH updates the profile
func (s *Server) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	identity := s.requireAuth(w, r)
	if identity == nil {
		return
	}

	switch r.Method {
	case http.MethodGet:
		WriteSuccess(w, identity)

	case http.MethodPatch:
		var req struct {
			DisplayName string `json:"display_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON", constants.ErrCodeInvalidRequest)
			return
		}
		user, err := s.app.Services.Auth.UpdateProfile(identity.User.ID, req.DisplayName)
		if err != nil {
			s.handleServiceError(w, err)
			return
		}
		WriteSuccess(w, map[string]interface{}{"user": user})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/auth/api-key — Rotate the caller's API key (shown once)
func (s *Server) handleAuthAPIKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	identity := s.requireAuth(w, r)
	if identity == nil {
		return
	}

	apiKey, err := s.app.Services.Auth.IssueAPIKey(identity.User.ID)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.app.AuditLogger.Log(constants.AuditActionAPIKeyIssued, getClientIP(r), getAuditActor(identity), nil)

	WriteSuccess(w, map[string]interface{}{
		"api_key": apiKey,
		"message": "Store this key now. It will not be shown again.",
	})
}
