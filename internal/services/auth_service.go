package services

import (
	"errors"
	"sync"
	"time"

	"groundwork/internal/auth"
	"groundwork/internal/constants"
	"groundwork/internal/logger"
	"groundwork/internal/mailer"
)

// AuthService implements account flows: signup, email verification, login,
// logout, password reset, API key issuance.
type AuthService struct {
	store   *auth.Store
	tokens  *auth.EmailTokens
	mailer  mailer.Mailer
	baseURL string
	logger  *logger.Logger

	stopClean chan struct{}
	stopOnce  sync.Once
}

// NewAuthService creates the auth service.
func NewAuthService(store *auth.Store, tokens *auth.EmailTokens, mail mailer.Mailer, baseURL string, log *logger.Logger) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		mailer:    mail,
		baseURL:   baseURL,
		logger:    log,
		stopClean: make(chan struct{}),
	}
}

// GetStore exposes the underlying store for the auth middleware.
func (s *AuthService) GetStore() *auth.Store {
	return s.store
}

// Start launches the periodic expired-session cleanup goroutine.
func (s *AuthService) Start(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopClean:
				return
			case <-ticker.C:
				if n, err := s.store.CleanupExpiredSessions(); err != nil {
					s.logger.Warn("auth: session cleanup failed: %v", err)
				} else if n > 0 {
					s.logger.Debug("auth: removed %d expired session(s)", n)
				}
			}
		}
	}()
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (s *AuthService) Stop() {
	s.stopOnce.Do(func() { close(s.stopClean) })
}

// Signup creates an unverified account and sends the verification email.
// A mail delivery failure does not fail the signup; the user can request a
// new link later.
func (s *AuthService) Signup(email, displayName, password string) (*auth.User, error) {
	email = auth.NormalizeEmail(email)
	if !auth.ValidateEmail(email) {
		return nil, ErrAuthEmailInvalid
	}
	if !auth.ValidatePassword(password) {
		return nil, ErrAuthPasswordTooWeak
	}

	existing, err := s.store.GetUserByEmail(email)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if existing != nil {
		return nil, ErrAuthUserExists
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, WrapInternalError(err)
	}

	user, err := s.store.CreateUser(email, displayName, passwordHash)
	if err != nil {
		return nil, WrapInternalError(err)
	}

	s.sendVerificationMail(user)
	return user, nil
}

// ResendVerification issues a fresh verification link for an unverified
// account. Succeeds silently for unknown emails to avoid account enumeration.
func (s *AuthService) ResendVerification(email string) error {
	email = auth.NormalizeEmail(email)
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return WrapInternalError(err)
	}
	if user == nil || user.EmailVerified {
		return nil
	}
	s.sendVerificationMail(&user.User)
	return nil
}

func (s *AuthService) sendVerificationMail(user *auth.User) {
	token, err := s.tokens.IssueVerify(user.ID, user.Email)
	if err != nil {
		s.logger.Error("auth: failed to issue verification token for %s: %v", user.Email, err)
		return
	}
	subject, body := mailer.RenderVerification(s.baseURL, user.DisplayName, token)
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		s.logger.Warn("auth: failed to send verification mail to %s: %v", user.Email, err)
	}
}

// VerifyEmail consumes a mailed verification token.
func (s *AuthService) VerifyEmail(token string) (*auth.User, error) {
	userID, email, err := s.tokens.VerifyToken(token, constants.EmailTokenPurposeVerify)
	if err != nil {
		return nil, ErrAuthTokenInvalid
	}

	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	// The token must still match the account's current email.
	if user == nil || user.Email != email {
		return nil, ErrAuthTokenInvalid
	}

	if !user.EmailVerified {
		if err := s.store.MarkEmailVerified(userID); err != nil {
			return nil, WrapInternalError(err)
		}
		user.EmailVerified = true
	}
	return &user.User, nil
}

// Login authenticates credentials and issues a session token.
// Returns the plaintext token (never stored) and the user.
func (s *AuthService) Login(email, password, ipAddress, userAgent string) (string, *auth.User, error) {
	email = auth.NormalizeEmail(email)
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return "", nil, WrapInternalError(err)
	}
	if user == nil {
		// Burn a bcrypt comparison so unknown emails take as long as bad
		// passwords.
		auth.VerifyPassword(password, "$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva")
		return "", nil, ErrAuthInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, ErrAuthUserDisabled
	}
	if user.LockedUntil != nil && time.Now().Unix() < *user.LockedUntil {
		return "", nil, ErrAuthAccountLocked
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		locked, incErr := s.store.IncrementFailedLogin(user.ID)
		if incErr != nil {
			s.logger.Warn("auth: failed to record login failure for %s: %v", email, incErr)
		}
		if locked {
			s.logger.Warn("auth: account %s locked after repeated failures", email)
			return "", nil, ErrAuthAccountLocked
		}
		return "", nil, ErrAuthInvalidCredentials
	}

	if !user.EmailVerified {
		return "", nil, ErrAuthEmailNotVerified
	}

	if err := s.store.ResetFailedLogins(user.ID); err != nil {
		s.logger.Warn("auth: failed to reset login counter for %s: %v", email, err)
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", nil, WrapInternalError(err)
	}
	if _, err := s.store.CreateSession(auth.HashToken(token), auth.ExtractTokenPrefix(token),
		user.ID, ipAddress, userAgent); err != nil {
		return "", nil, WrapInternalError(err)
	}

	return token, &user.User, nil
}

// Logout invalidates the session behind the given plaintext token.
func (s *AuthService) Logout(token string) error {
	if err := s.store.DeleteSession(auth.HashToken(token)); err != nil {
		return WrapInternalError(err)
	}
	return nil
}

// RequestPasswordReset sends a reset link when the account exists.
// Always succeeds from the caller's perspective to avoid account enumeration.
func (s *AuthService) RequestPasswordReset(email string) error {
	email = auth.NormalizeEmail(email)
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return WrapInternalError(err)
	}
	if user == nil || !user.IsActive {
		return nil
	}

	token, err := s.tokens.IssueReset(user.ID, user.Email)
	if err != nil {
		s.logger.Error("auth: failed to issue reset token for %s: %v", email, err)
		return nil
	}
	subject, body := mailer.RenderPasswordReset(s.baseURL, user.DisplayName, token)
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		s.logger.Warn("auth: failed to send reset mail to %s: %v", email, err)
	}
	return nil
}

// ResetPassword consumes a mailed reset token, sets the new password, and
// revokes every session of the account.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	userID, email, err := s.tokens.VerifyToken(token, constants.EmailTokenPurposeReset)
	if err != nil {
		return ErrAuthTokenInvalid
	}
	if !auth.ValidatePassword(newPassword) {
		return ErrAuthPasswordTooWeak
	}

	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return WrapInternalError(err)
	}
	if user == nil || user.Email != email {
		return ErrAuthTokenInvalid
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return WrapInternalError(err)
	}
	if err := s.store.UpdateUserPassword(userID, passwordHash); err != nil {
		return WrapInternalError(err)
	}
	if err := s.store.DeleteSessionsForUser(userID); err != nil {
		s.logger.Warn("auth: failed to revoke sessions for user %d: %v", userID, err)
	}
	return nil
}

// IssueAPIKey generates and stores a new API key for the user, replacing any
// existing one. Returns the plaintext key (shown once).
func (s *AuthService) IssueAPIKey(userID int64) (string, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return "", WrapInternalError(err)
	}
	if user == nil {
		return "", ErrAuthUserNotFound
	}

	apiKey, err := auth.GenerateAPIKey()
	if err != nil {
		return "", WrapInternalError(err)
	}
	if err := s.store.UpdateUserAPIKey(userID, auth.HashToken(apiKey), auth.ExtractTokenPrefix(apiKey)); err != nil {
		return "", WrapInternalError(err)
	}
	return apiKey, nil
}

// UpdateProfile changes a user's display name.
func (s *AuthService) UpdateProfile(userID int64, displayName string) (*auth.User, error) {
	if err := s.store.UpdateUserProfile(userID, displayName); err != nil {
		return nil, WrapInternalError(err)
	}
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if user == nil {
		return nil, ErrAuthUserNotFound
	}
	return &user.User, nil
}

// IsLockedError reports whether err is the account-locked service error.
func IsLockedError(err error) bool {
	return errors.Is(err, ErrAuthAccountLocked)
}
