package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store provides database operations for users and sessions.
type Store struct {
	db               *sql.DB
	maxLoginAttempts int
	lockoutDuration  time.Duration
	sessionDuration  time.Duration
}

// NewStore creates an auth store backed by the given database.
func NewStore(db *sql.DB, maxLoginAttempts int, lockoutDuration, sessionDuration time.Duration) *Store {
	return &Store{
		db:               db,
		maxLoginAttempts: maxLoginAttempts,
		lockoutDuration:  lockoutDuration,
		sessionDuration:  sessionDuration,
	}
}

// SessionDuration returns the configured session lifetime.
func (s *Store) SessionDuration() time.Duration {
	return s.sessionDuration
}

// ============================================================================
// User Operations
// ============================================================================

// CreateUser inserts a new unverified user. Email must be normalized.
func (s *Store) CreateUser(email, displayName, passwordHash string) (*User, error) {
	now := time.Now().Unix()
	result, err := s.db.Exec(`
		INSERT INTO users (email, display_name, password_hash, email_verified, is_active, is_bootstrap, created_at, updated_at)
		VALUES (?, ?, ?, 0, 1, 0, ?, ?)
	`, email, displayName, passwordHash, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	return &User{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreateBootstrapUser inserts the initial admin user with is_bootstrap=1.
// The bootstrap account is created pre-verified since no mailer may be
// configured yet.
func (s *Store) CreateBootstrapUser(email, displayName, passwordHash, apiKeyHash, apiKeyPrefix string) (*User, error) {
	now := time.Now().Unix()
	result, err := s.db.Exec(`
		INSERT INTO users (email, display_name, password_hash, api_key_hash, api_key_prefix,
		                   email_verified, is_active, is_bootstrap, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, 1, 1, ?, ?)
	`, email, displayName, passwordHash, apiKeyHash, apiKeyPrefix, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get bootstrap user id: %w", err)
	}

	return &User{
		ID:            id,
		Email:         email,
		DisplayName:   displayName,
		EmailVerified: true,
		IsActive:      true,
		IsBootstrap:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

const userColumns = `id, email, display_name, password_hash, api_key_hash, api_key_prefix,
       email_verified, is_active, is_bootstrap, created_at, updated_at,
       failed_login_count, locked_until`

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(id int64) (*UserWithSensitive, error) {
	return s.scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail retrieves a user by normalized email.
func (s *Store) GetUserByEmail(email string) (*UserWithSensitive, error) {
	return s.scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// GetUserByAPIKeyHash retrieves a user by hashed API key.
func (s *Store) GetUserByAPIKeyHash(keyHash string) (*UserWithSensitive, error) {
	return s.scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE api_key_hash = ?`, keyHash))
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers() (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// ListUsers returns all users (without sensitive fields).
func (s *Store) ListUsers() ([]User, error) {
	rows, err := s.db.Query(`
		SELECT id, email, display_name, email_verified, is_active, is_bootstrap, created_at, updated_at
		FROM users ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.EmailVerified,
			&u.IsActive, &u.IsBootstrap, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfile updates a user's display name.
func (s *Store) UpdateUserProfile(id int64, displayName string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`UPDATE users SET display_name = ?, updated_at = ? WHERE id = ?`,
		displayName, now, id)
	return err
}

// SetUserActive enables or disables an account.
func (s *Store) SetUserActive(id int64, active bool) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, now, id)
	return err
}

// UpdateUserPassword updates a user's password hash and clears lockout state.
func (s *Store) UpdateUserPassword(id int64, passwordHash string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		UPDATE users SET password_hash = ?, failed_login_count = 0, locked_until = NULL, updated_at = ?
		WHERE id = ?
	`, passwordHash, now, id)
	return err
}

// UpdateUserAPIKey updates a user's API key hash and prefix.
func (s *Store) UpdateUserAPIKey(id int64, apiKeyHash, apiKeyPrefix string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		UPDATE users SET api_key_hash = ?, api_key_prefix = ?, updated_at = ? WHERE id = ?
	`, apiKeyHash, apiKeyPrefix, now, id)
	return err
}

// MarkEmailVerified flips the email_verified flag.
func (s *Store) MarkEmailVerified(id int64) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`, now, id)
	return err
}

// IncrementFailedLogin bumps the failed login counter, locking the account
// once the configured threshold is reached. Returns true if this attempt
// locked the account.
func (s *Store) IncrementFailedLogin(id int64) (bool, error) {
	now := time.Now().Unix()
	lockUntil := now + int64(s.lockoutDuration.Seconds())

	_, err := s.db.Exec(`
		UPDATE users SET
			failed_login_count = failed_login_count + 1,
			locked_until = CASE
				WHEN failed_login_count + 1 >= ? THEN ?
				ELSE locked_until
			END,
			updated_at = ?
		WHERE id = ?
	`, s.maxLoginAttempts, lockUntil, now, id)
	if err != nil {
		return false, err
	}

	var count int
	var locked sql.NullInt64
	if err := s.db.QueryRow(`SELECT failed_login_count, locked_until FROM users WHERE id = ?`, id).
		Scan(&count, &locked); err != nil {
		return false, err
	}
	return count == s.maxLoginAttempts && locked.Valid, nil
}

// ResetFailedLogins clears the lockout state after a successful login.
func (s *Store) ResetFailedLogins(id int64) error {
	_, err := s.db.Exec(`
		UPDATE users SET failed_login_count = 0, locked_until = NULL WHERE id = ?
	`, id)
	return err
}

func (s *Store) scanUser(row *sql.Row) (*UserWithSensitive, error) {
	var u UserWithSensitive
	var apiKeyHash, apiKeyPrefix sql.NullString
	var lockedUntil sql.NullInt64
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash,
		&apiKeyHash, &apiKeyPrefix, &u.EmailVerified, &u.IsActive, &u.IsBootstrap,
		&u.CreatedAt, &u.UpdatedAt, &u.FailedLoginCount, &lockedUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if apiKeyHash.Valid {
		u.APIKeyHash = apiKeyHash.String
	}
	if apiKeyPrefix.Valid {
		u.APIKeyPrefix = apiKeyPrefix.String
	}
	if lockedUntil.Valid {
		ts := lockedUntil.Int64
		u.LockedUntil = &ts
	}
	return &u, nil
}

// ============================================================================
// Session Operations
// ============================================================================

// CreateSession stores a new session for the user. The plaintext token is
// hashed by the caller; only the hash and a short display prefix persist.
func (s *Store) CreateSession(tokenHash, tokenPrefix string, userID int64, ipAddress, userAgent string) (*Session, error) {
	now := time.Now().Unix()
	expires := now + int64(s.sessionDuration.Seconds())

	_, err := s.db.Exec(`
		INSERT INTO sessions (token_hash, token_prefix, user_id, ip_address, user_agent, created_at, expires_at, last_active_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, tokenHash, tokenPrefix, userID, ipAddress, userAgent, now, expires, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Session{
		TokenHash:    tokenHash,
		TokenPrefix:  tokenPrefix,
		UserID:       userID,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		CreatedAt:    now,
		ExpiresAt:    expires,
		LastActiveAt: now,
	}, nil
}

// GetSessionByTokenHash returns the session and its user, or (nil, nil, nil)
// when the session does not exist or has expired.
func (s *Store) GetSessionByTokenHash(tokenHash string) (*Session, *User, error) {
	var sess Session
	var u User
	var userAgent sql.NullString
	err := s.db.QueryRow(`
		SELECT s.token_hash, s.token_prefix, s.user_id, s.ip_address, s.user_agent,
		       s.created_at, s.expires_at, s.last_active_at,
		       u.id, u.email, u.display_name, u.email_verified, u.is_active, u.is_bootstrap,
		       u.created_at, u.updated_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = ?
	`, tokenHash).Scan(
		&sess.TokenHash, &sess.TokenPrefix, &sess.UserID, &sess.IPAddress, &userAgent,
		&sess.CreatedAt, &sess.ExpiresAt, &sess.LastActiveAt,
		&u.ID, &u.Email, &u.DisplayName, &u.EmailVerified, &u.IsActive, &u.IsBootstrap,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if userAgent.Valid {
		sess.UserAgent = userAgent.String
	}

	if time.Now().Unix() >= sess.ExpiresAt {
		// Expired: best-effort removal, treated as absent.
		s.DeleteSession(tokenHash)
		return nil, nil, nil
	}
	return &sess, &u, nil
}

// TouchSession updates last_active_at for a session.
func (s *Store) TouchSession(tokenHash string) error {
	_, err := s.db.Exec(`UPDATE sessions SET last_active_at = ? WHERE token_hash = ?`,
		time.Now().Unix(), tokenHash)
	return err
}

// DeleteSession removes a single session.
func (s *Store) DeleteSession(tokenHash string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	return err
}

// DeleteSessionsForUser revokes every session belonging to a user.
// Used after a password reset.
func (s *Store) DeleteSessionsForUser(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// CleanupExpiredSessions removes sessions past their expiry.
// Returns the number of sessions removed.
func (s *Store) CleanupExpiredSessions() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
