package auth

import (
	"fmt"

	"groundwork/internal/constants"
	"groundwork/internal/logger"
)

// BootstrapResult contains the credentials generated during bootstrap.
// These are shown once and never again.
type BootstrapResult struct {
	Email    string
	Password string
	APIKey   string
}

// Bootstrap creates the initial admin user if no users exist.
// Returns the plaintext credentials that must be shown to the operator once.
// Returns nil if users already exist (no bootstrap needed).
func Bootstrap(store *Store, log *logger.Logger) (*BootstrapResult, error) {
	count, err := store.CountUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to check user count: %w", err)
	}

	if count > 0 {
		log.Debug("auth: %d user(s) exist, skipping bootstrap", count)
		return nil, nil
	}

	log.Info("auth: no users found, bootstrapping admin account...")

	password, err := GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	apiKey, err := GenerateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := store.CreateBootstrapUser(
		constants.AuthBootstrapEmail,
		"System Administrator",
		passwordHash,
		HashToken(apiKey),
		ExtractTokenPrefix(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap user: %w", err)
	}

	log.Info("auth: bootstrap user '%s' created (id=%d)", user.Email, user.ID)

	return &BootstrapResult{
		Email:    user.Email,
		Password: password,
		APIKey:   apiKey,
	}, nil
}
