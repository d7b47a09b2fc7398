// Package services holds the business logic between the HTTP handlers and
// the storage layer. Every exported operation returns either a domain value
// or a *ServiceError carrying a stable error code.
package services

import (
	"database/sql"

	"groundwork/internal/auth"
	"groundwork/internal/config"
	"groundwork/internal/logger"
	"groundwork/internal/mailer"
)

// Services bundles all business-logic services.
type Services struct {
	Auth  *AuthService
	Notes *NoteService
}

// New wires up the services layer.
func New(db *sql.DB, cfg *config.Config, store *auth.Store, mail mailer.Mailer, log *logger.Logger) *Services {
	tokens := auth.NewEmailTokens(cfg.Secret)
	return &Services{
		Auth:  NewAuthService(store, tokens, mail, cfg.Mail.BaseURL, log),
		Notes: NewNoteService(db, log),
	}
}
