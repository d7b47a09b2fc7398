package server

import (
	"database/sql"
	"time"

	"groundwork/internal/audit"
	"groundwork/internal/auth"
	"groundwork/internal/config"
	"groundwork/internal/logger"
	"groundwork/internal/mailer"
	"groundwork/internal/services"
)

// App holds all application state and dependencies
type App struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *sql.DB
	AuthStore   *auth.Store
	AuditLogger *audit.Logger
	Services    *services.Services
	StartedAt   time.Time
}

// NewApp wires the application: auth store, mailer, audit logger, and the
// services layer, all backed by the given database.
func NewApp(cfg *config.Config, log *logger.Logger, db *sql.DB) *App {
	store := auth.NewStore(db,
		cfg.Auth.MaxLoginAttempts,
		cfg.Auth.LockoutDuration(),
		cfg.Auth.SessionDuration(),
	)
	mail := mailer.New(cfg.Mail, log)

	return &App{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		AuthStore:   store,
		AuditLogger: audit.NewLogger(db),
		Services:    services.New(db, cfg, store, mail, log),
		StartedAt:   time.Now(),
	}
}

// Disconnect closes the database connection. It backs the storage side of
// shutdown and is safe to call after the listener has stopped accepting.
func (a *App) Disconnect() error {
	if a.DB == nil {
		return nil
	}
	err := a.DB.Close()
	a.DB = nil
	return err
}
