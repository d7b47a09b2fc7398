package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"groundwork/internal/constants"
)

// Logger provides thread-safe, append-only audit logging with a background
// size-cap enforcement loop.
type Logger struct {
	db        *sql.DB
	mu        sync.Mutex
	stopClean chan struct{}
	stopOnce  sync.Once
}

// NewLogger creates an audit logger and starts the cleanup goroutine.
func NewLogger(db *sql.DB) *Logger {
	l := &Logger{
		db:        db,
		stopClean: make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (l *Logger) Stop() {
	l.stopOnce.Do(func() { close(l.stopClean) })
}

// Log records an audit entry. Actor is the acting user's email, or empty for
// anonymous requests.
func (l *Logger) Log(action, ipAddress, actor string, details interface{}) error {
	if !IsValidAction(action) {
		return fmt.Errorf("invalid audit action: %s", action)
	}

	var detailsJSON sql.NullString
	if details != nil {
		jsonBytes, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(jsonBytes), Valid: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.Exec(`
		INSERT INTO audit_log (entry_id, timestamp, action, ip_address, actor, details_json)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), time.Now().Unix(), action, ipAddress, actor, detailsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// cleanupLoop periodically enforces the entry-count cap.
func (l *Logger) cleanupLoop() {
	ticker := time.NewTicker(time.Duration(constants.AuditCleanupIntervalMins) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopClean:
			return
		case <-ticker.C:
			l.enforceSizeLimit()
		}
	}
}

// enforceSizeLimit purges the oldest entries once the cap is exceeded.
func (l *Logger) enforceSizeLimit() {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total int64
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM audit_log`).Scan(&total); err != nil {
		return
	}
	if total < constants.AuditMaxEntries {
		return
	}

	purge := total * constants.AuditPurgePercentage / 100
	if purge < constants.AuditMinPurgeEntries {
		purge = constants.AuditMinPurgeEntries
	}
	if purge > total {
		purge = total / 2 // keep at least half
	}
	if purge <= 0 {
		return
	}

	tx, err := l.db.Begin()
	if err != nil {
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM audit_log
		WHERE id IN (SELECT id FROM audit_log ORDER BY id ASC LIMIT ?)
	`, purge); err != nil {
		return
	}
	tx.Commit()
}
