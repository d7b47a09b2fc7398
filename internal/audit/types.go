// Package audit records security-relevant events (logins, signups, note
// mutations) to an append-only table. Entries are never updated or
// individually deleted; only the size cap may purge the oldest ones.
package audit

import "groundwork/internal/constants"

// Entry is one audit log record.
type Entry struct {
	ID        int64       `json:"id"`
	EntryID   string      `json:"entry_id"`
	Timestamp int64       `json:"timestamp"`
	Action    string      `json:"action"`
	IPAddress string      `json:"ip_address"`
	Actor     string      `json:"actor,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// validActions is the closed set of recordable actions.
var validActions = map[string]bool{
	constants.AuditActionSignup:         true,
	constants.AuditActionLoginSuccess:   true,
	constants.AuditActionLoginFailed:    true,
	constants.AuditActionLogout:         true,
	constants.AuditActionEmailVerified:  true,
	constants.AuditActionResetRequested: true,
	constants.AuditActionResetCompleted: true,
	constants.AuditActionAccountLocked:  true,
	constants.AuditActionAPIKeyIssued:   true,
	constants.AuditActionNoteCreated:    true,
	constants.AuditActionNoteUpdated:    true,
	constants.AuditActionNoteDeleted:    true,
}

// IsValidAction reports whether the action belongs to the recordable set.
func IsValidAction(action string) bool {
	return validActions[action]
}

// Actions returns the recordable action names in no particular order.
func Actions() []string {
	names := make([]string, 0, len(validActions))
	for name := range validActions {
		names = append(names, name)
	}
	return names
}

// LoginFailedDetails captures context for failed login attempts.
type LoginFailedDetails struct {
	AttemptedEmail string `json:"attempted_email"`
	Reason         string `json:"reason"`
	UserAgent      string `json:"user_agent,omitempty"`
}

// LoginSuccessDetails captures context for successful logins.
type LoginSuccessDetails struct {
	UserAgent string `json:"user_agent,omitempty"`
}

// NoteDetails captures which note a mutation touched.
type NoteDetails struct {
	NoteID int64 `json:"note_id"`
}
