package constants

// Audit Log Action Types: Authentication
const (
	AuditActionSignup         = "signup"
	AuditActionLoginSuccess   = "login_success"
	AuditActionLoginFailed    = "login_failed"
	AuditActionLogout         = "logout"
	AuditActionEmailVerified  = "email_verified"
	AuditActionResetRequested = "password_reset_requested"
	AuditActionResetCompleted = "password_reset_completed"
	AuditActionAccountLocked  = "account_locked"
	AuditActionAPIKeyIssued   = "api_key_issued"
)

// Audit Log Action Types: Notes
const (
	AuditActionNoteCreated = "note_created"
	AuditActionNoteUpdated = "note_updated"
	AuditActionNoteDeleted = "note_deleted"
)

// Audit Log Configuration
const (
	AuditDefaultQueryLimit = 100
	AuditMaxQueryLimit     = 1000
)

// Audit Log Size Management
const (
	AuditMaxEntries          = 1_000_000
	AuditCleanupIntervalMins = 30 // check every 30 mins
	AuditPurgePercentage     = 5  // delete 5% oldest when limit hit
	AuditMinPurgeEntries     = 1000
)
