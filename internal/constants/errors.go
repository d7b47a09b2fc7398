package constants

// API Error Codes
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternalError  = "INTERNAL_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeMissingParam   = "MISSING_PARAM"
	ErrCodeRateLimited    = "RATE_LIMITED"

	// Notes
	ErrCodeNoteNotFound     = "NOTE_NOT_FOUND"
	ErrCodeNoteTitleTooLong = "NOTE_TITLE_TOO_LONG"
	ErrCodeNoteBodyTooLarge = "NOTE_BODY_TOO_LARGE"
	ErrCodeNoteTitleMissing = "NOTE_TITLE_MISSING"

	// Audit
	ErrCodeAuditInvalidFilter = "AUDIT_INVALID_FILTER"
)
