package services

import (
	"errors"
	"fmt"

	"groundwork/internal/constants"
)

// ServiceError represents a service-level error with an error code.
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new service error.
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// WrapServiceError wraps an existing error with a service error.
func WrapServiceError(code, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Err: err}
}

// IsServiceError checks if an error is a ServiceError and returns its code.
func IsServiceError(err error) (string, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code, true
	}
	return "", false
}

// Pre-defined service errors for common cases
var (
	// Auth errors
	ErrAuthRequired           = NewServiceError(constants.ErrCodeAuthRequired, "authentication required")
	ErrAuthInvalidCredentials = NewServiceError(constants.ErrCodeAuthInvalidCredentials, "invalid credentials")
	ErrAuthForbidden          = NewServiceError(constants.ErrCodeAuthForbidden, "access denied")
	ErrAuthUserNotFound       = NewServiceError(constants.ErrCodeAuthUserNotFound, "user not found")
	ErrAuthUserExists         = NewServiceError(constants.ErrCodeAuthUserExists, "an account with this email already exists")
	ErrAuthUserDisabled       = NewServiceError(constants.ErrCodeAuthUserDisabled, "account is disabled")
	ErrAuthSessionExpired     = NewServiceError(constants.ErrCodeAuthSessionExpired, "session expired")
	ErrAuthAccountLocked      = NewServiceError(constants.ErrCodeAuthAccountLocked, "account is temporarily locked")
	ErrAuthPasswordTooWeak    = NewServiceError(constants.ErrCodeAuthPasswordTooWeak, "password does not meet requirements")
	ErrAuthEmailInvalid       = NewServiceError(constants.ErrCodeAuthEmailInvalid, "invalid email address")
	ErrAuthEmailNotVerified   = NewServiceError(constants.ErrCodeAuthEmailNotVerified, "email address is not verified")
	ErrAuthTokenInvalid       = NewServiceError(constants.ErrCodeAuthTokenInvalid, "invalid or expired token")
	ErrAuthBootstrapProtected = NewServiceError(constants.ErrCodeAuthBootstrapProtected, "bootstrap user is protected")

	// Note errors
	ErrNoteNotFound     = NewServiceError(constants.ErrCodeNoteNotFound, "note not found")
	ErrNoteTitleMissing = NewServiceError(constants.ErrCodeNoteTitleMissing, "note title is required")
	ErrNoteTitleTooLong = NewServiceError(constants.ErrCodeNoteTitleTooLong, "note title exceeds maximum length")
	ErrNoteBodyTooLarge = NewServiceError(constants.ErrCodeNoteBodyTooLarge, "note body exceeds maximum size")

	// Internal errors
	ErrInternal = NewServiceError(constants.ErrCodeInternalError, "internal server error")
)

// WrapInternalError wraps an unexpected error with the internal error code.
func WrapInternalError(err error) *ServiceError {
	return WrapServiceError(constants.ErrCodeInternalError, "internal error", err)
}
