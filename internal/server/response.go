package server

import (
	"encoding/json"
	"net/http"

	"groundwork/internal/constants"
	"groundwork/internal/services"
)

// APIError represents a standard error response
type APIError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error response
func WriteError(w http.ResponseWriter, status int, message string, code string) {
	WriteJSON(w, status, APIError{
		Error:   true,
		Message: message,
		Code:    code,
	})
}

// WriteSuccess writes a simple success response
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, data)
}

// handleServiceError maps service errors to HTTP responses.
// It extracts the error code from ServiceError and maps it to the appropriate HTTP status.
func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	code, isServiceErr := services.IsServiceError(err)
	if !isServiceErr {
		WriteError(w, http.StatusInternalServerError, err.Error(), constants.ErrCodeInternalError)
		return
	}

	// Internal errors must not leak wrapped detail to the client.
	if code == constants.ErrCodeInternalError {
		s.logger.Error("internal error: %v", err)
		WriteError(w, http.StatusInternalServerError, "internal server error", code)
		return
	}

	// Map error codes to HTTP status codes
	status := http.StatusInternalServerError
	switch code {
	case constants.ErrCodeNotFound, constants.ErrCodeNoteNotFound,
		constants.ErrCodeAuthUserNotFound:
		status = http.StatusNotFound
	case constants.ErrCodeAuthRequired, constants.ErrCodeAuthInvalidCredentials,
		constants.ErrCodeAuthSessionExpired:
		status = http.StatusUnauthorized
	case constants.ErrCodeAuthForbidden, constants.ErrCodeAuthBootstrapProtected,
		constants.ErrCodeAuthUserDisabled, constants.ErrCodeAuthEmailNotVerified:
		status = http.StatusForbidden
	case constants.ErrCodeAuthAccountLocked, constants.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case constants.ErrCodeAuthUserExists:
		status = http.StatusConflict
	case constants.ErrCodeInvalidRequest, constants.ErrCodeMissingParam,
		constants.ErrCodeAuthPasswordTooWeak, constants.ErrCodeAuthEmailInvalid,
		constants.ErrCodeAuthTokenInvalid,
		constants.ErrCodeNoteTitleMissing, constants.ErrCodeNoteTitleTooLong,
		constants.ErrCodeAuditInvalidFilter:
		status = http.StatusBadRequest
	case constants.ErrCodeNoteBodyTooLarge:
		status = http.StatusRequestEntityTooLarge
	}

	WriteError(w, status, err.Error(), code)
}
