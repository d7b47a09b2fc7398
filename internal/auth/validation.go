package auth

import (
	"net/mail"
	"strings"

	"groundwork/internal/constants"
)

// NormalizeEmail lowercases and trims an email address. Emails are stored
// and compared only in normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that an address is a plausible RFC 5322 mailbox.
// It expects an already-normalized address.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > constants.AuthMaxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject the "Name <addr>" form; we want the bare address.
	return addr.Address == email
}

// ValidatePassword checks password length bounds. Complexity rules are
// deliberately not enforced — length is the only requirement.
func ValidatePassword(password string) bool {
	return len(password) >= constants.AuthMinPasswordLength &&
		len(password) <= constants.AuthMaxPasswordLength
}
