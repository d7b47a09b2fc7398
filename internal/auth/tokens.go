package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"groundwork/internal/constants"
)

// EmailTokens issues and verifies the short-lived signed tokens embedded in
// mailed links (email verification, password reset). Tokens are HS256 JWTs
// bound to a single purpose and user; they carry no session authority.
type EmailTokens struct {
	secret []byte
}

// NewEmailTokens creates an issuer using the application secret.
func NewEmailTokens(secret string) *EmailTokens {
	return &EmailTokens{secret: []byte(secret)}
}

type emailClaims struct {
	Purpose string `json:"purpose"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// IssueVerify creates an email-verification token for the given user.
func (e *EmailTokens) IssueVerify(userID int64, email string) (string, error) {
	return e.issue(constants.EmailTokenPurposeVerify, userID, email, constants.EmailVerifyTokenTTL)
}

// IssueReset creates a password-reset token for the given user.
func (e *EmailTokens) IssueReset(userID int64, email string) (string, error) {
	return e.issue(constants.EmailTokenPurposeReset, userID, email, constants.PasswordResetTokenTTL)
}

func (e *EmailTokens) issue(purpose string, userID int64, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := emailClaims{
		Purpose: purpose,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(e.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// ErrTokenInvalid is returned for expired, malformed, or wrong-purpose tokens.
var ErrTokenInvalid = errors.New("invalid or expired token")

// VerifyToken checks a mailed-link token against the expected purpose and
// returns the user ID and email it was issued for.
func (e *EmailTokens) VerifyToken(tokenStr, purpose string) (int64, string, error) {
	var claims emailClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return e.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrTokenInvalid
	}
	if claims.Purpose != purpose {
		return 0, "", ErrTokenInvalid
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil || userID <= 0 {
		return 0, "", ErrTokenInvalid
	}
	return userID, claims.Email, nil
}
