package auth

import (
	"testing"
	"time"

	"groundwork/internal/constants"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestEmailTokens_VerifyRoundTrip(t *testing.T) {
	tokens := NewEmailTokens(testSecret)

	token, err := tokens.IssueVerify(42, "user@example.com")
	if err != nil {
		t.Fatalf("IssueVerify failed: %v", err)
	}

	userID, email, err := tokens.VerifyToken(token, constants.EmailTokenPurposeVerify)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user ID 42, got %d", userID)
	}
	if email != "user@example.com" {
		t.Errorf("expected email user@example.com, got %q", email)
	}
}

func TestEmailTokens_WrongPurposeRejected(t *testing.T) {
	tokens := NewEmailTokens(testSecret)

	token, err := tokens.IssueVerify(1, "user@example.com")
	if err != nil {
		t.Fatalf("IssueVerify failed: %v", err)
	}

	// A verification token must not pass as a reset token.
	if _, _, err := tokens.VerifyToken(token, constants.EmailTokenPurposeReset); err == nil {
		t.Fatal("expected wrong-purpose token to be rejected")
	}
}

func TestEmailTokens_WrongSecretRejected(t *testing.T) {
	issuer := NewEmailTokens(testSecret)
	other := NewEmailTokens("another-secret-another-secret-32")

	token, err := issuer.IssueReset(1, "user@example.com")
	if err != nil {
		t.Fatalf("IssueReset failed: %v", err)
	}

	if _, _, err := other.VerifyToken(token, constants.EmailTokenPurposeReset); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestEmailTokens_ExpiredRejected(t *testing.T) {
	tokens := NewEmailTokens(testSecret)

	token, err := tokens.issue(constants.EmailTokenPurposeVerify, 1, "user@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, _, err := tokens.VerifyToken(token, constants.EmailTokenPurposeVerify); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestEmailTokens_MalformedRejected(t *testing.T) {
	tokens := NewEmailTokens(testSecret)

	for _, bad := range []string{"", "garbage", "a.b.c"} {
		if _, _, err := tokens.VerifyToken(bad, constants.EmailTokenPurposeVerify); err == nil {
			t.Errorf("expected malformed token %q to be rejected", bad)
		}
	}
}
