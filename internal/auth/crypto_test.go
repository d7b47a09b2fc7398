package auth

import (
	"strings"
	"testing"

	"groundwork/internal/constants"
)

func TestHashPassword(t *testing.T) {
	password := "securePassword123!"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "" {
		t.Fatal("HashPassword returned empty hash")
	}

	if hash == password {
		t.Fatal("HashPassword returned plaintext password")
	}

	// Verify the hash starts with bcrypt prefix
	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Fatalf("expected bcrypt hash prefix, got: %s", hash[:4])
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "securePassword123!"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// Correct password should verify
	if err := VerifyPassword(password, hash); err != nil {
		t.Fatalf("VerifyPassword failed for correct password: %v", err)
	}

	// Wrong password should fail
	if err := VerifyPassword("wrongPassword", hash); err == nil {
		t.Fatal("VerifyPassword should fail for wrong password")
	}
}

func TestHashToken(t *testing.T) {
	token := "gwk_abc123def456"
	hash := HashToken(token)

	if hash == "" {
		t.Fatal("HashToken returned empty hash")
	}

	if hash == token {
		t.Fatal("HashToken returned the token itself")
	}

	// Same input should produce same hash
	hash2 := HashToken(token)
	if hash != hash2 {
		t.Fatal("HashToken is not deterministic")
	}

	// Different input should produce different hash
	hash3 := HashToken("different_token")
	if hash == hash3 {
		t.Fatal("HashToken produced same hash for different inputs")
	}
}

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}

	if !strings.HasPrefix(key, constants.APIKeyPrefix) {
		t.Fatalf("API key should start with %q, got: %s", constants.APIKeyPrefix, key[:8])
	}

	// Should be reasonably long
	if len(key) < 20 {
		t.Fatalf("API key too short: %d chars", len(key))
	}

	// Two keys should be different
	key2, _ := GenerateAPIKey()
	if key == key2 {
		t.Fatal("GenerateAPIKey produced duplicate keys")
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if !strings.HasPrefix(token, constants.SessionTokenPrefix) {
		t.Fatalf("Session token should start with %q, got: %s", constants.SessionTokenPrefix, token[:8])
	}

	if len(token) < 20 {
		t.Fatalf("Session token too short: %d chars", len(token))
	}

	// Two tokens should be different
	token2, _ := GenerateSessionToken()
	if token == token2 {
		t.Fatal("GenerateSessionToken produced duplicate tokens")
	}
}

func TestGeneratePassword(t *testing.T) {
	password, err := GeneratePassword()
	if err != nil {
		t.Fatalf("GeneratePassword failed: %v", err)
	}

	if len(password) != constants.AuthPasswordGenLength {
		t.Fatalf("expected %d chars, got %d", constants.AuthPasswordGenLength, len(password))
	}

	password2, _ := GeneratePassword()
	if password == password2 {
		t.Fatal("GeneratePassword produced duplicate passwords")
	}
}

func TestExtractTokenPrefix(t *testing.T) {
	token := "gws_abcdefghijklmnop"
	prefix := ExtractTokenPrefix(token)

	if len(prefix) != constants.AuthTokenPrefixLength {
		t.Fatalf("expected prefix length %d, got %d", constants.AuthTokenPrefixLength, len(prefix))
	}
	if !strings.HasPrefix(token, prefix) {
		t.Fatal("prefix is not a prefix of the token")
	}

	// Short tokens are returned as-is
	if got := ExtractTokenPrefix("abc"); got != "abc" {
		t.Fatalf("expected short token unchanged, got %q", got)
	}
}

func TestTokenTypeDetection(t *testing.T) {
	apiKey, _ := GenerateAPIKey()
	sessionToken, _ := GenerateSessionToken()

	if !IsAPIKey(apiKey) {
		t.Error("IsAPIKey should recognize a generated API key")
	}
	if IsAPIKey(sessionToken) {
		t.Error("IsAPIKey should reject a session token")
	}
	if !IsSessionToken(sessionToken) {
		t.Error("IsSessionToken should recognize a generated session token")
	}
	if IsSessionToken(apiKey) {
		t.Error("IsSessionToken should reject an API key")
	}
}
