package mailer

import (
	"strings"
	"testing"
)

func TestRenderVerification(t *testing.T) {
	subject, body := RenderVerification("http://localhost:4000", "Alice", "tok123")

	if subject == "" {
		t.Error("expected non-empty subject")
	}
	if !strings.Contains(body, "Hi Alice,") {
		t.Error("expected display name in greeting")
	}
	if !strings.Contains(body, "http://localhost:4000/api/auth/verify-email?token=tok123") {
		t.Errorf("expected verification link, got:\n%s", body)
	}
	if strings.Contains(body, "{{") {
		t.Errorf("unrendered placeholder left in body:\n%s", body)
	}
}

func TestRenderPasswordReset(t *testing.T) {
	subject, body := RenderPasswordReset("https://example.com", "Bob", "tok456")

	if subject == "" {
		t.Error("expected non-empty subject")
	}
	if !strings.Contains(body, "https://example.com/reset-password?token=tok456") {
		t.Errorf("expected reset link, got:\n%s", body)
	}
	if strings.Contains(body, "{{") {
		t.Errorf("unrendered placeholder left in body:\n%s", body)
	}
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("no-reply@example.com", "user@example.com", "Subject line", "Body text"))

	for _, want := range []string{
		"From: no-reply@example.com\r\n",
		"To: user@example.com\r\n",
		"Subject: Subject line\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	// Headers and body are separated by a blank line.
	if !strings.Contains(msg, "\r\n\r\nBody text") {
		t.Error("expected blank line before body")
	}
}
