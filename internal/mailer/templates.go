package mailer

import "strings"

// Template variable placeholders.
const (
	VarBaseURL     = "{{base_url}}"
	VarToken       = "{{token}}"
	VarDisplayName = "{{display_name}}"
)

const verifySubject = "Verify your email address"

const verifyBody = `Hi {{display_name}},

Welcome! Please confirm your email address by opening the link below:

{{base_url}}/api/auth/verify-email?token={{token}}

The link expires in 24 hours. If you did not create this account, you can
ignore this message.
`

const resetSubject = "Reset your password"

const resetBody = `Hi {{display_name}},

A password reset was requested for your account. Open the link below to set
a new password:

{{base_url}}/reset-password?token={{token}}

The link expires in 1 hour. If you did not request a reset, no action is
needed; your password is unchanged.
`

// RenderVerification renders the email-verification message.
func RenderVerification(baseURL, displayName, token string) (subject, body string) {
	return verifySubject, render(verifyBody, baseURL, displayName, token)
}

// RenderPasswordReset renders the password-reset message.
func RenderPasswordReset(baseURL, displayName, token string) (subject, body string) {
	return resetSubject, render(resetBody, baseURL, displayName, token)
}

func render(tmpl, baseURL, displayName, token string) string {
	out := strings.ReplaceAll(tmpl, VarBaseURL, baseURL)
	out = strings.ReplaceAll(out, VarDisplayName, displayName)
	out = strings.ReplaceAll(out, VarToken, token)
	return out
}
