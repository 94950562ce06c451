package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names understood by the email worker.
const (
	VerifyEmail = "verify_email"
)

var verifyEmailHTML = template.Must(template.New(VerifyEmail).Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h1>Confirm your email</h1>
    <p>Hi {{.FullName}},</p>
    <p>To activate your {{.CompanyName}} account, follow the link below:</p>
    <p><a href="{{.VerifyLink}}">Confirm Email</a></p>
    <p>If you did not create this account you can ignore this message.</p>
  </body>
</html>`))

// Render returns subject, text and html bodies for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case VerifyEmail:
		var buf bytes.Buffer
		if err = verifyEmailHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "Verify your email address"
		text = fmt.Sprintf("Confirm your %v account: %v", data["CompanyName"], data["VerifyLink"])
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
