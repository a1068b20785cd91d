package email

import (
	"html/template"
	"strings"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<html>
<body style="font-family: sans-serif;">
  <h2>Welcome to ExpenSpend!</h2>
  <p>Please confirm your email address to activate your account.</p>
  <p><a href="{{.Link}}">Confirm my email</a></p>
  <p>If you did not sign up, you can safely ignore this message.</p>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("reset").Parse(`<html>
<body style="font-family: sans-serif;">
  <h2>Password reset requested</h2>
  <p>Click the link below to choose a new password. The link expires in one hour.</p>
  <p><a href="{{.Link}}">Reset my password</a></p>
  <p>If you did not request this, you can safely ignore this message.</p>
</body>
</html>`))

var passwordChangedTmpl = template.Must(template.New("changed").Parse(`<html>
<body style="font-family: sans-serif;">
  <h2>Hi {{.Name}},</h2>
  <p>Your ExpenSpend password was just changed. If this was you, no action is
  needed. If not, please reset your password immediately.</p>
</body>
</html>`))

// confirmationPageHTML is served back to the browser after a successful
// email confirmation.
const confirmationPageHTML = `<html>
<body style="font-family: sans-serif; text-align: center;">
  <h1>Email confirmed</h1>
  <p>Your ExpenSpend account is now active. You can close this tab and log in.</p>
</body>
</html>`

func renderConfirmation(link string) string {
	return render(confirmationTmpl, map[string]string{"Link": link})
}

func renderPasswordReset(link string) string {
	return render(passwordResetTmpl, map[string]string{"Link": link})
}

func renderPasswordChanged(name string) string {
	return render(passwordChangedTmpl, map[string]string{"Name": name})
}

func render(t *template.Template, data any) string {
	var sb strings.Builder
	// Templates are static and parsed at init; execution cannot fail on
	// string data.
	_ = t.Execute(&sb, data)
	return sb.String()
}
