package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// KasirWelcome carries what a new kasir needs for the first sign-in.
type KasirWelcome struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	LoginURL  string `json:"loginUrl"`
	ShiftFrom string `json:"shiftStart"`
	ShiftTo   string `json:"shiftEnd"`
}

var kasirWelcomeHTML = template.Must(template.New("kasir_welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #3b2a20;">
  <h2>Selamat datang di Aroma Kopi, {{.Name}}!</h2>
  <p>Akun kasir Anda sudah dibuat. Gunakan data berikut untuk masuk:</p>
  <table cellpadding="4">
    <tr><td>Email</td><td><strong>{{.Email}}</strong></td></tr>
    <tr><td>Password</td><td><strong>{{.Password}}</strong></td></tr>
    {{if .ShiftFrom}}<tr><td>Shift</td><td>{{.ShiftFrom}} - {{.ShiftTo}}</td></tr>{{end}}
  </table>
  <p><a href="{{.LoginURL}}">Masuk ke dashboard kasir</a></p>
  <p>Segera ganti password setelah login pertama.</p>
</body>
</html>`))

// Build renders the welcome email.
func (w KasirWelcome) Build() (Message, error) {
	var html bytes.Buffer
	if err := kasirWelcomeHTML.Execute(&html, w); err != nil {
		return Message{}, fmt.Errorf("render kasir welcome: %w", err)
	}

	text := fmt.Sprintf(
		"Selamat datang di Aroma Kopi, %s!\n\nEmail: %s\nPassword: %s\n\nMasuk di %s dan segera ganti password Anda.\n",
		w.Name, w.Email, w.Password, w.LoginURL,
	)

	return Message{
		To:      w.Email,
		Subject: "Akun Kasir Aroma Kopi",
		Text:    text,
		HTML:    html.String(),
	}, nil
}
