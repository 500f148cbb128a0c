package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPConfig servidor de salida. Port 465 usa TLS implícito; el resto STARTTLS.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer envía los emails con gomail.
type SMTPMailer struct {
	from string
	send func(msgs ...*gomail.Message) error
	log  *logger.Logger
}

// NewSMTPMailer construye el adaptador; la conexión se abre en cada envío.
func NewSMTPMailer(cfg SMTPConfig, log *logger.Logger) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPMailer{from: cfg.From, send: d.DialAndSend, log: log.Component("mail")}
}

const resetSubject = "Restablecer contraseña"

var resetTemplate = template.Must(template.New("password_reset").Parse(`<p>Hola,</p>
<p>Recibimos una solicitud para restablecer la contraseña de {{.To}}.</p>
<p><a href="{{.ResetLink}}">Restablecer contraseña</a></p>
<p>El enlace vence el {{.ExpiresAt.Format "02/01/2006 15:04"}} (UTC). Si no lo pediste, ignora este mensaje.</p>`))

// SendPasswordReset arma el mensaje HTML con alternativa en texto plano.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, mail ports.PasswordResetMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	html, err := renderPasswordReset(mail)
	if err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/plain", "Restablece tu contraseña en: "+mail.ResetLink)
	msg.AddAlternative("text/html", html)

	if err := m.send(msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	m.log.Info().Str("template", "password_reset").Str("to", mail.To).Msg("email enviado")
	return nil
}

func renderPasswordReset(mail ports.PasswordResetMail) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, mail); err != nil {
		return "", fmt.Errorf("render password_reset: %w", err)
	}
	return buf.String(), nil
}
