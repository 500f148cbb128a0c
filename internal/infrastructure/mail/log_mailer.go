// Package mail adaptadores del puerto ports.Mailer.
package mail

import (
	"context"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

var _ ports.Mailer = (*LogMailer)(nil)

// LogMailer entrega los emails al log estructurado en lugar de a un servidor SMTP.
// Sirve para desarrollo y para despliegues donde otro proceso consume el log.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el adaptador.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Component("mail")}
}

// SendPasswordReset registra destinatario, enlace y vencimiento.
func (m *LogMailer) SendPasswordReset(ctx context.Context, mail ports.PasswordResetMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.Info().
		Str("template", "password_reset").
		Str("to", mail.To).
		Str("reset_link", mail.ResetLink).
		Time("expires_at", mail.ExpiresAt).
		Msg("email de recuperación de contraseña")
	return nil
}
