package mail_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
	"github.com/jhoicas/jobboard-api/internal/infrastructure/mail"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

func TestLogMailer_RegistraEnlace(t *testing.T) {
	var buf bytes.Buffer
	m := mail.NewLogMailer(logger.New(logger.Config{Env: "production", Level: "info", Out: &buf}))

	exp := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	err := m.SendPasswordReset(context.Background(), ports.PasswordResetMail{
		To: "hr@congty.vn", ResetLink: "https://vieclam.vn/reset/abc", ExpiresAt: exp,
	})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "mail", line["component"])
	assert.Equal(t, "password_reset", line["template"])
	assert.Equal(t, "hr@congty.vn", line["to"])
	assert.Equal(t, "https://vieclam.vn/reset/abc", line["reset_link"])
}

func TestLogMailer_ContextoCancelado(t *testing.T) {
	var buf bytes.Buffer
	m := mail.NewLogMailer(logger.New(logger.Config{Env: "production", Out: &buf}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.SendPasswordReset(ctx, ports.PasswordResetMail{To: "hr@congty.vn"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}
