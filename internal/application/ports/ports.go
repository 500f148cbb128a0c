package ports

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Clock fuente de tiempo inyectable; los casos de uso nunca llaman time.Now directamente
// para que vencimientos y "pedido activo" sean deterministas en tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reloj real en UTC.
type SystemClock struct{}

// Now devuelve la hora actual en UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Upload archivo recibido en una petición multipart.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FileStorage puerto de salida para guardar logos y licencias.
// Save devuelve la URI pública del archivo; Delete acepta esa misma URI.
type FileStorage interface {
	Save(ctx context.Context, folder string, file Upload) (string, error)
	Delete(ctx context.Context, uri string) error
}

// PaymentSlip datos de la orden de transferencia que se entrega a la empresa.
type PaymentSlip struct {
	OrderID         string
	CompanyName     string
	TaxCode         string
	PackageName     string
	NumPost         int
	DurationDay     int
	Amount          decimal.Decimal
	TransferContent string
	BankAccount     string
	BankName        string
	Status          string
	CreatedAt       time.Time
	EndDate         time.Time
}

// PaymentSlipGenerator genera el PDF de la orden de transferencia.
type PaymentSlipGenerator interface {
	Generate(ctx context.Context, slip PaymentSlip) ([]byte, error)
}

// WebhookMetrics contador de notificaciones de pago por resultado.
type WebhookMetrics interface {
	ObserveWebhook(outcome string)
}

// NopWebhookMetrics descarta las observaciones.
type NopWebhookMetrics struct{}

func (NopWebhookMetrics) ObserveWebhook(string) {}

// PasswordResetMail email con el enlace de recuperación de contraseña.
type PasswordResetMail struct {
	To        string
	ResetLink string
	ExpiresAt time.Time
}

// Mailer puerto de salida para emails transaccionales.
type Mailer interface {
	SendPasswordReset(ctx context.Context, mail PasswordResetMail) error
}
