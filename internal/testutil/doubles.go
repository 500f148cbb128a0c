package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
)

// FakeClock reloj manual.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFakeClock crea un reloj detenido en t.
func NewFakeClock(t time.Time) *FakeClock { return &FakeClock{t: t} }

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance adelanta el reloj d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// MemStorage almacenamiento en memoria; URIs "mem://<folder>/<n>-<filename>".
type MemStorage struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Deleted []string
	n       int

	// Save falla con SaveErr desde la llamada número FailOnSave (base 1); 0 = nunca.
	SaveErr    error
	FailOnSave int
	DeleteErr  error
}

// NewMemStorage crea un almacenamiento vacío.
func NewMemStorage() *MemStorage { return &MemStorage{Files: map[string][]byte{}} }

func (m *MemStorage) Save(_ context.Context, folder string, f ports.Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	if m.FailOnSave > 0 && m.n >= m.FailOnSave {
		return "", m.SaveErr
	}
	var buf bytes.Buffer
	if f.Content != nil {
		if _, err := io.Copy(&buf, f.Content); err != nil {
			return "", err
		}
	}
	uri := fmt.Sprintf("mem://%s/%d-%s", folder, m.n, f.Filename)
	m.Files[uri] = buf.Bytes()
	return uri, nil
}

func (m *MemStorage) Delete(_ context.Context, uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, uri)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Files, uri)
	return nil
}

// Count número de archivos almacenados.
func (m *MemStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Files)
}

// Upload construye un ports.Upload en memoria.
func Upload(name, contentType string, body []byte) *ports.Upload {
	return &ports.Upload{Filename: name, ContentType: contentType, Size: int64(len(body)), Content: bytes.NewReader(body)}
}

// RecordingMetrics cuenta observaciones por resultado.
type RecordingMetrics struct {
	mu       sync.Mutex
	Outcomes map[string]int
}

func NewRecordingMetrics() *RecordingMetrics { return &RecordingMetrics{Outcomes: map[string]int{}} }

func (m *RecordingMetrics) ObserveWebhook(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes[outcome]++
}

// StubSlipGenerator devuelve un PDF mínimo y guarda el último slip recibido.
type StubSlipGenerator struct {
	Last *ports.PaymentSlip
}

func (g *StubSlipGenerator) Generate(_ context.Context, slip ports.PaymentSlip) ([]byte, error) {
	g.Last = &slip
	return []byte("%PDF-1.4 stub"), nil
}

// RecordingMailer guarda los emails enviados; Err hace fallar el envío.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []ports.PasswordResetMail
	Err  error
}

func (m *RecordingMailer) SendPasswordReset(_ context.Context, mail ports.PasswordResetMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, mail)
	return nil
}

// Last último email enviado; entra en pánico si no hubo ninguno.
func (m *RecordingMailer) Last() ports.PasswordResetMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		panic("testutil: no se envió ningún email")
	}
	return m.Sent[len(m.Sent)-1]
}
