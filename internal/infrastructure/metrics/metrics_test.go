package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveWebhook_CuentaPorResultado(t *testing.T) {
	m := New("jobboard")

	m.ObserveWebhook("SUCCESS")
	m.ObserveWebhook("SUCCESS")
	m.ObserveWebhook("FAILED")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.webhookCnt.WithLabelValues("SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookCnt.WithLabelValues("FAILED")))
}

func TestObserveHTTP(t *testing.T) {
	m := New("jobboard")

	m.ObserveHTTP("GET", "/api/v1/company/order/:id", 404, time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpReqCnt.WithLabelValues("GET", "/api/v1/company/order/:id", "404")))
}

func TestHandler_ExponeMetricas(t *testing.T) {
	m := New("jobboard")
	m.ObserveWebhook("IGNORED")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `jobboard_payment_webhooks_total{outcome="IGNORED"} 1`))
}
