// Package metrics expone contadores Prometheus del API y del webhook de pagos.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/jobboard-api/internal/application/ports"
)

var _ ports.WebhookMetrics = (*Metrics)(nil)

// Metrics registro propio (no el global) para que los tests no compartan estado.
type Metrics struct {
	registry   *prometheus.Registry
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	webhookCnt *prometheus.CounterVec
}

// New registra los collectors de proceso/Go y las métricas de la aplicación bajo namespace.
func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total",
		Help: "Peticiones HTTP por método, ruta y código.",
	}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds",
		Help: "Latencia de las peticiones HTTP.", Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	webhookCnt := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "payment_webhooks_total",
		Help: "Notificaciones de pago recibidas por resultado.",
	}, []string{"outcome"})
	r.MustRegister(httpReqCnt, httpDur, webhookCnt)

	return &Metrics{
		registry:   r,
		httpReqCnt: httpReqCnt,
		httpDur:    httpDur,
		webhookCnt: webhookCnt,
	}
}

// ObserveWebhook implementa ports.WebhookMetrics.
func (m *Metrics) ObserveWebhook(outcome string) {
	m.webhookCnt.WithLabelValues(outcome).Inc()
}

// ObserveHTTP registra una petición terminada. route es la ruta con parámetros (/company/:id).
func (m *Metrics) ObserveHTTP(method, route string, status int, since time.Time) {
	code := strconv.Itoa(status)
	m.httpReqCnt.WithLabelValues(method, route, code).Inc()
	m.httpDur.WithLabelValues(method, route, code).Observe(time.Since(since).Seconds())
}

// Handler sirve /metrics en formato de exposición Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
