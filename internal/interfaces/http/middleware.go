package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jobboard-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// RateLimit limita por IP las peticiones a un grupo de rutas (name separa los contadores).
// Sin limiter o con limit <= 0 no limita.
func RateLimit(limiter ratelimit.Limiter, name string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || limit <= 0 {
			return c.Next()
		}
		if !limiter.Allow(c.UserContext(), name+":"+c.IP(), limit, window) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return fail(c, fiber.StatusTooManyRequests, ErrCodeTooManyRequests)
		}
		return c.Next()
	}
}

// httpObserver lo implementa *metrics.Metrics.
type httpObserver interface {
	ObserveHTTP(method, route string, status int, since time.Time)
}

// RequestLogger registra cada petición (método, ruta, status, latencia) y la cuenta en métricas.
func RequestLogger(log *logger.Logger, obs httpObserver) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// El ErrorHandler escribe la respuesta; se invoca aquí para conocer el status final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		route := c.Route().Path

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")

		if obs != nil {
			obs.ObserveHTTP(c.Method(), route, status, start)
		}
		return nil
	}
}
