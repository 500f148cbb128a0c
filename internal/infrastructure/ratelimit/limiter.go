// Package ratelimit limita peticiones por clave (IP + ruta) en ventanas fijas.
// Con Redis el contador es compartido entre réplicas; sin Redis se usa memoria local.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/jobboard-api/pkg/logger"
)

// Limiter decide si una petición más cabe en la ventana actual de key.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// INCR + PEXPIRE atómicos: el TTL se fija sólo con el primer incremento de la ventana.
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter contador compartido en Redis.
type RedisLimiter struct {
	client  redis.UniversalClient
	prefix  string
	script  *redis.Script
	timeout time.Duration
	log     *logger.Logger
}

// NewRedisLimiter construye el limitador; prefix separa las claves de otras aplicaciones.
func NewRedisLimiter(client redis.UniversalClient, prefix string, log *logger.Logger) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		prefix:  prefix,
		script:  redis.NewScript(rateLimitScript),
		timeout: 250 * time.Millisecond,
		log:     log.Component("ratelimit"),
	}
}

// Allow deja pasar la petición si Redis no responde: un limitador caído no tumba el login.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if limit <= 0 || window <= 0 || key == "" {
		return true
	}
	redisKey := key
	if l.prefix != "" {
		redisKey = l.prefix + ":" + key
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{redisKey}, ttl, limit).Int64()
	if err != nil {
		l.log.Warn().Err(err).Str("key", redisKey).Msg("rate limit: redis no disponible, se permite la petición")
		return true
	}
	return allowed == 1
}

// MemoryLimiter ventanas fijas en memoria del proceso.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewMemoryLimiter construye el limitador local.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket), now: time.Now}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	if limit <= 0 || window <= 0 || key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || !now.Before(b.windowEnd) {
		l.sweep(now)
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	return true
}

// sweep descarta ventanas vencidas para que el mapa no crezca sin límite.
func (l *MemoryLimiter) sweep(now time.Time) {
	if len(l.buckets) < 1024 {
		return
	}
	for k, b := range l.buckets {
		if !now.Before(b.windowEnd) {
			delete(l.buckets, k)
		}
	}
}
