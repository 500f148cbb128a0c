package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jobboard-api/pkg/logger"
)

func newRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, "jobboard", logger.Nop()), mr
}

// ──────────────────────────────────────────────────────────────────────────────
// Redis
// ──────────────────────────────────────────────────────────────────────────────

func TestRedisLimiter_BloqueaAlSuperarLimite(t *testing.T) {
	l, mr := newRedisLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "login:1.2.3.4", 3, time.Minute), "petición %d", i+1)
	}
	assert.False(t, l.Allow(ctx, "login:1.2.3.4", 3, time.Minute))
	assert.True(t, l.Allow(ctx, "login:5.6.7.8", 3, time.Minute), "otra IP tiene su propio contador")

	assert.True(t, mr.Exists("jobboard:login:1.2.3.4"))
	assert.Greater(t, mr.TTL("jobboard:login:1.2.3.4"), time.Duration(0))
}

func TestRedisLimiter_VentanaExpira(t *testing.T) {
	l, mr := newRedisLimiter(t)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "k", 1, time.Minute))
	assert.False(t, l.Allow(ctx, "k", 1, time.Minute))

	mr.FastForward(time.Minute + time.Second)
	assert.True(t, l.Allow(ctx, "k", 1, time.Minute))
}

func TestRedisLimiter_RedisCaidoPermite(t *testing.T) {
	l, mr := newRedisLimiter(t)
	mr.Close()

	assert.True(t, l.Allow(context.Background(), "k", 1, time.Minute))
	assert.True(t, l.Allow(context.Background(), "k", 1, time.Minute))
}

// ──────────────────────────────────────────────────────────────────────────────
// Memoria
// ──────────────────────────────────────────────────────────────────────────────

func TestMemoryLimiter_VentanaFija(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "k", 2, time.Minute))
	require.True(t, l.Allow(ctx, "k", 2, time.Minute))
	assert.False(t, l.Allow(ctx, "k", 2, time.Minute))

	now = now.Add(time.Minute)
	assert.True(t, l.Allow(ctx, "k", 2, time.Minute), "nueva ventana")
}

func TestMemoryLimiter_LimiteCeroDesactiva(t *testing.T) {
	l := NewMemoryLimiter()
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(context.Background(), "k", 0, time.Minute))
	}
}
