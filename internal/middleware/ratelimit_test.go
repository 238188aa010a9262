// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/gym-crm/internal/scope"
)

func TestKeyFuncs(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost,
		"/api/notifications/check/0b8f8c7e-3c1e-4a59-9d6a-2f3b4c5d6e7f/run", nil)
	r.RemoteAddr = "192.0.2.10:4312"

	assert.Equal(t, "ratelimit:ip:192.0.2.10", KeyByIP(r))
	assert.Equal(t, "ratelimit:ip:192.0.2.10", KeyByUser(r))

	r = r.WithContext(scope.WithCaller(r.Context(), scope.Caller{ID: "user-7", Role: scope.RoleInstructor}))
	assert.Equal(t, "ratelimit:user:user-7", KeyByUser(r))
	assert.Equal(t,
		"ratelimit:user:user-7:endpoint:/api/notifications/check/{id}/run",
		KeyByUserAndEndpoint(r))
}

func TestLocalLimiterBucketsPerKey(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	l := newLocalLimiter(func() time.Time { return now })
	limit := PerMinute(60, 2)

	assert.Equal(t, 1, l.allow("a", limit).Allowed)
	assert.Equal(t, 1, l.allow("a", limit).Allowed)

	denied := l.allow("a", limit)
	assert.Equal(t, 0, denied.Allowed)
	assert.Equal(t, time.Second, denied.RetryAfter)

	assert.Equal(t, 1, l.allow("b", limit).Allowed, "other keys keep their own budget")

	now = now.Add(time.Second)
	assert.Equal(t, 1, l.allow("a", limit).Allowed, "one token refills per second")
}

func TestLocalLimiterSweepsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	l := newLocalLimiter(func() time.Time { return now })
	limit := PerMinute(60, 1)

	l.allow("idle", limit)
	now = now.Add(bucketIdleTTL + sweepInterval + time.Second)
	l.allow("fresh", limit)

	assert.NotContains(t, l.buckets, "idle")
	assert.Contains(t, l.buckets, "fresh")
}

func TestRateLimiterFallsBackWithoutRedis(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, RateLimitConfig{
		Prefix: "test:",
		Limit:  redis_rate.Limit{Rate: 1, Burst: 1, Period: time.Hour},
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.True(t, rl.degraded.Load())

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "RATE_LIMITED")
}
