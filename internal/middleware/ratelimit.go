// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

type RateLimitConfig struct {
	// Prefix namespaces every key KeyFunc produces.
	Prefix  string
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
	Logger  *slog.Logger
}

// RateLimiter enforces a shared budget in Redis and degrades to a
// per-process token bucket while Redis is unreachable.
type RateLimiter struct {
	shared   *redis_rate.Limiter
	local    *localLimiter
	degraded atomic.Bool
	cfg      RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &RateLimiter{
		shared: redis_rate.NewLimiter(rdb),
		local:  newLocalLimiter(time.Now),
		cfg:    cfg,
	}
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: requests, Burst: burst, Period: time.Minute}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := rl.allow(r.Context(), rl.cfg.Prefix+rl.cfg.KeyFunc(r))

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset",
			strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

		if res.Allowed > 0 {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter := max(int(res.RetryAfter.Seconds()), 1)
		h.Set("Retry-After", strconv.Itoa(retryAfter))
		core.JSONError(w, core.NewAppError(
			http.StatusTooManyRequests,
			"RATE_LIMITED",
			fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter),
		))
	})
}

// allow logs only on transitions between Redis and the local fallback.
func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	res, err := rl.shared.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		if rl.degraded.CompareAndSwap(true, false) {
			rl.cfg.Logger.Info("rate limiter back on redis")
		}
		return res
	}

	if rl.degraded.CompareAndSwap(false, true) {
		rl.cfg.Logger.Warn("rate limiter using local fallback", "error", err)
	}
	return rl.local.allow(key, rl.cfg.Limit)
}

// ClientIP trusts the right-most X-Forwarded-For entry, the one appended
// by the proxy directly in front of the API.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + ClientIP(r)
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "ratelimit:user:" + userID
	}
	return KeyByIP(r)
}

// KeyByUserAndEndpoint gives each route its own budget per caller. Path
// segments that are UUIDs collapse to {id}.
func KeyByUserAndEndpoint(r *http.Request) string {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, s := range segments {
		if uuid.Validate(s) == nil {
			segments[i] = "{id}"
		}
	}
	return KeyByUser(r) + ":endpoint:/" + strings.Join(segments, "/")
}

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// localLimiter keeps one token bucket per key and sweeps idle buckets
// while serving requests.
type localLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	now       func() time.Time
	nextSweep time.Time
}

const (
	sweepInterval = 5 * time.Minute
	bucketIdleTTL = 10 * time.Minute
)

func newLocalLimiter(now func() time.Time) *localLimiter {
	return &localLimiter{buckets: make(map[string]*bucket), now: now}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSecond)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextSweep) {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > bucketIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = now.Add(sweepInterval)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		l.buckets[key] = b
	}
	b.seen = now

	res := &redis_rate.Result{Limit: limit, RetryAfter: -1, ResetAfter: interval}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(b.limiter.TokensAt(now)), 0)

	return res
}
