// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/gym-crm/internal/scheduler"
)

type fakeJobs struct {
	running bool
	entries []scheduler.JobInfo
}

func (f fakeJobs) Running() bool                 { return f.running }
func (f fakeJobs) Entries() []scheduler.JobInfo { return f.entries }

func passthrough(next http.Handler) http.Handler { return next }

func serve(t *testing.T, h *Handler, path string, dst any) int {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r, passthrough, passthrough)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	env := struct {
		Success bool `json:"success"`
		Data    any  `json:"data"`
	}{Data: dst}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	return rec.Code
}

func TestSystemStats(t *testing.T) {
	next := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	h := NewHandler(HandlerConfig{
		DBStats: func() sql.DBStats {
			return sql.DBStats{MaxOpenConnections: 25, OpenConnections: 3, InUse: 1, Idle: 2}
		},
		DBPing:     func(context.Context) error { return nil },
		RedisStats: func() *redis.PoolStats { return &redis.PoolStats{Hits: 7, TotalConns: 4} },
		RedisPing:  func(context.Context) error { return errors.New("connection refused") },
		Jobs: fakeJobs{running: true, entries: []scheduler.JobInfo{
			{Name: "daily-birthday", Spec: "0 9 * * *", Next: next},
		}},
		Timezone: "America/Sao_Paulo",
	})

	var stats SystemStatsResponse
	code := serve(t, h, "/admin/stats", &stats)
	require.Equal(t, http.StatusOK, code)

	assert.True(t, stats.Database.Healthy)
	require.NotNil(t, stats.Database.Stats)
	assert.Equal(t, 25, stats.Database.Stats.MaxOpenConnections)

	assert.False(t, stats.Redis.Healthy)
	require.NotNil(t, stats.Redis.Stats)
	assert.Equal(t, uint32(7), stats.Redis.Stats.Hits)

	assert.True(t, stats.Scheduler.Running)
	assert.Equal(t, "America/Sao_Paulo", stats.Scheduler.Timezone)
	require.Len(t, stats.Scheduler.Jobs, 1)
	assert.Equal(t, next, stats.Scheduler.Jobs[0].Next)

	assert.NotEmpty(t, stats.Runtime.GoVersion)
}

func TestSchedulerStatusWhenStopped(t *testing.T) {
	h := NewHandler(HandlerConfig{Jobs: fakeJobs{}})

	var status SchedulerStatus
	code := serve(t, h, "/admin/scheduler", &status)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, status.Running)
	assert.NotNil(t, status.Jobs)
	assert.Empty(t, status.Jobs)
}

func TestMissingCollectorsAreOmitted(t *testing.T) {
	h := NewHandler(HandlerConfig{})

	var stats SystemStatsResponse
	serve(t, h, "/admin/stats", &stats)
	assert.True(t, stats.Database.Healthy)
	assert.Nil(t, stats.Database.Stats)
	assert.Nil(t, stats.Redis.Stats)
}
