// AngelaMos | 2026
// scheduler_test.go

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/gym-crm/internal/config"
	"github.com/carterperez-dev/gym-crm/internal/notification"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

type recordingRunner struct {
	mu      sync.Mutex
	calls   []notification.Rule
	callers []*scope.Caller
	fail    map[notification.Rule]error
}

func (r *recordingRunner) Run(
	_ context.Context,
	rule notification.Rule,
	caller *scope.Caller,
) (notification.RuleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, rule)
	r.callers = append(r.callers, caller)
	if err := r.fail[rule]; err != nil {
		return notification.RuleResult{Rule: rule}, err
	}
	return notification.RuleResult{Rule: rule, Created: 1}, nil
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:      true,
		Timezone:     "UTC",
		DailySpec:    "0 9 * * *",
		FrequentSpec: "0 */6 * * *",
	}
}

func newTestScheduler(t *testing.T, runner RuleRunner, cfg config.SchedulerConfig, extra ...Job) *Scheduler {
	t.Helper()

	s, err := New(runner, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), extra...)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint:errcheck // cleanup
		_ = s.Stop(context.Background())
	})
	return s
}

func TestNewRejectsUnknownTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	_, err := New(&recordingRunner{}, cfg, nil)
	assert.Error(t, err)
}

func TestStartIsIdempotent(t *testing.T) {
	s := newTestScheduler(t, &recordingRunner{}, testConfig())

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())

	entries := s.Entries()
	require.Len(t, entries, 4)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
		assert.False(t, e.Next.IsZero(), e.Name)
	}
	assert.Equal(t, []string{
		"daily-payment-overdue",
		"daily-payment-due",
		"daily-birthday",
		"frequent-payment-overdue",
	}, names)
}

func TestDailyJobsRunAtConfiguredWallClock(t *testing.T) {
	cfg := testConfig()
	cfg.Timezone = "America/Sao_Paulo"
	s, err := New(&recordingRunner{}, cfg, nil)
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}
	require.NoError(t, s.Start())
	t.Cleanup(func() {
		//nolint:errcheck // cleanup
		_ = s.Stop(context.Background())
	})

	loc, err := time.LoadLocation(cfg.Timezone)
	require.NoError(t, err)

	for _, e := range s.Entries() {
		next := e.Next.In(loc)
		switch e.Name {
		case "frequent-payment-overdue":
			assert.Zero(t, next.Hour()%6, e.Name)
		default:
			assert.Equal(t, 9, next.Hour(), e.Name)
		}
		assert.Zero(t, next.Minute(), e.Name)
	}
}

func TestExtraJobsAreRegistered(t *testing.T) {
	s := newTestScheduler(t, &recordingRunner{}, testConfig(), Job{
		Name: "purge",
		Spec: "30 3 * * *",
		Run:  func(context.Context) error { return nil },
	})

	require.NoError(t, s.Start())
	entries := s.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "purge", entries[4].Name)
}

func TestStartRejectsBadSpec(t *testing.T) {
	cfg := testConfig()
	cfg.FrequentSpec = "every now and then"
	s := newTestScheduler(t, &recordingRunner{}, cfg)

	assert.Error(t, s.Start())
	assert.False(t, s.Running())
}

func TestStopIsSafe(t *testing.T) {
	s := newTestScheduler(t, &recordingRunner{}, testConfig())
	ctx := context.Background()

	require.NoError(t, s.Stop(ctx), "stop before start")

	require.NoError(t, s.Start())
	assert.True(t, s.Running())

	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.Running())
	assert.Nil(t, s.Entries())

	require.NoError(t, s.Stop(ctx), "second stop")

	require.NoError(t, s.Start(), "restart after stop")
	assert.Len(t, s.Entries(), 4)
}

func TestCheckReflectsLifecycle(t *testing.T) {
	s := newTestScheduler(t, &recordingRunner{}, testConfig())
	ctx := context.Background()

	assert.Error(t, s.Check(ctx))
	require.NoError(t, s.Start())
	assert.NoError(t, s.Check(ctx))

	cfg := testConfig()
	cfg.Enabled = false
	disabled := newTestScheduler(t, &recordingRunner{}, cfg)
	assert.NoError(t, disabled.Check(ctx), "a disabled scheduler is not a readiness failure")
}

func TestRunManualCheckRunsEveryRuleUnscoped(t *testing.T) {
	runner := &recordingRunner{}
	s := newTestScheduler(t, runner, testConfig())

	results, err := s.RunManualCheck(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, notification.RuleOverdue, results[0].Rule)
	assert.Equal(t, notification.RuleDueSoon, results[1].Rule)
	assert.Equal(t, notification.RuleBirthday, results[2].Rule)

	assert.ElementsMatch(t, []notification.Rule{
		notification.RuleOverdue,
		notification.RuleDueSoon,
		notification.RuleBirthday,
	}, runner.calls)
	for _, c := range runner.callers {
		assert.Nil(t, c)
	}
}

func TestRunManualCheckJoinsErrors(t *testing.T) {
	errBirthday := errors.New("birthday query failed")
	runner := &recordingRunner{fail: map[notification.Rule]error{
		notification.RuleBirthday: errBirthday,
	}}
	s := newTestScheduler(t, runner, testConfig())

	results, err := s.RunManualCheck(context.Background())
	require.ErrorIs(t, err, errBirthday)

	assert.Equal(t, 3, runner.count(), "one failing rule does not stop the others")
	assert.Equal(t, 1, results[0].Created)
	assert.Equal(t, 1, results[1].Created)
}

func TestWrappedJobSwallowsErrors(t *testing.T) {
	s := newTestScheduler(t, &recordingRunner{}, testConfig())

	ran := false
	fn := s.wrap(context.Background(), Job{
		Name: "broken",
		Run: func(context.Context) error {
			ran = true
			return errors.New("boom")
		},
	})

	assert.NotPanics(t, fn)
	assert.True(t, ran)
}

func TestRuleJobRunsUnscoped(t *testing.T) {
	runner := &recordingRunner{}
	s := newTestScheduler(t, runner, testConfig())

	require.NoError(t, s.ruleJob(notification.RuleOverdue)(context.Background()))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, notification.RuleOverdue, runner.calls[0])
	assert.Nil(t, runner.callers[0])
}

func TestRunOnStartTriggersManualCheck(t *testing.T) {
	runner := &recordingRunner{}
	cfg := testConfig()
	cfg.RunOnStart = true
	s := newTestScheduler(t, runner, cfg)

	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool { return runner.count() == 3 },
		2*time.Second, 10*time.Millisecond)
}
