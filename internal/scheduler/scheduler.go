// AngelaMos | 2026
// scheduler.go

// Package scheduler runs the notification rules on a fixed cadence.
//
// The daily run evaluates every rule once; the frequent run repeats only
// the overdue rule. All cron specs are evaluated in the configured timezone
// so the wall-clock time of a run does not depend on the host.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/gym-crm/internal/config"
	"github.com/carterperez-dev/gym-crm/internal/notification"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

const jobTimeout = 10 * time.Minute

type RuleRunner interface {
	Run(
		ctx context.Context,
		rule notification.Rule,
		caller *scope.Caller,
	) (notification.RuleResult, error)
}

// Job is an extra maintenance task registered next to the rules.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type JobInfo struct {
	Name string    `json:"name"`
	Spec string    `json:"spec"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev,omitempty"`
}

type Scheduler struct {
	runner RuleRunner
	cfg    config.SchedulerConfig
	loc    *time.Location
	logger *slog.Logger
	extra  []Job

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
	jobs   []registered
}

type registered struct {
	name string
	spec string
	id   cron.EntryID
}

func New(
	runner RuleRunner,
	cfg config.SchedulerConfig,
	logger *slog.Logger,
	extra ...Job,
) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		runner: runner,
		cfg:    cfg,
		loc:    loc,
		logger: logger.With("component", "scheduler"),
		extra:  extra,
	}, nil
}

func (s *Scheduler) definitions() []Job {
	jobs := []Job{
		{Name: "daily-payment-overdue", Spec: s.cfg.DailySpec, Run: s.ruleJob(notification.RuleOverdue)},
		{Name: "daily-payment-due", Spec: s.cfg.DailySpec, Run: s.ruleJob(notification.RuleDueSoon)},
		{Name: "daily-birthday", Spec: s.cfg.DailySpec, Run: s.ruleJob(notification.RuleBirthday)},
		{Name: "frequent-payment-overdue", Spec: s.cfg.FrequentSpec, Run: s.ruleJob(notification.RuleOverdue)},
	}
	return append(jobs, s.extra...)
}

// Start registers every job and starts the cron loop. Calling it while
// already running is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return nil
	}

	clog := cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)

	baseCtx, cancel := context.WithCancel(context.Background())

	defs := s.definitions()
	jobs := make([]registered, 0, len(defs))
	for _, def := range defs {
		id, err := c.AddFunc(def.Spec, s.wrap(baseCtx, def))
		if err != nil {
			cancel()
			return fmt.Errorf("register job %s: %w", def.Name, err)
		}
		jobs = append(jobs, registered{name: def.Name, spec: def.Spec, id: id})
	}

	c.Start()
	s.cron = c
	s.cancel = cancel
	s.jobs = jobs

	s.logger.Info("scheduler started",
		"timezone", s.loc.String(),
		"jobs", len(jobs),
	)

	if s.cfg.RunOnStart {
		go func() {
			if _, err := s.RunManualCheck(baseCtx); err != nil {
				s.logger.Error("startup check failed", "error", err)
			}
		}()
	}

	return nil
}

// Stop removes every job and waits for running ones to finish or for ctx
// to expire. It is safe to call when the scheduler is not running.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel, s.jobs = nil, nil, nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}

	for _, e := range c.Entries() {
		c.Remove(e.ID)
	}

	done := c.Stop()
	defer cancel()

	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Check is the readiness check: an enabled scheduler must be running.
func (s *Scheduler) Check(_ context.Context) error {
	if s.cfg.Enabled && !s.Running() {
		return errors.New("scheduler not running")
	}
	return nil
}

func (s *Scheduler) Entries() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		e := s.cron.Entry(j.id)
		out = append(out, JobInfo{
			Name: j.name,
			Spec: j.spec,
			Next: e.Next,
			Prev: e.Prev,
		})
	}
	return out
}

// RunManualCheck evaluates all three rules unscoped, concurrently, and
// returns once every one has finished. Results keep a fixed order:
// overdue, due soon, birthday.
func (s *Scheduler) RunManualCheck(ctx context.Context) ([]notification.RuleResult, error) {
	rules := []notification.Rule{
		notification.RuleOverdue,
		notification.RuleDueSoon,
		notification.RuleBirthday,
	}

	results := make([]notification.RuleResult, len(rules))
	errs := make([]error, len(rules))

	var g errgroup.Group
	for i, rule := range rules {
		g.Go(func() error {
			results[i], errs[i] = s.runner.Run(ctx, rule, nil)
			return nil
		})
	}
	//nolint:errcheck // per-rule errors are collected in errs
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (s *Scheduler) ruleJob(rule notification.Rule) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := s.runner.Run(ctx, rule, nil)
		return err
	}
}

// wrap turns a job into a cron func. Errors are logged and swallowed so a
// failing run never deregisters the job.
func (s *Scheduler) wrap(base context.Context, job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(base, jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			s.logger.Error("scheduled job failed",
				"job", job.Name,
				"duration", time.Since(start),
				"error", err,
			)
			return
		}
		s.logger.Debug("scheduled job done",
			"job", job.Name,
			"duration", time.Since(start),
		)
	}
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
