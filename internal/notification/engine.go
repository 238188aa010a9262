// AngelaMos | 2026
// engine.go

package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	mailer "github.com/carterperez-dev/gym-crm/internal/mail"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

type Rule string

const (
	RuleOverdue  Rule = "payment_overdue"
	RuleDueSoon  Rule = "payment_due"
	RuleBirthday Rule = "birthday"
)

// RuleResult summarizes one sweep. Corrected counts PENDING payments moved
// to OVERDUE; Skipped counts notifications already sent today.
type RuleResult struct {
	Rule      Rule  `json:"rule"`
	Corrected int64 `json:"corrected"`
	Created   int   `json:"created"`
	Skipped   int   `json:"skipped"`
	Failed    int   `json:"failed"`
}

// Engine runs the detection rules. Every rule is idempotent per calendar day
// in loc for a given (rule, student, recipient).
type Engine struct {
	candidates Candidates
	repo       Repository
	loc        *time.Location
	now        func() time.Time
	logger     *slog.Logger
	tracer     trace.Tracer
	directory  UserDirectory
	sender     mailer.Sender
}

type EngineOption func(*Engine)

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) { e.tracer = t }
}

// WithMail e-mails overdue notices to their recipient. A nil sender
// disables mail.
func WithMail(directory UserDirectory, sender mailer.Sender) EngineOption {
	return func(e *Engine) {
		e.directory = directory
		e.sender = sender
	}
}

func NewEngine(
	candidates Candidates,
	repo Repository,
	loc *time.Location,
	logger *slog.Logger,
	opts ...EngineOption,
) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		candidates: candidates,
		repo:       repo,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
		tracer:     otel.Tracer("gym-crm/notification"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// audience decides who a sweep covers and who receives its notifications.
// The scheduler passes no caller: the sweep is unscoped and each record goes
// to its student's instructor. An admin caller is unscoped but receives
// everything. Anyone else only sweeps their own students.
type audience struct {
	owner     string
	recipient string
}

func audienceFor(caller *scope.Caller) audience {
	if caller == nil {
		return audience{}
	}
	if caller.IsAdmin() {
		return audience{recipient: caller.ID}
	}
	return audience{owner: caller.ID, recipient: caller.ID}
}

func (a audience) recipientFor(instructorID string) string {
	if a.recipient != "" {
		return a.recipient
	}
	return instructorID
}

func (e *Engine) CheckOverduePayments(
	ctx context.Context,
	caller *scope.Caller,
) (RuleResult, error) {
	res := RuleResult{Rule: RuleOverdue}
	ctx, span := e.startSpan(ctx, res.Rule, caller)
	defer span.End()

	now := e.now()
	today := StartOfDay(now, e.loc)
	aud := audienceFor(caller)

	cands, err := e.candidates.OverduePayments(ctx, aud.owner, today)
	if err != nil {
		return e.abort(ctx, span, res, err)
	}
	overdue := SelectOverdue(cands, today)

	var late []string
	for _, c := range overdue {
		if IsLate(c, today) {
			late = append(late, c.PaymentID)
		}
	}
	if len(late) > 0 {
		n, err := e.candidates.MarkOverdue(ctx, late, today)
		if err != nil {
			e.logger.ErrorContext(ctx, "status correction failed",
				"rule", res.Rule,
				"payments", len(late),
				"error", err,
			)
		}
		res.Corrected = n
	}

	instructors, groups := groupByInstructor(overdue, func(c PaymentCandidate) string {
		return c.InstructorID
	})
	for _, instructorID := range instructors {
		for _, c := range groups[instructorID] {
			n := e.draft(TypePaymentOverdue, aud.recipientFor(instructorID), c.StudentID, now)
			n.Title = TitleOverdue
			n.Message = OverdueMessage(c, e.loc)

			if e.emit(ctx, &res, n) {
				e.mail(ctx, n)
			}
		}
	}

	return e.finish(ctx, span, res, aud), nil
}

func (e *Engine) CheckDueSoonPayments(
	ctx context.Context,
	caller *scope.Caller,
) (RuleResult, error) {
	res := RuleResult{Rule: RuleDueSoon}
	ctx, span := e.startSpan(ctx, res.Rule, caller)
	defer span.End()

	now := e.now()
	today := StartOfDay(now, e.loc)
	aud := audienceFor(caller)

	cands, err := e.candidates.DueSoonPayments(ctx, aud.owner, today, DueSoonEnd(today))
	if err != nil {
		return e.abort(ctx, span, res, err)
	}

	instructors, groups := groupByInstructor(
		SelectDueSoon(cands, today),
		func(c PaymentCandidate) string { return c.InstructorID },
	)
	for _, instructorID := range instructors {
		for _, c := range groups[instructorID] {
			n := e.draft(TypePaymentDue, aud.recipientFor(instructorID), c.StudentID, now)
			n.Title = TitleDueSoon
			n.Message = DueSoonMessage(c, today, e.loc)
			e.emit(ctx, &res, n)
		}
	}

	return e.finish(ctx, span, res, aud), nil
}

func (e *Engine) CheckBirthdays(
	ctx context.Context,
	caller *scope.Caller,
) (RuleResult, error) {
	res := RuleResult{Rule: RuleBirthday}
	ctx, span := e.startSpan(ctx, res.Rule, caller)
	defer span.End()

	now := e.now()
	local := now.In(e.loc)
	aud := audienceFor(caller)

	cands, err := e.candidates.Birthdays(ctx, aud.owner, local.Month(), local.Day())
	if err != nil {
		return e.abort(ctx, span, res, err)
	}

	instructors, groups := groupByInstructor(
		SelectBirthdays(cands, now, e.loc),
		func(c BirthdayCandidate) string { return c.InstructorID },
	)
	for _, instructorID := range instructors {
		for _, c := range groups[instructorID] {
			n := e.draft(TypeBirthday, aud.recipientFor(instructorID), c.StudentID, now)
			n.Title = TitleBirthday
			n.Message = BirthdayMessage(c.StudentName)
			e.emit(ctx, &res, n)
		}
	}

	return e.finish(ctx, span, res, aud), nil
}

// Run dispatches to the rule by name.
func (e *Engine) Run(ctx context.Context, rule Rule, caller *scope.Caller) (RuleResult, error) {
	switch rule {
	case RuleOverdue:
		return e.CheckOverduePayments(ctx, caller)
	case RuleDueSoon:
		return e.CheckDueSoonPayments(ctx, caller)
	case RuleBirthday:
		return e.CheckBirthdays(ctx, caller)
	default:
		return RuleResult{Rule: rule}, fmt.Errorf("unknown rule %q", rule)
	}
}

func (e *Engine) draft(t Type, recipient, studentID string, now time.Time) *Notification {
	sid := studentID
	return &Notification{
		ID:         uuid.New().String(),
		UserID:     recipient,
		StudentID:  &sid,
		Type:       t,
		DateBucket: DateBucket(now, e.loc),
	}
}

// emit writes one notification. Failures are counted and logged so the rest
// of the batch still runs.
func (e *Engine) emit(ctx context.Context, res *RuleResult, n *Notification) bool {
	created, err := e.repo.CreateIfAbsent(ctx, n)
	switch {
	case err != nil:
		res.Failed++
		e.logger.WarnContext(ctx, "notification create failed",
			"rule", res.Rule,
			"user_id", n.UserID,
			"student_id", *n.StudentID,
			"error", err,
		)
		return false
	case !created:
		res.Skipped++
		return false
	default:
		res.Created++
		return true
	}
}

func (e *Engine) mail(ctx context.Context, n *Notification) {
	if e.sender == nil || e.directory == nil {
		return
	}

	contact, err := e.directory.Contact(ctx, n.UserID)
	if err != nil {
		e.logger.WarnContext(ctx, "mail recipient lookup failed",
			"user_id", n.UserID,
			"error", err,
		)
		return
	}
	if contact.Email == "" {
		return
	}

	err = e.sender.Send(ctx, mailer.Message{
		To:      mail.Address{Name: contact.Name, Address: contact.Email},
		Subject: n.Title,
		Text:    n.Message,
	})
	if err != nil {
		e.logger.WarnContext(ctx, "overdue mail failed",
			"user_id", n.UserID,
			"error", err,
		)
	}
}

func (e *Engine) startSpan(
	ctx context.Context,
	rule Rule,
	caller *scope.Caller,
) (context.Context, trace.Span) {
	trigger := "scheduler"
	if caller != nil {
		trigger = caller.Role
	}
	return e.tracer.Start(ctx, "notification.rule."+string(rule),
		trace.WithAttributes(
			attribute.String("rule", string(rule)),
			attribute.String("trigger", trigger),
		),
	)
}

func (e *Engine) abort(
	ctx context.Context,
	span trace.Span,
	res RuleResult,
	err error,
) (RuleResult, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "candidate query failed")
	e.logger.ErrorContext(ctx, "notification rule aborted",
		"rule", res.Rule,
		"error", err,
	)
	return res, fmt.Errorf("%s: %w", res.Rule, err)
}

func (e *Engine) finish(
	ctx context.Context,
	span trace.Span,
	res RuleResult,
	aud audience,
) RuleResult {
	span.SetAttributes(
		attribute.Int64("corrected", res.Corrected),
		attribute.Int("created", res.Created),
		attribute.Int("skipped", res.Skipped),
		attribute.Int("failed", res.Failed),
	)
	e.logger.InfoContext(ctx, "notification rule finished",
		"rule", res.Rule,
		"scoped", aud.owner != "",
		"corrected", res.Corrected,
		"created", res.Created,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res
}
