// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

// StudentOwners resolves which instructor owns a student.
type StudentOwners interface {
	InstructorOf(ctx context.Context, studentID string) (string, error)
}

// Service is the inbox. Every call is confined to what the caller may see:
// admins see all notifications, everyone else only their own.
type Service struct {
	repo   Repository
	engine *Engine
	owners StudentOwners
	now    func() time.Time
}

func NewService(repo Repository, engine *Engine, owners StudentOwners) *Service {
	return &Service{repo: repo, engine: engine, owners: owners, now: time.Now}
}

func (s *Service) List(
	ctx context.Context,
	caller scope.Caller,
	params ListParams,
) ([]Notification, int, error) {
	params.Recipient = caller.RecipientFilter()
	return s.repo.List(ctx, params)
}

func (s *Service) Get(
	ctx context.Context,
	caller scope.Caller,
	id string,
) (*Notification, error) {
	return s.repo.GetByID(ctx, id, caller.RecipientFilter())
}

// Create addresses a notification by hand. Admins may write to anyone;
// managers only to themselves and only about their own students.
func (s *Service) Create(
	ctx context.Context,
	caller scope.Caller,
	req CreateNotificationRequest,
) (*Notification, error) {
	switch caller.Role {
	case scope.RoleAdmin:
	case scope.RoleManager:
		if req.UserID != caller.ID {
			return nil, fmt.Errorf("create notification for another user: %w", core.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("create notification: %w", core.ErrForbidden)
	}

	if req.StudentID != nil {
		owner, err := s.owners.InstructorOf(ctx, *req.StudentID)
		if err != nil {
			return nil, err
		}
		if err := caller.CheckOwnership(owner); err != nil {
			return nil, err
		}
	}

	t := req.Type
	if t == "" {
		t = TypeGeneral
	}

	n := &Notification{
		ID:         uuid.New().String(),
		UserID:     req.UserID,
		StudentID:  req.StudentID,
		Type:       t,
		Title:      req.Title,
		Message:    req.Message,
		DateBucket: DateBucket(s.now(), s.engine.Location()),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

func (s *Service) MarkAsRead(
	ctx context.Context,
	caller scope.Caller,
	id string,
) (*Notification, error) {
	return s.repo.MarkRead(ctx, id, caller.RecipientFilter(), s.now())
}

// MarkAllAsRead is a single bulk update over the caller's unread
// notifications and returns how many rows changed.
func (s *Service) MarkAllAsRead(ctx context.Context, caller scope.Caller) (int64, error) {
	return s.repo.MarkAllRead(ctx, caller.RecipientFilter(), s.now())
}

func (s *Service) Delete(ctx context.Context, caller scope.Caller, id string) error {
	return s.repo.Delete(ctx, id, caller.RecipientFilter())
}

func (s *Service) Stats(ctx context.Context, caller scope.Caller) (*Stats, error) {
	stats, err := s.repo.Stats(ctx, caller.RecipientFilter())
	if err != nil {
		return nil, err
	}
	if stats.ByType == nil {
		stats.ByType = make(map[Type]int, len(AllTypes))
	}
	for _, t := range AllTypes {
		if _, ok := stats.ByType[t]; !ok {
			stats.ByType[t] = 0
		}
	}
	return stats, nil
}

// Trigger runs one rule on behalf of the caller, scoped per audienceFor.
func (s *Service) Trigger(
	ctx context.Context,
	caller scope.Caller,
	rule Rule,
) (RuleResult, error) {
	return s.engine.Run(ctx, rule, &caller)
}
