// AngelaMos | 2026
// service.go

package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

type StudentOwners interface {
	InstructorOf(ctx context.Context, studentID string) (string, error)
}

type Service struct {
	repo   Repository
	owners StudentOwners
	loc    *time.Location
}

type Option func(*Service)

// WithLocation sets the zone calendar days are read in. It defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewService(repo Repository, owners StudentOwners, opts ...Option) *Service {
	s := &Service{repo: repo, owners: owners, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(
	ctx context.Context,
	caller scope.Caller,
	params ListAppointmentsParams,
) ([]Appointment, int, error) {
	params.Owner = caller.OwnerFilter()
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, caller scope.Caller, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id, caller.OwnerFilter())
}

// Create books a session for a student the caller owns. The session runs
// under the student's instructor unless an admin names someone else.
func (s *Service) Create(
	ctx context.Context,
	caller scope.Caller,
	req CreateAppointmentRequest,
) (*Appointment, error) {
	owner, err := s.owners.InstructorOf(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(owner); err != nil {
		return nil, err
	}

	instructor := owner
	if req.InstructorID != nil && *req.InstructorID != owner {
		if err := caller.RequireAdmin(); err != nil {
			return nil, err
		}
		instructor = *req.InstructorID
	}

	a := &Appointment{
		ID:           uuid.New().String(),
		StudentID:    req.StudentID,
		OwnerID:      owner,
		InstructorID: instructor,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Type:         req.Type,
		Status:       StatusScheduled,
		Notes:        req.Notes,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, a.ID, "")
}

func (s *Service) Update(
	ctx context.Context,
	caller scope.Caller,
	id string,
	req UpdateAppointmentRequest,
) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(a.OwnerID); err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		a.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		a.EndTime = *req.EndTime
	}
	if !a.EndTime.After(a.StartTime) {
		return nil, fmt.Errorf("end_time must be after start_time: %w", core.ErrInvalidInput)
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.Notes != nil {
		a.Notes = req.Notes
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, caller scope.Caller, id string) error {
	a, err := s.repo.GetByID(ctx, id, "")
	if err != nil {
		return err
	}
	if err := caller.CheckOwnership(a.OwnerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Availability returns what instructorID already has booked on date, a
// YYYY-MM-DD day in the service location. Busy times carry no student
// data, so every authenticated caller may read them.
func (s *Service) Availability(ctx context.Context, instructorID, date string) ([]Slot, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD: %w", core.ErrInvalidInput)
	}
	return s.repo.BusySlots(ctx, instructorID, day, day.AddDate(0, 0, 1))
}
