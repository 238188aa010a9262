// AngelaMos | 2026
// service.go

package workoutplan

import (
	"context"
	"fmt"

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
}

func NewService(repo Repository, owners StudentOwners) *Service {
	return &Service{repo: repo, owners: owners}
}

func (s *Service) List(
	ctx context.Context,
	caller scope.Caller,
	params ListWorkoutPlansParams,
) ([]WorkoutPlan, int, error) {
	params.Owner = caller.OwnerFilter()
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, caller scope.Caller, id string) (*WorkoutPlan, error) {
	return s.repo.GetByID(ctx, id, caller.OwnerFilter())
}

// Create prescribes a new active plan for a student the caller owns. The
// plan is signed by the student's instructor unless an admin names someone
// else.
func (s *Service) Create(
	ctx context.Context,
	caller scope.Caller,
	req CreateWorkoutPlanRequest,
) (*WorkoutPlan, error) {
	if err := checkWeights(req.Exercises); err != nil {
		return nil, err
	}

	owner, err := s.ownedStudent(ctx, caller, req.StudentID)
	if err != nil {
		return nil, err
	}

	instructor := owner
	if req.InstructorID != nil && *req.InstructorID != owner {
		if err := caller.RequireAdmin(); err != nil {
			return nil, err
		}
		instructor = *req.InstructorID
	}

	id := uuid.New().String()
	p := &WorkoutPlan{
		ID:           id,
		StudentID:    req.StudentID,
		OwnerID:      owner,
		InstructorID: instructor,
		Name:         req.Name,
		Description:  req.Description,
		IsActive:     true,
		Exercises:    toExercises(id, req.Exercises),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, p.ID, "")
}

func (s *Service) Update(
	ctx context.Context,
	caller scope.Caller,
	id string,
	req UpdateWorkoutPlanRequest,
) (*WorkoutPlan, error) {
	p, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	replace := req.Exercises != nil
	if replace {
		if err := checkWeights(*req.Exercises); err != nil {
			return nil, err
		}
		p.Exercises = toExercises(p.ID, *req.Exercises)
	}

	if err := s.repo.Update(ctx, p, replace); err != nil {
		return nil, err
	}

	return p, nil
}

// ToggleActive flips is_active and leaves the exercises untouched.
func (s *Service) ToggleActive(ctx context.Context, caller scope.Caller, id string) (*WorkoutPlan, error) {
	p, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	p.IsActive = !p.IsActive
	if err := s.repo.Update(ctx, p, false); err != nil {
		return nil, err
	}

	return p, nil
}

// Copy duplicates a plan with its exercises for another student. The caller
// must own both students. The copy is active and keeps the original
// instructor.
func (s *Service) Copy(
	ctx context.Context,
	caller scope.Caller,
	id string,
	req CopyWorkoutPlanRequest,
) (*WorkoutPlan, error) {
	src, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.ownedStudent(ctx, caller, req.StudentID)
	if err != nil {
		return nil, err
	}

	newID := uuid.New().String()
	exercises := make([]Exercise, 0, len(src.Exercises))
	for _, e := range src.Exercises {
		e.ID = uuid.New().String()
		e.WorkoutPlanID = newID
		exercises = append(exercises, e)
	}

	p := &WorkoutPlan{
		ID:           newID,
		StudentID:    req.StudentID,
		OwnerID:      owner,
		InstructorID: src.InstructorID,
		Name:         req.Name,
		Description:  src.Description,
		IsActive:     true,
		Exercises:    exercises,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, p.ID, "")
}

func (s *Service) Delete(ctx context.Context, caller scope.Caller, id string) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// owned loads a plan for a write. Unlike reads, a plan outside the caller's
// scope is reported as forbidden.
func (s *Service) owned(ctx context.Context, caller scope.Caller, id string) (*WorkoutPlan, error) {
	p, err := s.repo.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(p.OwnerID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ownedStudent(ctx context.Context, caller scope.Caller, studentID string) (string, error) {
	owner, err := s.owners.InstructorOf(ctx, studentID)
	if err != nil {
		return "", err
	}
	if err := caller.CheckOwnership(owner); err != nil {
		return "", err
	}
	return owner, nil
}

func checkWeights(reqs []ExerciseRequest) error {
	for i, req := range reqs {
		if req.Weight != nil && !req.Weight.IsPositive() {
			return fmt.Errorf("exercises[%d].weight must be positive: %w", i, core.ErrInvalidInput)
		}
	}
	return nil
}
