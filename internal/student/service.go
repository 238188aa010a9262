// AngelaMos | 2026
// service.go

package student

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/gym-crm/internal/scope"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// InstructorOf returns the owner of a student without applying any scope.
// Payments and appointments use it to authorize writes on derived records.
func (s *Service) InstructorOf(ctx context.Context, studentID string) (string, error) {
	st, err := s.repo.GetByID(ctx, studentID, "")
	if err != nil {
		return "", err
	}
	return st.InstructorID, nil
}

// Create assigns the student to the caller. An admin may place it under
// another instructor; anyone else's instructor_id is ignored.
func (s *Service) Create(
	ctx context.Context,
	caller scope.Caller,
	req CreateStudentRequest,
) (*Student, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	owner := caller.ID
	if caller.IsAdmin() && req.InstructorID != nil && *req.InstructorID != "" {
		owner = *req.InstructorID
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	st := &Student{
		ID:                  uuid.New().String(),
		InstructorID:        owner,
		Name:                strings.TrimSpace(req.Name),
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:               req.Phone,
		DateOfBirth:         dob,
		Address:             req.Address,
		EmergencyContact:    req.EmergencyContact,
		MedicalRestrictions: req.MedicalRestrictions,
		Objectives:          req.Objectives,
		Plan:                req.Plan,
		Status:              status,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

// Get hides students outside the caller's scope as not found.
func (s *Service) Get(
	ctx context.Context,
	caller scope.Caller,
	id string,
) (*Student, error) {
	return s.repo.GetByID(ctx, id, caller.OwnerFilter())
}

func (s *Service) List(
	ctx context.Context,
	caller scope.Caller,
	params ListStudentsParams,
) ([]Student, int, error) {
	params.Owner = caller.OwnerFilter()
	return s.repo.List(ctx, params)
}

func (s *Service) Update(
	ctx context.Context,
	caller scope.Caller,
	id string,
	req UpdateStudentRequest,
) (*Student, error) {
	st, err := s.repo.GetByID(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if err := caller.CheckOwnership(st.InstructorID); err != nil {
		return nil, err
	}

	if req.InstructorID != nil && *req.InstructorID != st.InstructorID {
		if err := caller.RequireAdmin(); err != nil {
			return nil, fmt.Errorf("reassign student: %w", err)
		}
		st.InstructorID = *req.InstructorID
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		st.DateOfBirth = dob
	}
	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		st.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		st.Phone = *req.Phone
	}
	if req.Address != nil {
		st.Address = req.Address
	}
	if req.EmergencyContact != nil {
		st.EmergencyContact = req.EmergencyContact
	}
	if req.MedicalRestrictions != nil {
		st.MedicalRestrictions = req.MedicalRestrictions
	}
	if req.Objectives != nil {
		st.Objectives = req.Objectives
	}
	if req.Plan != nil {
		st.Plan = *req.Plan
	}
	if req.Status != nil {
		st.Status = *req.Status
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

// Delete is reserved to admins; it cascades to payments and appointments.
func (s *Service) Delete(ctx context.Context, caller scope.Caller, id string) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
