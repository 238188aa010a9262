// AngelaMos | 2026
// dto.go

package student

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

const dateLayout = "2006-01-02"

type CreateStudentRequest struct {
	Name                string  `json:"name"                           validate:"required,min=2,max=100"`
	Email               string  `json:"email"                          validate:"required,email,max=255"`
	Phone               string  `json:"phone"                          validate:"required,min=8,max=30"`
	DateOfBirth         *string `json:"date_of_birth,omitempty"        validate:"omitempty,datetime=2006-01-02"`
	Address             *string `json:"address,omitempty"              validate:"omitempty,max=500"`
	EmergencyContact    *string `json:"emergency_contact,omitempty"    validate:"omitempty,max=200"`
	MedicalRestrictions *string `json:"medical_restrictions,omitempty" validate:"omitempty,max=2000"`
	Objectives          *string `json:"objectives,omitempty"           validate:"omitempty,max=2000"`
	Plan                string  `json:"plan"                           validate:"required,oneof=BASIC PREMIUM VIP"`
	Status              string  `json:"status,omitempty"               validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED PENDING"`
	InstructorID        *string `json:"instructor_id,omitempty"        validate:"omitempty,uuid"`
}

type UpdateStudentRequest struct {
	Name                *string `json:"name,omitempty"                 validate:"omitempty,min=2,max=100"`
	Email               *string `json:"email,omitempty"                validate:"omitempty,email,max=255"`
	Phone               *string `json:"phone,omitempty"                validate:"omitempty,min=8,max=30"`
	DateOfBirth         *string `json:"date_of_birth,omitempty"        validate:"omitempty,datetime=2006-01-02"`
	Address             *string `json:"address,omitempty"              validate:"omitempty,max=500"`
	EmergencyContact    *string `json:"emergency_contact,omitempty"    validate:"omitempty,max=200"`
	MedicalRestrictions *string `json:"medical_restrictions,omitempty" validate:"omitempty,max=2000"`
	Objectives          *string `json:"objectives,omitempty"           validate:"omitempty,max=2000"`
	Plan                *string `json:"plan,omitempty"                 validate:"omitempty,oneof=BASIC PREMIUM VIP"`
	Status              *string `json:"status,omitempty"               validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED PENDING"`
	InstructorID        *string `json:"instructor_id,omitempty"        validate:"omitempty,uuid"`
}

type StudentResponse struct {
	ID                  string    `json:"id"`
	InstructorID        string    `json:"instructor_id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	DateOfBirth         *string   `json:"date_of_birth,omitempty"`
	Address             *string   `json:"address,omitempty"`
	EmergencyContact    *string   `json:"emergency_contact,omitempty"`
	MedicalRestrictions *string   `json:"medical_restrictions,omitempty"`
	Objectives          *string   `json:"objectives,omitempty"`
	Plan                string    `json:"plan"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type ListStudentsParams struct {
	core.PageParams
	Owner  string
	Search string
	Status string
}

func ToStudentResponse(s *Student) StudentResponse {
	resp := StudentResponse{
		ID:                  s.ID,
		InstructorID:        s.InstructorID,
		Name:                s.Name,
		Email:               s.Email,
		Phone:               s.Phone,
		Address:             s.Address,
		EmergencyContact:    s.EmergencyContact,
		MedicalRestrictions: s.MedicalRestrictions,
		Objectives:          s.Objectives,
		Plan:                s.Plan,
		Status:              s.Status,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	if s.DateOfBirth != nil {
		dob := s.DateOfBirth.Format(dateLayout)
		resp.DateOfBirth = &dob
	}
	return resp
}

func ToStudentResponseList(items []Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(items))
	for i := range items {
		out = append(out, ToStudentResponse(&items[i]))
	}
	return out
}

// parseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("date_of_birth: %w", core.ErrInvalidInput)
	}
	return &t, nil
}
