// AngelaMos | 2026
// dto.go

package appointment

import (
	"time"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

type CreateAppointmentRequest struct {
	StudentID    string    `json:"student_id"              validate:"required,uuid"`
	InstructorID *string   `json:"instructor_id,omitempty" validate:"omitempty,uuid"`
	StartTime    time.Time `json:"start_time"              validate:"required"`
	EndTime      time.Time `json:"end_time"                validate:"required,gtfield=StartTime"`
	Type         string    `json:"type"                    validate:"required,oneof=PERSONAL_TRAINING ASSESSMENT CONSULTATION"`
	Notes        *string   `json:"notes,omitempty"         validate:"omitempty,max=2000"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Type      *string    `json:"type,omitempty"   validate:"omitempty,oneof=PERSONAL_TRAINING ASSESSMENT CONSULTATION"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED NO_SHOW"`
	Notes     *string    `json:"notes,omitempty"  validate:"omitempty,max=2000"`
}

type AppointmentResponse struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	InstructorID string    `json:"instructor_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AvailabilityResponse struct {
	InstructorID string `json:"instructor_id"`
	Date         string `json:"date"`
	Busy         []Slot `json:"busy"`
}

type ListAppointmentsParams struct {
	core.PageParams
	Owner     string
	StudentID string
	Status    string
	From      *time.Time
	To        *time.Time
}

func ToAppointmentResponse(a *Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		StudentID:    a.StudentID,
		StudentName:  a.StudentName,
		InstructorID: a.InstructorID,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		Type:         a.Type,
		Status:       a.Status,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func ToAppointmentResponseList(items []Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(items))
	for i := range items {
		out = append(out, ToAppointmentResponse(&items[i]))
	}
	return out
}
