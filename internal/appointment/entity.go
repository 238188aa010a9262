// AngelaMos | 2026
// entity.go

package appointment

import (
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusNoShow    = "NO_SHOW"

	TypePersonalTraining = "PERSONAL_TRAINING"
	TypeAssessment       = "ASSESSMENT"
	TypeConsultation     = "CONSULTATION"
)

// Appointment is visible to whoever owns its student. InstructorID is the
// instructor running the session, which may differ from the owner.
type Appointment struct {
	ID           string    `db:"id"`
	StudentID    string    `db:"student_id"`
	StudentName  string    `db:"student_name"`
	OwnerID      string    `db:"owner_id"`
	InstructorID string    `db:"instructor_id"`
	StartTime    time.Time `db:"start_time"`
	EndTime      time.Time `db:"end_time"`
	Type         string    `db:"type"`
	Status       string    `db:"status"`
	Notes        *string   `db:"notes"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Slot is a time range an instructor already has booked.
type Slot struct {
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time"   json:"end_time"`
}
