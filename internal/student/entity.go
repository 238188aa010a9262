// AngelaMos | 2026
// entity.go

package student

import (
	"time"
)

const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusPending   = "PENDING"

	PlanBasic   = "BASIC"
	PlanPremium = "PREMIUM"
	PlanVIP     = "VIP"
)

// Student is owned by exactly one instructor. DateOfBirth is a calendar date
// and carries no meaningful time of day.
type Student struct {
	ID                  string     `db:"id"`
	InstructorID        string     `db:"instructor_id"`
	Name                string     `db:"name"`
	Email               string     `db:"email"`
	Phone               string     `db:"phone"`
	DateOfBirth         *time.Time `db:"date_of_birth"`
	Address             *string    `db:"address"`
	EmergencyContact    *string    `db:"emergency_contact"`
	MedicalRestrictions *string    `db:"medical_restrictions"`
	Objectives          *string    `db:"objectives"`
	Plan                string     `db:"plan"`
	Status              string     `db:"status"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}
