// AngelaMos | 2026
// entity.go

package payment

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusOverdue   = "OVERDUE"
	StatusCancelled = "CANCELLED"

	TypeMonthly      = "MONTHLY"
	TypeAnnual       = "ANNUAL"
	TypeRegistration = "REGISTRATION"
	TypeOther        = "OTHER"
)

// transitions lists where a payment may move through the API. OVERDUE is
// entered only by the overdue sweep, PAID and CANCELLED are final.
var transitions = map[string][]string{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusOverdue: {StatusPaid, StatusCancelled},
}

// CanTransition reports whether a payment in from may be set to to.
// Keeping the current status is always allowed.
func CanTransition(from, to string) bool {
	return from == to || slices.Contains(transitions[from], to)
}

// Payment belongs to one student. StudentName, StudentEmail and
// InstructorID are read through the owning student and never written.
type Payment struct {
	ID           string          `db:"id"`
	StudentID    string          `db:"student_id"`
	StudentName  string          `db:"student_name"`
	StudentEmail string          `db:"student_email"`
	InstructorID string          `db:"instructor_id"`
	Amount       decimal.Decimal `db:"amount"`
	DueDate      time.Time       `db:"due_date"`
	PaidDate     *time.Time      `db:"paid_date"`
	Status       string          `db:"status"`
	Type         string          `db:"type"`
	Description  *string         `db:"description"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
