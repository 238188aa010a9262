// AngelaMos | 2026
// entity.go

package notification

import (
	"context"
	"time"
)

type Type string

const (
	TypePaymentDue          Type = "PAYMENT_DUE"
	TypePaymentOverdue      Type = "PAYMENT_OVERDUE"
	TypeBirthday            Type = "BIRTHDAY"
	TypeAppointmentReminder Type = "APPOINTMENT_REMINDER"
	TypePlanExpiring        Type = "PLAN_EXPIRING"
	TypeGeneral             Type = "GENERAL"
)

var AllTypes = []Type{
	TypePaymentDue,
	TypePaymentOverdue,
	TypeBirthday,
	TypeAppointmentReminder,
	TypePlanExpiring,
	TypeGeneral,
}

func (t Type) Valid() bool {
	for _, v := range AllTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Notification is immutable after creation apart from its read state.
// DateBucket is the calendar day, in the scheduler timezone, the row was
// generated for; rule-generated rows are unique per (type, student,
// recipient, bucket).
type Notification struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	StudentID  *string    `db:"student_id"`
	Type       Type       `db:"type"`
	Title      string     `db:"title"`
	Message    string     `db:"message"`
	IsRead     bool       `db:"is_read"`
	ReadAt     *time.Time `db:"read_at"`
	DateBucket time.Time  `db:"date_bucket"`
	CreatedAt  time.Time  `db:"created_at"`
}

type Stats struct {
	Total        int          `json:"total"`
	Unread       int          `json:"unread"`
	HighPriority int          `json:"high_priority"`
	ByType       map[Type]int `json:"by_type"`
}

// Contact is where a recipient can be reached outside the inbox.
type Contact struct {
	ID    string
	Name  string
	Email string
}

type UserDirectory interface {
	Contact(ctx context.Context, userID string) (Contact, error)
}
