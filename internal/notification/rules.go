// AngelaMos | 2026
// rules.go

package notification

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	paymentPending = "PENDING"
	paymentOverdue = "OVERDUE"

	// dueSoonDays is how many days past today still count as due soon.
	dueSoonDays = 3

	dateLayout = "02/01/2006"
)

const (
	TitleOverdue  = "Pagamento em Atraso"
	TitleDueSoon  = "Pagamento Próximo do Vencimento"
	TitleBirthday = "Aniversário"
)

type PaymentCandidate struct {
	PaymentID    string          `db:"payment_id"`
	StudentID    string          `db:"student_id"`
	StudentName  string          `db:"student_name"`
	InstructorID string          `db:"instructor_id"`
	Amount       decimal.Decimal `db:"amount"`
	DueDate      time.Time       `db:"due_date"`
	Status       string          `db:"status"`
}

type BirthdayCandidate struct {
	StudentID    string    `db:"student_id"`
	StudentName  string    `db:"student_name"`
	InstructorID string    `db:"instructor_id"`
	DateOfBirth  time.Time `db:"date_of_birth"`
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DateBucket returns the local calendar day of t as a UTC midnight value,
// the representation Postgres DATE columns round-trip through.
func DateBucket(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsLate reports whether a payment is past due and still unpaid.
func IsLate(c PaymentCandidate, startOfToday time.Time) bool {
	return c.Status == paymentPending && c.DueDate.Before(startOfToday)
}

// SelectOverdue keeps payments already marked OVERDUE plus PENDING payments
// whose due date fell before today.
func SelectOverdue(cands []PaymentCandidate, startOfToday time.Time) []PaymentCandidate {
	out := make([]PaymentCandidate, 0, len(cands))
	for _, c := range cands {
		if c.Status == paymentOverdue || IsLate(c, startOfToday) {
			out = append(out, c)
		}
	}
	return out
}

// SelectDueSoon keeps PENDING payments due anywhere from the start of today
// through the end of the third day after it.
func SelectDueSoon(cands []PaymentCandidate, startOfToday time.Time) []PaymentCandidate {
	end := DueSoonEnd(startOfToday)
	out := make([]PaymentCandidate, 0, len(cands))
	for _, c := range cands {
		if c.Status != paymentPending {
			continue
		}
		if c.DueDate.Before(startOfToday) || !c.DueDate.Before(end) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// DueSoonEnd is the exclusive upper bound of the due-soon window.
func DueSoonEnd(startOfToday time.Time) time.Time {
	return startOfToday.AddDate(0, 0, dueSoonDays+1)
}

// IsBirthday compares month and day only. DateOfBirth is a calendar date, so
// its own fields are used without converting to loc; 29 February never
// matches in common years.
func IsBirthday(dob, now time.Time, loc *time.Location) bool {
	today := now.In(loc)
	return dob.Month() == today.Month() && dob.Day() == today.Day()
}

func SelectBirthdays(cands []BirthdayCandidate, now time.Time, loc *time.Location) []BirthdayCandidate {
	out := make([]BirthdayCandidate, 0, len(cands))
	for _, c := range cands {
		if IsBirthday(c.DateOfBirth, now, loc) {
			out = append(out, c)
		}
	}
	return out
}

// DaysUntil counts calendar days from today to the due date in loc.
func DaysUntil(due, startOfToday time.Time, loc *time.Location) int {
	d := StartOfDay(due, loc)
	return int(d.Sub(startOfToday).Hours()+12) / 24
}

func DueSoonLabel(days int) string {
	switch days {
	case 0:
		return "Hoje"
	case 1:
		return "Amanhã"
	default:
		return fmt.Sprintf("Em %d dias", days)
	}
}

func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

func OverdueMessage(c PaymentCandidate, loc *time.Location) string {
	return fmt.Sprintf(
		"O pagamento de %s no valor de R$ %s está em atraso desde %s",
		c.StudentName,
		FormatAmount(c.Amount),
		FormatDate(c.DueDate, loc),
	)
}

func DueSoonMessage(c PaymentCandidate, startOfToday time.Time, loc *time.Location) string {
	return fmt.Sprintf(
		"%s: o pagamento de %s no valor de R$ %s vence em %s",
		DueSoonLabel(DaysUntil(c.DueDate, startOfToday, loc)),
		c.StudentName,
		FormatAmount(c.Amount),
		FormatDate(c.DueDate, loc),
	)
}

func BirthdayMessage(name string) string {
	return fmt.Sprintf("Hoje é aniversário de %s! 🎉", name)
}

// groupByInstructor buckets items by owning instructor and returns the
// instructor ids in a stable order.
func groupByInstructor[T any](items []T, owner func(T) string) ([]string, map[string][]T) {
	groups := make(map[string][]T)
	for _, it := range items {
		id := owner(it)
		groups[id] = append(groups[id], it)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys, groups
}
