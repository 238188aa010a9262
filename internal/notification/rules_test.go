// AngelaMos | 2026
// rules_test.go

package notification

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("BRT", -3*60*60)

func day(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, testLoc)
}

func TestStartOfDayUsesLocation(t *testing.T) {
	// 01:30 UTC on the 10th is still the 9th in BRT.
	now := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)

	got := StartOfDay(now, testLoc)

	assert.Equal(t, day(2026, 3, 9, 0), got)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), DateBucket(now, testLoc))
}

func TestSelectDueSoonBoundaries(t *testing.T) {
	today := day(2026, 3, 10, 0)

	cands := []PaymentCandidate{
		{PaymentID: "yesterday", Status: paymentPending, DueDate: today.AddDate(0, 0, -1)},
		{PaymentID: "today", Status: paymentPending, DueDate: today},
		{PaymentID: "today-late", Status: paymentPending, DueDate: today.Add(23 * time.Hour)},
		{PaymentID: "plus-3", Status: paymentPending, DueDate: today.AddDate(0, 0, 3)},
		{PaymentID: "plus-3-evening", Status: paymentPending, DueDate: today.AddDate(0, 0, 3).Add(20 * time.Hour)},
		{PaymentID: "plus-4", Status: paymentPending, DueDate: today.AddDate(0, 0, 4)},
		{PaymentID: "paid", Status: "PAID", DueDate: today.AddDate(0, 0, 1)},
	}

	got := SelectDueSoon(cands, today)

	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.PaymentID)
	}
	assert.Equal(t, []string{"today", "today-late", "plus-3", "plus-3-evening"}, ids)
}

func TestSelectOverdue(t *testing.T) {
	today := day(2026, 3, 10, 0)

	cands := []PaymentCandidate{
		{PaymentID: "late", Status: paymentPending, DueDate: today.Add(-time.Minute)},
		{PaymentID: "due-today", Status: paymentPending, DueDate: today},
		{PaymentID: "already", Status: paymentOverdue, DueDate: today.AddDate(0, -2, 0)},
		{PaymentID: "paid", Status: "PAID", DueDate: today.AddDate(0, 0, -5)},
		{PaymentID: "cancelled", Status: "CANCELLED", DueDate: today.AddDate(0, 0, -5)},
	}

	got := SelectOverdue(cands, today)

	require.Len(t, got, 2)
	assert.Equal(t, "late", got[0].PaymentID)
	assert.Equal(t, "already", got[1].PaymentID)

	assert.True(t, IsLate(got[0], today))
	assert.False(t, IsLate(got[1], today), "OVERDUE rows need no status correction")
}

func TestIsBirthday(t *testing.T) {
	dob := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "same day morning", now: day(2026, 3, 15, 9), want: true},
		{name: "same day late evening", now: day(2026, 3, 15, 23), want: true},
		{name: "day before", now: day(2026, 3, 14, 9), want: false},
		{name: "same day other month", now: day(2026, 4, 15, 9), want: false},
		{name: "utc already next day", now: time.Date(2026, 3, 16, 1, 0, 0, 0, time.UTC), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBirthday(dob, tt.now, testLoc))
		})
	}
}

func TestLeapDayBirthdayOnlyMatchesLeapYears(t *testing.T) {
	dob := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsBirthday(dob, day(2027, 2, 28, 9), testLoc))
	assert.False(t, IsBirthday(dob, day(2027, 3, 1, 9), testLoc))
	assert.True(t, IsBirthday(dob, day(2028, 2, 29, 9), testLoc))
}

func TestDueSoonLabel(t *testing.T) {
	today := day(2026, 3, 10, 0)

	tests := []struct {
		due  time.Time
		want string
	}{
		{due: today.Add(10 * time.Hour), want: "Hoje"},
		{due: today.AddDate(0, 0, 1), want: "Amanhã"},
		{due: today.AddDate(0, 0, 2).Add(18 * time.Hour), want: "Em 2 dias"},
		{due: today.AddDate(0, 0, 3), want: "Em 3 dias"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DueSoonLabel(DaysUntil(tt.due, today, testLoc)))
		})
	}
}

func TestMessages(t *testing.T) {
	today := day(2026, 3, 10, 0)
	c := PaymentCandidate{
		StudentName: "Maria Silva",
		Amount:      decimal.RequireFromString("120"),
		DueDate:     today.AddDate(0, 0, -1),
	}

	msg := OverdueMessage(c, testLoc)
	assert.Contains(t, msg, "Maria Silva")
	assert.Contains(t, msg, "120.00")
	assert.Contains(t, msg, "09/03/2026")

	c.DueDate = today.AddDate(0, 0, 1)
	c.Amount = decimal.RequireFromString("89.9")
	msg = DueSoonMessage(c, today, testLoc)
	assert.Contains(t, msg, "Amanhã")
	assert.Contains(t, msg, "89.90")
	assert.Contains(t, msg, "11/03/2026")

	assert.Contains(t, BirthdayMessage("João"), "João")
}

func TestGroupByInstructorIsSorted(t *testing.T) {
	items := []PaymentCandidate{
		{PaymentID: "1", InstructorID: "b"},
		{PaymentID: "2", InstructorID: "a"},
		{PaymentID: "3", InstructorID: "b"},
	}

	keys, groups := groupByInstructor(items, func(c PaymentCandidate) string { return c.InstructorID })

	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Len(t, groups["b"], 2)
	assert.Len(t, groups["a"], 1)
}
