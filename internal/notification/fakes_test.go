// AngelaMos | 2026
// fakes_test.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/gym-crm/internal/core"
	mailer "github.com/carterperez-dev/gym-crm/internal/mail"
)

type fakeStudent struct {
	id         string
	name       string
	instructor string
	dob        *time.Time
}

type fakePayment struct {
	id        string
	studentID string
	amount    decimal.Decimal
	due       time.Time
	status    string
}

// memCandidates answers candidate queries the way the SQL does, over an
// in-memory set of students and payments.
type memCandidates struct {
	mu       sync.Mutex
	students map[string]fakeStudent
	payments []*fakePayment

	queryErr   error
	markErr    error
	markCalls  int
	lastOwners []string
}

func newMemCandidates() *memCandidates {
	return &memCandidates{students: make(map[string]fakeStudent)}
}

func (m *memCandidates) addStudent(s fakeStudent) {
	m.students[s.id] = s
}

func (m *memCandidates) addPayment(p fakePayment) *fakePayment {
	m.payments = append(m.payments, &p)
	return m.payments[len(m.payments)-1]
}

func (m *memCandidates) candidate(p *fakePayment) PaymentCandidate {
	s := m.students[p.studentID]
	return PaymentCandidate{
		PaymentID:    p.id,
		StudentID:    s.id,
		StudentName:  s.name,
		InstructorID: s.instructor,
		Amount:       p.amount,
		DueDate:      p.due,
		Status:       p.status,
	}
}

func (m *memCandidates) owned(studentID, owner string) bool {
	return owner == "" || m.students[studentID].instructor == owner
}

func (m *memCandidates) OverduePayments(
	_ context.Context,
	owner string,
	today time.Time,
) ([]PaymentCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOwners = append(m.lastOwners, owner)
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	var out []PaymentCandidate
	for _, p := range m.payments {
		late := p.status == paymentPending && p.due.Before(today)
		if (p.status == paymentOverdue || late) && m.owned(p.studentID, owner) {
			out = append(out, m.candidate(p))
		}
	}
	return out, nil
}

func (m *memCandidates) DueSoonPayments(
	_ context.Context,
	owner string,
	from, to time.Time,
) ([]PaymentCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOwners = append(m.lastOwners, owner)
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	var out []PaymentCandidate
	for _, p := range m.payments {
		if p.status != paymentPending || p.due.Before(from) || !p.due.Before(to) {
			continue
		}
		if m.owned(p.studentID, owner) {
			out = append(out, m.candidate(p))
		}
	}
	return out, nil
}

func (m *memCandidates) Birthdays(
	_ context.Context,
	owner string,
	month time.Month,
	day int,
) ([]BirthdayCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOwners = append(m.lastOwners, owner)
	if m.queryErr != nil {
		return nil, m.queryErr
	}

	ids := make([]string, 0, len(m.students))
	for id := range m.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []BirthdayCandidate
	for _, id := range ids {
		s := m.students[id]
		if s.dob == nil || s.dob.Month() != month || s.dob.Day() != day {
			continue
		}
		if m.owned(s.id, owner) {
			out = append(out, BirthdayCandidate{
				StudentID:    s.id,
				StudentName:  s.name,
				InstructorID: s.instructor,
				DateOfBirth:  *s.dob,
			})
		}
	}
	return out, nil
}

func (m *memCandidates) MarkOverdue(
	_ context.Context,
	ids []string,
	today time.Time,
) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls++
	if m.markErr != nil {
		return 0, m.markErr
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var n int64
	for _, p := range m.payments {
		if want[p.id] && p.status == paymentPending && p.due.Before(today) {
			p.status = paymentOverdue
			n++
		}
	}
	return n, nil
}

// memRepo is an in-memory Repository that enforces the same daily key as
// the partial unique index.
type memRepo struct {
	mu      sync.Mutex
	items   []Notification
	failFor string
	seq     time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{seq: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *memRepo) stamp(n *Notification) {
	r.seq = r.seq.Add(time.Second)
	n.CreatedAt = r.seq
}

func (r *memRepo) Create(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stamp(n)
	r.items = append(r.items, *n)
	return nil
}

func (r *memRepo) CreateIfAbsent(_ context.Context, n *Notification) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failFor != "" && n.UserID == r.failFor {
		return false, errors.New("insert failed")
	}

	for _, it := range r.items {
		if it.StudentID == nil || n.StudentID == nil {
			continue
		}
		if it.Type == n.Type && *it.StudentID == *n.StudentID &&
			it.UserID == n.UserID && it.DateBucket.Equal(n.DateBucket) {
			return false, nil
		}
	}

	r.stamp(n)
	r.items = append(r.items, *n)
	return true, nil
}

func (r *memRepo) visible(n Notification, recipient string) bool {
	return recipient == "" || n.UserID == recipient
}

func (r *memRepo) GetByID(_ context.Context, id, recipient string) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items {
		if it.ID == id && r.visible(it, recipient) {
			return &it, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *memRepo) List(_ context.Context, params ListParams) ([]Notification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	params.Normalize()

	var matched []Notification
	for i := len(r.items) - 1; i >= 0; i-- {
		it := r.items[i]
		if !r.visible(it, params.Recipient) {
			continue
		}
		if params.Type != "" && it.Type != params.Type {
			continue
		}
		if params.IsRead != nil && it.IsRead != *params.IsRead {
			continue
		}
		matched = append(matched, it)
	}

	start := min(params.Offset(), len(matched))
	end := min(start+params.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (r *memRepo) MarkRead(
	_ context.Context,
	id, recipient string,
	at time.Time,
) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		it := &r.items[i]
		if it.ID != id || !r.visible(*it, recipient) {
			continue
		}
		if !it.IsRead {
			it.IsRead = true
			it.ReadAt = &at
		}
		out := *it
		return &out, nil
	}
	return nil, core.ErrNotFound
}

func (r *memRepo) MarkAllRead(_ context.Context, recipient string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for i := range r.items {
		it := &r.items[i]
		if it.IsRead || !r.visible(*it, recipient) {
			continue
		}
		it.IsRead = true
		it.ReadAt = &at
		n++
	}
	return n, nil
}

func (r *memRepo) Delete(_ context.Context, id, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, it := range r.items {
		if it.ID == id && r.visible(it, recipient) {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (r *memRepo) Stats(_ context.Context, recipient string) (*Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &Stats{ByType: make(map[Type]int)}
	for _, it := range r.items {
		if !r.visible(it, recipient) {
			continue
		}
		stats.Total++
		stats.ByType[it.Type]++
		if !it.IsRead {
			stats.Unread++
			if it.Type == TypePaymentOverdue {
				stats.HighPriority++
			}
		}
	}
	return stats, nil
}

func (r *memRepo) byType(t Type) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Notification
	for _, it := range r.items {
		if it.Type == t {
			out = append(out, it)
		}
	}
	return out
}

// studentOwners maps student ids to their instructor.
type studentOwners map[string]string

func (o studentOwners) InstructorOf(_ context.Context, studentID string) (string, error) {
	owner, ok := o[studentID]
	if !ok {
		return "", fmt.Errorf("get student: %w", core.ErrNotFound)
	}
	return owner, nil
}

type fakeDirectory map[string]Contact

func (d fakeDirectory) Contact(_ context.Context, userID string) (Contact, error) {
	c, ok := d[userID]
	if !ok {
		return Contact{}, core.ErrNotFound
	}
	return c, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}
