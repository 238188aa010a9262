// AngelaMos | 2026
// candidates.go

package notification

import (
	"context"
	"time"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

// Candidates is the read side the rules sweep over. ownerID restricts
// results to one instructor's students; "" means unrestricted.
type Candidates interface {
	OverduePayments(ctx context.Context, ownerID string, startOfToday time.Time) ([]PaymentCandidate, error)
	DueSoonPayments(ctx context.Context, ownerID string, from, to time.Time) ([]PaymentCandidate, error)
	Birthdays(ctx context.Context, ownerID string, month time.Month, day int) ([]BirthdayCandidate, error)
	// MarkOverdue flips the given payments from PENDING to OVERDUE in one
	// statement. Rows no longer PENDING or not yet late are left alone.
	MarkOverdue(ctx context.Context, paymentIDs []string, startOfToday time.Time) (int64, error)
}

type candidateRepository struct {
	db core.DBTX
}

func NewCandidateRepository(db core.DBTX) Candidates {
	return &candidateRepository{db: db}
}

const paymentCandidateSelect = `
	SELECT p.id AS payment_id, p.student_id, s.name AS student_name,
	       s.instructor_id, p.amount, p.due_date, p.status
	FROM payments p
	JOIN students s ON s.id = p.student_id
	WHERE `

func (r *candidateRepository) OverduePayments(
	ctx context.Context,
	ownerID string,
	startOfToday time.Time,
) ([]PaymentCandidate, error) {
	where := core.NewWhere().
		Add("(p.status = 'OVERDUE' OR (p.status = 'PENDING' AND p.due_date < $%d))", startOfToday).
		AddIf(ownerID != "", "s.instructor_id = $%d", ownerID)

	var out []PaymentCandidate
	query := paymentCandidateSelect + where.String() + " ORDER BY p.due_date"
	if err := core.SelectAll(ctx, r.db, &out, "select overdue payments", query, where.Args()...); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *candidateRepository) DueSoonPayments(
	ctx context.Context,
	ownerID string,
	from, to time.Time,
) ([]PaymentCandidate, error) {
	where := core.NewWhere("p.status = 'PENDING'").
		Add("p.due_date >= $%d", from).
		Add("p.due_date < $%d", to).
		AddIf(ownerID != "", "s.instructor_id = $%d", ownerID)

	var out []PaymentCandidate
	query := paymentCandidateSelect + where.String() + " ORDER BY p.due_date"
	if err := core.SelectAll(ctx, r.db, &out, "select due payments", query, where.Args()...); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *candidateRepository) Birthdays(
	ctx context.Context,
	ownerID string,
	month time.Month,
	day int,
) ([]BirthdayCandidate, error) {
	where := core.NewWhere("s.date_of_birth IS NOT NULL").
		Add("EXTRACT(MONTH FROM s.date_of_birth) = $%d", int(month)).
		Add("EXTRACT(DAY FROM s.date_of_birth) = $%d", day).
		AddIf(ownerID != "", "s.instructor_id = $%d", ownerID)

	query := `
		SELECT s.id AS student_id, s.name AS student_name,
		       s.instructor_id, s.date_of_birth
		FROM students s
		WHERE ` + where.String() + ` ORDER BY s.name`

	var out []BirthdayCandidate
	if err := core.SelectAll(ctx, r.db, &out, "select birthdays", query, where.Args()...); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *candidateRepository) MarkOverdue(
	ctx context.Context,
	paymentIDs []string,
	startOfToday time.Time,
) (int64, error) {
	if len(paymentIDs) == 0 {
		return 0, nil
	}

	query := `
		UPDATE payments
		SET status = 'OVERDUE', updated_at = NOW()
		WHERE id = ANY($1::uuid[]) AND status = 'PENDING' AND due_date < $2`

	return core.ExecCount(ctx, r.db, "mark payments overdue", query, paymentIDs, startOfToday)
}
