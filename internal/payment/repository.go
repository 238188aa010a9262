// AngelaMos | 2026
// repository.go

package payment

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

// Repository filters by owner through the owning student; "" means all.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id, owner string) (*Payment, error)
	List(ctx context.Context, params ListPaymentsParams) ([]Payment, int, error)
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const paymentSelect = `
	SELECT p.id, p.student_id, s.name AS student_name, s.email AS student_email,
	       s.instructor_id, p.amount, p.due_date, p.paid_date, p.status, p.type,
	       p.description, p.created_at, p.updated_at
	FROM payments p
	JOIN students s ON s.id = p.student_id`

func (r *repository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (
			id, student_id, amount, due_date, paid_date, status, type, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.StudentID, p.Amount, p.DueDate, p.PaidDate,
		p.Status, p.Type, p.Description,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return core.Classify("create payment", err)
}

func (r *repository) GetByID(ctx context.Context, id, owner string) (*Payment, error) {
	where := core.NewWhere().
		Add("p.id = $%d", id).
		AddIf(owner != "", "s.instructor_id = $%d", owner)

	var p Payment
	if err := core.GetOne(ctx, r.db, &p, "get payment", paymentSelect+" WHERE "+where.String(), where.Args()...); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListPaymentsParams,
) ([]Payment, int, error) {
	params.Normalize()

	where := core.NewWhere().
		AddIf(params.Owner != "", "s.instructor_id = $%d", params.Owner).
		AddIf(params.StudentID != "", "p.student_id = $%d", params.StudentID).
		AddIf(params.Status != "", "p.status = $%d", params.Status)
	if params.From != nil {
		where.Add("p.due_date >= $%d", *params.From)
	}
	if params.To != nil {
		where.Add("p.due_date <= $%d", *params.To)
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM payments p
		JOIN students s ON s.id = p.student_id
		WHERE ` + where.String()
	if err := core.GetOne(ctx, r.db, &total, "count payments", countQuery, where.Args()...); err != nil {
		return nil, 0, err
	}

	next := where.Next()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY p.due_date DESC
		LIMIT $%d OFFSET $%d`,
		paymentSelect, where.String(), next, next+1)

	args := append(where.Args(), params.Limit, params.Offset())

	var items []Payment
	if err := core.SelectAll(ctx, r.db, &items, "list payments", query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *repository) Update(ctx context.Context, p *Payment) error {
	query := `
		UPDATE payments
		SET amount = $2, due_date = $3, paid_date = $4, status = $5,
		    type = $6, description = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return core.GetOne(ctx, r.db, &p.UpdatedAt, "update payment", query,
		p.ID, p.Amount, p.DueDate, p.PaidDate, p.Status, p.Type, p.Description,
	)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete payment", `DELETE FROM payments WHERE id = $1`, id)
}
