// AngelaMos | 2026
// repository.go

package student

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

// Repository reads take an owner; "" means every instructor's students.
type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id, owner string) (*Student, error)
	List(ctx context.Context, params ListStudentsParams) ([]Student, int, error)
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const studentColumns = `id, instructor_id, name, email, phone, date_of_birth,
		       address, emergency_contact, medical_restrictions, objectives,
		       plan, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, s *Student) error {
	query := `
		INSERT INTO students (
			id, instructor_id, name, email, phone, date_of_birth, address,
			emergency_contact, medical_restrictions, objectives, plan, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.InstructorID, s.Name, s.Email, s.Phone, s.DateOfBirth,
		s.Address, s.EmergencyContact, s.MedicalRestrictions, s.Objectives,
		s.Plan, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return core.Classify("create student", err)
}

func (r *repository) GetByID(ctx context.Context, id, owner string) (*Student, error) {
	where := core.NewWhere().
		Add("id = $%d", id).
		AddIf(owner != "", "instructor_id = $%d", owner)

	query := `SELECT ` + studentColumns + `
		FROM students
		WHERE ` + where.String()

	var s Student
	if err := core.GetOne(ctx, r.db, &s, "get student", query, where.Args()...); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListStudentsParams,
) ([]Student, int, error) {
	params.Normalize()

	where := core.NewWhere().
		AddIf(params.Owner != "", "instructor_id = $%d", params.Owner).
		AddIf(params.Status != "", "status = $%d", params.Status)
	if params.Search != "" {
		where.Add(
			"(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)",
			"%"+core.EscapeLike(params.Search)+"%",
		)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM students WHERE " + where.String()
	if err := core.GetOne(ctx, r.db, &total, "count students", countQuery, where.Args()...); err != nil {
		return nil, 0, err
	}

	next := where.Next()
	query := fmt.Sprintf(`SELECT `+studentColumns+`
		FROM students
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		where.String(), next, next+1)

	args := append(where.Args(), params.Limit, params.Offset())

	var items []Student
	if err := core.SelectAll(ctx, r.db, &items, "list students", query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *repository) Update(ctx context.Context, s *Student) error {
	query := `
		UPDATE students
		SET instructor_id = $2, name = $3, email = $4, phone = $5,
		    date_of_birth = $6, address = $7, emergency_contact = $8,
		    medical_restrictions = $9, objectives = $10, plan = $11,
		    status = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return core.GetOne(ctx, r.db, &s.UpdatedAt, "update student", query,
		s.ID, s.InstructorID, s.Name, s.Email, s.Phone, s.DateOfBirth,
		s.Address, s.EmergencyContact, s.MedicalRestrictions, s.Objectives,
		s.Plan, s.Status,
	)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete student", `DELETE FROM students WHERE id = $1`, id)
}
