// AngelaMos | 2026
// repository.go

package progress

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

// Repository filters by owner through the record's student; "" means all.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id, owner string) (*Record, error)
	List(ctx context.Context, params ListRecordsParams) ([]Record, int, error)
	// History returns every record of a student, oldest first.
	History(ctx context.Context, studentID string) ([]Record, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const recordSelect = `
	SELECT p.id, p.student_id, s.name AS student_name, s.instructor_id AS owner_id,
	       p.weight, p.body_fat, p.muscle_mass, p.measurements, p.notes,
	       p.record_date, p.created_at, p.updated_at
	FROM progress_records p
	JOIN students s ON s.id = p.student_id`

func (r *repository) Create(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO progress_records (
			id, student_id, weight, body_fat, muscle_mass, measurements, notes, record_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rec.ID, rec.StudentID, rec.Weight, rec.BodyFat, rec.MuscleMass,
		rec.Measurements, rec.Notes, rec.RecordDate,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	return core.Classify("create progress record", err)
}

func (r *repository) GetByID(ctx context.Context, id, owner string) (*Record, error) {
	where := core.NewWhere().
		Add("p.id = $%d", id).
		AddIf(owner != "", "s.instructor_id = $%d", owner)

	var rec Record
	if err := core.GetOne(ctx, r.db, &rec, "get progress record", recordSelect+" WHERE "+where.String(), where.Args()...); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListRecordsParams,
) ([]Record, int, error) {
	params.Normalize()

	where := core.NewWhere().
		AddIf(params.Owner != "", "s.instructor_id = $%d", params.Owner).
		AddIf(params.StudentID != "", "p.student_id = $%d", params.StudentID)
	if params.From != nil {
		where.Add("p.record_date >= $%d", *params.From)
	}
	if params.To != nil {
		where.Add("p.record_date <= $%d", *params.To)
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM progress_records p
		JOIN students s ON s.id = p.student_id
		WHERE ` + where.String()
	if err := core.GetOne(ctx, r.db, &total, "count progress records", countQuery, where.Args()...); err != nil {
		return nil, 0, err
	}

	next := where.Next()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY p.record_date DESC
		LIMIT $%d OFFSET $%d`,
		recordSelect, where.String(), next, next+1)

	args := append(where.Args(), params.Limit, params.Offset())

	var items []Record
	if err := core.SelectAll(ctx, r.db, &items, "list progress records", query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *repository) History(ctx context.Context, studentID string) ([]Record, error) {
	query := recordSelect + ` WHERE p.student_id = $1 ORDER BY p.record_date ASC, p.created_at ASC`

	items := []Record{}
	if err := core.SelectAll(ctx, r.db, &items, "progress history", query, studentID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, rec *Record) error {
	query := `
		UPDATE progress_records
		SET weight = $2, body_fat = $3, muscle_mass = $4, measurements = $5,
		    notes = $6, record_date = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return core.GetOne(ctx, r.db, &rec.UpdatedAt, "update progress record", query,
		rec.ID, rec.Weight, rec.BodyFat, rec.MuscleMass,
		rec.Measurements, rec.Notes, rec.RecordDate,
	)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete progress record", `DELETE FROM progress_records WHERE id = $1`, id)
}
