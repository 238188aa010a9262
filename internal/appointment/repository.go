// AngelaMos | 2026
// repository.go

package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id, owner string) (*Appointment, error)
	List(ctx context.Context, params ListAppointmentsParams) ([]Appointment, int, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id string) error
	// BusySlots lists SCHEDULED sessions run by instructorID that start in
	// [from, to), earliest first.
	BusySlots(ctx context.Context, instructorID string, from, to time.Time) ([]Slot, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const appointmentSelect = `
	SELECT a.id, a.student_id, s.name AS student_name, s.instructor_id AS owner_id,
	       a.instructor_id, a.start_time, a.end_time, a.type, a.status,
	       a.notes, a.created_at, a.updated_at
	FROM appointments a
	JOIN students s ON s.id = a.student_id`

func (r *repository) Create(ctx context.Context, a *Appointment) error {
	query := `
		INSERT INTO appointments (
			id, student_id, instructor_id, start_time, end_time, type, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		a.ID, a.StudentID, a.InstructorID, a.StartTime, a.EndTime,
		a.Type, a.Status, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return core.Classify("create appointment", err)
}

func (r *repository) GetByID(ctx context.Context, id, owner string) (*Appointment, error) {
	where := core.NewWhere().
		Add("a.id = $%d", id).
		AddIf(owner != "", "s.instructor_id = $%d", owner)

	var a Appointment
	if err := core.GetOne(ctx, r.db, &a, "get appointment", appointmentSelect+" WHERE "+where.String(), where.Args()...); err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListAppointmentsParams,
) ([]Appointment, int, error) {
	params.Normalize()

	where := core.NewWhere().
		AddIf(params.Owner != "", "s.instructor_id = $%d", params.Owner).
		AddIf(params.StudentID != "", "a.student_id = $%d", params.StudentID).
		AddIf(params.Status != "", "a.status = $%d", params.Status)
	if params.From != nil {
		where.Add("a.start_time >= $%d", *params.From)
	}
	if params.To != nil {
		where.Add("a.start_time <= $%d", *params.To)
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM appointments a
		JOIN students s ON s.id = a.student_id
		WHERE ` + where.String()
	if err := core.GetOne(ctx, r.db, &total, "count appointments", countQuery, where.Args()...); err != nil {
		return nil, 0, err
	}

	next := where.Next()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY a.start_time ASC
		LIMIT $%d OFFSET $%d`,
		appointmentSelect, where.String(), next, next+1)

	args := append(where.Args(), params.Limit, params.Offset())

	var items []Appointment
	if err := core.SelectAll(ctx, r.db, &items, "list appointments", query, args...); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *repository) Update(ctx context.Context, a *Appointment) error {
	query := `
		UPDATE appointments
		SET start_time = $2, end_time = $3, type = $4, status = $5,
		    notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return core.GetOne(ctx, r.db, &a.UpdatedAt, "update appointment", query,
		a.ID, a.StartTime, a.EndTime, a.Type, a.Status, a.Notes,
	)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete appointment", `DELETE FROM appointments WHERE id = $1`, id)
}

func (r *repository) BusySlots(
	ctx context.Context,
	instructorID string,
	from, to time.Time,
) ([]Slot, error) {
	query := `
		SELECT start_time, end_time
		FROM appointments
		WHERE instructor_id = $1 AND status = $2
		  AND start_time >= $3 AND start_time < $4
		ORDER BY start_time ASC`

	slots := []Slot{}
	if err := core.SelectAll(ctx, r.db, &slots, "list busy slots", query,
		instructorID, StatusScheduled, from, to,
	); err != nil {
		return nil, err
	}
	return slots, nil
}
