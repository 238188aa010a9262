// AngelaMos | 2026
// repository.go

package workoutplan

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

// Repository filters by owner through the plan's student; "" means all.
// Plans always come back with their exercises in position order.
type Repository interface {
	Create(ctx context.Context, p *WorkoutPlan) error
	GetByID(ctx context.Context, id, owner string) (*WorkoutPlan, error)
	List(ctx context.Context, params ListWorkoutPlansParams) ([]WorkoutPlan, int, error)
	// Update writes the plan row and, with replaceExercises, swaps the
	// stored exercises for p.Exercises in the same transaction.
	Update(ctx context.Context, p *WorkoutPlan, replaceExercises bool) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const (
	planSelect = `
	SELECT w.id, w.student_id, s.name AS student_name, s.instructor_id AS owner_id,
	       w.instructor_id, w.name, w.description, w.is_active,
	       w.created_at, w.updated_at
	FROM workout_plans w
	JOIN students s ON s.id = w.student_id`

	exerciseSelect = `
	SELECT id, workout_plan_id, name, sets, reps, weight, rest_time, notes, position
	FROM exercises`
)

func (r *repository) Create(ctx context.Context, p *WorkoutPlan) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO workout_plans (
				id, student_id, instructor_id, name, description, is_active
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at, updated_at`

		err := tx.QueryRowxContext(ctx, query,
			p.ID, p.StudentID, p.InstructorID, p.Name, p.Description, p.IsActive,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return core.Classify("create workout plan", err)
		}

		return insertExercises(ctx, tx, p.Exercises)
	})
}

func insertExercises(ctx context.Context, db core.DBTX, exercises []Exercise) error {
	query := `
		INSERT INTO exercises (
			id, workout_plan_id, name, sets, reps, weight, rest_time, notes, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, e := range exercises {
		_, err := db.ExecContext(ctx, query,
			e.ID, e.WorkoutPlanID, e.Name, e.Sets, e.Reps,
			e.Weight, e.RestTime, e.Notes, e.Position,
		)
		if err != nil {
			return core.Classify("create exercise", err)
		}
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id, owner string) (*WorkoutPlan, error) {
	where := core.NewWhere().
		Add("w.id = $%d", id).
		AddIf(owner != "", "s.instructor_id = $%d", owner)

	var p WorkoutPlan
	if err := core.GetOne(ctx, r.db, &p, "get workout plan", planSelect+" WHERE "+where.String(), where.Args()...); err != nil {
		return nil, err
	}

	plans := []WorkoutPlan{p}
	if err := r.attachExercises(ctx, plans); err != nil {
		return nil, err
	}

	return &plans[0], nil
}

func (r *repository) List(
	ctx context.Context,
	params ListWorkoutPlansParams,
) ([]WorkoutPlan, int, error) {
	params.Normalize()

	where := core.NewWhere().
		AddIf(params.Owner != "", "s.instructor_id = $%d", params.Owner).
		AddIf(params.StudentID != "", "w.student_id = $%d", params.StudentID).
		AddIf(params.InstructorID != "", "w.instructor_id = $%d", params.InstructorID)
	if params.IsActive != nil {
		where.Add("w.is_active = $%d", *params.IsActive)
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM workout_plans w
		JOIN students s ON s.id = w.student_id
		WHERE ` + where.String()
	if err := core.GetOne(ctx, r.db, &total, "count workout plans", countQuery, where.Args()...); err != nil {
		return nil, 0, err
	}

	next := where.Next()
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY w.created_at DESC
		LIMIT $%d OFFSET $%d`,
		planSelect, where.String(), next, next+1)

	args := append(where.Args(), params.Limit, params.Offset())

	var items []WorkoutPlan
	if err := core.SelectAll(ctx, r.db, &items, "list workout plans", query, args...); err != nil {
		return nil, 0, err
	}

	if err := r.attachExercises(ctx, items); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// attachExercises loads the exercises of every plan in one query.
func (r *repository) attachExercises(ctx context.Context, plans []WorkoutPlan) error {
	if len(plans) == 0 {
		return nil
	}

	ids := make([]string, 0, len(plans))
	index := make(map[string]int, len(plans))
	for i := range plans {
		ids = append(ids, plans[i].ID)
		index[plans[i].ID] = i
		plans[i].Exercises = []Exercise{}
	}

	var exercises []Exercise
	query := exerciseSelect + ` WHERE workout_plan_id = ANY($1::uuid[]) ORDER BY workout_plan_id, position`
	if err := core.SelectAll(ctx, r.db, &exercises, "list exercises", query, ids); err != nil {
		return err
	}

	for _, e := range exercises {
		i := index[e.WorkoutPlanID]
		plans[i].Exercises = append(plans[i].Exercises, e)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, p *WorkoutPlan, replaceExercises bool) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE workout_plans
			SET name = $2, description = $3, is_active = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err := core.GetOne(ctx, tx, &p.UpdatedAt, "update workout plan", query,
			p.ID, p.Name, p.Description, p.IsActive,
		)
		if err != nil || !replaceExercises {
			return err
		}

		_, err = core.ExecCount(ctx, tx, "clear exercises",
			`DELETE FROM exercises WHERE workout_plan_id = $1`, p.ID)
		if err != nil {
			return err
		}

		return insertExercises(ctx, tx, p.Exercises)
	})
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete workout plan", `DELETE FROM workout_plans WHERE id = $1`, id)
}
