// AngelaMos | 2026
// entity.go

package workoutplan

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkoutPlan is visible to whoever owns its student. InstructorID is who
// prescribed it, which may differ from the owner.
type WorkoutPlan struct {
	ID           string     `db:"id"`
	StudentID    string     `db:"student_id"`
	StudentName  string     `db:"student_name"`
	OwnerID      string     `db:"owner_id"`
	InstructorID string     `db:"instructor_id"`
	Name         string     `db:"name"`
	Description  *string    `db:"description"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	Exercises    []Exercise `db:"-"`
}

// Exercise positions start at 1 and follow the order they were given in.
type Exercise struct {
	ID            string              `db:"id"`
	WorkoutPlanID string              `db:"workout_plan_id"`
	Name          string              `db:"name"`
	Sets          int                 `db:"sets"`
	Reps          string              `db:"reps"`
	Weight        decimal.NullDecimal `db:"weight"`
	RestTime      *int                `db:"rest_time"`
	Notes         *string             `db:"notes"`
	Position      int                 `db:"position"`
}
