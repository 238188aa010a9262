// AngelaMos | 2026
// dto.go

package workoutplan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

type ExerciseRequest struct {
	Name     string           `json:"name"                validate:"required,min=1,max=100"`
	Sets     int              `json:"sets"                validate:"required,gt=0"`
	Reps     string           `json:"reps"                validate:"required,max=30"`
	Weight   *decimal.Decimal `json:"weight,omitempty"`
	RestTime *int             `json:"rest_time,omitempty" validate:"omitempty,gte=0"`
	Notes    *string          `json:"notes,omitempty"     validate:"omitempty,max=500"`
}

type CreateWorkoutPlanRequest struct {
	StudentID    string            `json:"student_id"              validate:"required,uuid"`
	InstructorID *string           `json:"instructor_id,omitempty" validate:"omitempty,uuid"`
	Name         string            `json:"name"                    validate:"required,min=2,max=100"`
	Description  *string           `json:"description,omitempty"   validate:"omitempty,max=2000"`
	Exercises    []ExerciseRequest `json:"exercises"               validate:"omitempty,dive"`
}

// UpdateWorkoutPlanRequest replaces the whole exercise list when Exercises
// is present, even if empty.
type UpdateWorkoutPlanRequest struct {
	Name        *string            `json:"name,omitempty"        validate:"omitempty,min=2,max=100"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsActive    *bool              `json:"is_active,omitempty"`
	Exercises   *[]ExerciseRequest `json:"exercises,omitempty"   validate:"omitempty,dive"`
}

type CopyWorkoutPlanRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Name      string `json:"name"       validate:"required,min=2,max=100"`
}

type ExerciseResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Sets     int              `json:"sets"`
	Reps     string           `json:"reps"`
	Weight   *decimal.Decimal `json:"weight,omitempty"`
	RestTime *int             `json:"rest_time,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
	Position int              `json:"position"`
}

type WorkoutPlanResponse struct {
	ID           string             `json:"id"`
	StudentID    string             `json:"student_id"`
	StudentName  string             `json:"student_name"`
	InstructorID string             `json:"instructor_id"`
	Name         string             `json:"name"`
	Description  *string            `json:"description,omitempty"`
	IsActive     bool               `json:"is_active"`
	Exercises    []ExerciseResponse `json:"exercises"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type ListWorkoutPlansParams struct {
	core.PageParams
	Owner        string
	StudentID    string
	InstructorID string
	IsActive     *bool
}

// toExercises numbers the requested exercises in order under planID.
func toExercises(planID string, reqs []ExerciseRequest) []Exercise {
	out := make([]Exercise, 0, len(reqs))
	for i, req := range reqs {
		e := Exercise{
			ID:            uuid.New().String(),
			WorkoutPlanID: planID,
			Name:          req.Name,
			Sets:          req.Sets,
			Reps:          req.Reps,
			RestTime:      req.RestTime,
			Notes:         req.Notes,
			Position:      i + 1,
		}
		if req.Weight != nil {
			e.Weight = decimal.NewNullDecimal(req.Weight.Round(2))
		}
		out = append(out, e)
	}
	return out
}

func ToWorkoutPlanResponse(p *WorkoutPlan) WorkoutPlanResponse {
	exercises := make([]ExerciseResponse, 0, len(p.Exercises))
	for _, e := range p.Exercises {
		resp := ExerciseResponse{
			ID:       e.ID,
			Name:     e.Name,
			Sets:     e.Sets,
			Reps:     e.Reps,
			RestTime: e.RestTime,
			Notes:    e.Notes,
			Position: e.Position,
		}
		if e.Weight.Valid {
			w := e.Weight.Decimal
			resp.Weight = &w
		}
		exercises = append(exercises, resp)
	}

	return WorkoutPlanResponse{
		ID:           p.ID,
		StudentID:    p.StudentID,
		StudentName:  p.StudentName,
		InstructorID: p.InstructorID,
		Name:         p.Name,
		Description:  p.Description,
		IsActive:     p.IsActive,
		Exercises:    exercises,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToWorkoutPlanResponseList(items []WorkoutPlan) []WorkoutPlanResponse {
	out := make([]WorkoutPlanResponse, 0, len(items))
	for i := range items {
		out = append(out, ToWorkoutPlanResponse(&items[i]))
	}
	return out
}
