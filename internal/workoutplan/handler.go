// AngelaMos | 2026
// handler.go

package workoutplan

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

const resource = "workout plan"

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/workout-plans", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{planID}", h.Get)
		r.Patch("/{planID}", h.Update)
		r.Delete("/{planID}", h.Delete)
		r.Patch("/{planID}/toggle-active", h.ToggleActive)
		r.Post("/{planID}/copy", h.Copy)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	params := ListWorkoutPlansParams{
		PageParams: core.PageFromQuery(r),
		IsActive:   core.QueryBool(r, "is_active"),
	}

	if params.StudentID, err = core.QueryID(r, "student_id"); err != nil {
		core.HandleError(w, err, resource)
		return
	}
	if params.InstructorID, err = core.QueryID(r, "instructor_id"); err != nil {
		core.HandleError(w, err, resource)
		return
	}

	items, total, err := h.service.List(r.Context(), caller, params)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.Paginated(w, ToWorkoutPlanResponseList(items), params.Page, params.Limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	id, err := core.PathID(r, "planID")
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	p, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.OK(w, ToWorkoutPlanResponse(p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	var req CreateWorkoutPlanRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.Created(w, ToWorkoutPlanResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	var req UpdateWorkoutPlanRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	id, err := core.PathID(r, "planID")
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	p, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.OK(w, ToWorkoutPlanResponse(p))
}

func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	id, err := core.PathID(r, "planID")
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	p, err := h.service.ToggleActive(r.Context(), caller, id)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.OK(w, ToWorkoutPlanResponse(p))
}

func (h *Handler) Copy(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	var req CopyWorkoutPlanRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	id, err := core.PathID(r, "planID")
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	p, err := h.service.Copy(r.Context(), caller, id, req)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.Created(w, ToWorkoutPlanResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	id, err := core.PathID(r, "planID")
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.NoContent(w)
}
