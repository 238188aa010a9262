// AngelaMos | 2026
// handler.go

package student

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

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
	r.Route("/students", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{studentID}", h.Get)
		r.Put("/{studentID}", h.Update)
		r.Delete("/{studentID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	q := r.URL.Query()
	params := ListStudentsParams{
		PageParams: core.PageFromQuery(r),
		Search:     q.Get("search"),
		Status:     q.Get("status"),
	}

	items, total, err := h.service.List(r.Context(), caller, params)
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	core.Paginated(w, ToStudentResponseList(items), params.Page, params.Limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	id, err := core.PathID(r, "studentID")
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	st, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	core.OK(w, ToStudentResponse(st))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	var req CreateStudentRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	st, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	core.Created(w, ToStudentResponse(st))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	var req UpdateStudentRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	id, err := core.PathID(r, "studentID")
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	st, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	core.OK(w, ToStudentResponse(st))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	id, err := core.PathID(r, "studentID")
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		core.HandleError(w, err, "student")
		return
	}

	core.NoContent(w)
}
