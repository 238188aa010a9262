// AngelaMos | 2026
// handler.go

package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

const resource = "progress record"

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
	r.Route("/progress", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/student/{studentID}/history", h.History)
		r.Get("/{recordID}", h.Get)
		r.Put("/{recordID}", h.Update)
		r.Delete("/{recordID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	params := ListRecordsParams{PageParams: core.PageFromQuery(r)}

	if params.StudentID, err = core.QueryID(r, "student_id"); err != nil {
		core.HandleError(w, err, resource)
		return
	}
	if params.From, err = core.QueryTime(r, "start_date", false); err != nil {
		core.BadRequest(w, "start_date must be YYYY-MM-DD or RFC 3339")
		return
	}
	if params.To, err = core.QueryTime(r, "end_date", true); err != nil {
		core.BadRequest(w, "end_date must be YYYY-MM-DD or RFC 3339")
		return
	}

	items, total, err := h.service.List(r.Context(), caller, params)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.Paginated(w, ToRecordResponseList(items), params.Page, params.Limit, total)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	studentID, err := core.PathID(r, "studentID")
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	records, trends, err := h.service.History(r.Context(), caller, studentID)
	if err != nil {
		core.HandleError(w, err, "student")
		return
	}

	core.OK(w, HistoryResponse{
		Records: ToRecordResponseList(records),
		Trends:  trends,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	id, err := core.PathID(r, "recordID")
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	rec, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.OK(w, ToRecordResponse(rec))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	var req CreateRecordRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	rec, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.Created(w, ToRecordResponse(rec))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	var req UpdateRecordRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	id, err := core.PathID(r, "recordID")
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	rec, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	core.OK(w, ToRecordResponse(rec))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, resource)
		return
	}

	id, err := core.PathID(r, "recordID")
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
