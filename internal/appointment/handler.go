// AngelaMos | 2026
// handler.go

package appointment

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
	r.Route("/appointments", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/availability/{instructorID}", h.Availability)
		r.Get("/{appointmentID}", h.Get)
		r.Put("/{appointmentID}", h.Update)
		r.Delete("/{appointmentID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	params := ListAppointmentsParams{
		PageParams: core.PageFromQuery(r),
		Status:     r.URL.Query().Get("status"),
	}

	if params.StudentID, err = core.QueryID(r, "student_id"); err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	if params.From, err = core.QueryTime(r, "from", false); err != nil {
		core.BadRequest(w, "from must be YYYY-MM-DD or RFC 3339")
		return
	}
	if params.To, err = core.QueryTime(r, "to", true); err != nil {
		core.BadRequest(w, "to must be YYYY-MM-DD or RFC 3339")
		return
	}

	items, total, err := h.service.List(r.Context(), caller, params)
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	core.Paginated(w, ToAppointmentResponseList(items), params.Page, params.Limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	id, err := core.PathID(r, "appointmentID")
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	a, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	core.OK(w, ToAppointmentResponse(a))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	var req CreateAppointmentRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	a, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	core.Created(w, ToAppointmentResponse(a))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	var req UpdateAppointmentRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	id, err := core.PathID(r, "appointmentID")
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	a, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	core.OK(w, ToAppointmentResponse(a))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	id, err := core.PathID(r, "appointmentID")
	if err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		core.HandleError(w, err, "appointment")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	instructorID, err := core.PathID(r, "instructorID")
	if err != nil {
		core.HandleError(w, err, "instructor")
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		core.BadRequest(w, "date is required")
		return
	}

	slots, err := h.service.Availability(r.Context(), instructorID, date)
	if err != nil {
		core.HandleError(w, err, "instructor")
		return
	}

	core.OK(w, AvailabilityResponse{
		InstructorID: instructorID,
		Date:         date,
		Busy:         slots,
	})
}
