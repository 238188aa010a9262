// AngelaMos | 2026
// handler.go

package payment

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/middleware"
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
	r.Route("/payments", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{paymentID}", h.Get)
		r.Put("/{paymentID}", h.Update)
		r.Delete("/{paymentID}", h.Delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff)

			r.Post("/mark-overdue", h.MarkOverdue)
			r.Patch("/{paymentID}/send-charge-email", h.SendChargeEmail)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	params := ListPaymentsParams{
		PageParams: core.PageFromQuery(r),
		Status:     r.URL.Query().Get("status"),
	}

	if params.StudentID, err = core.QueryID(r, "student_id"); err != nil {
		core.HandleError(w, err, "payment")
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
		core.HandleError(w, err, "payment")
		return
	}

	core.Paginated(w, ToPaymentResponseList(items), params.Page, params.Limit, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	id, err := core.PathID(r, "paymentID")
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	p, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.OK(w, ToPaymentResponse(p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	var req CreatePaymentRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	p, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.Created(w, ToPaymentResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	var req UpdatePaymentRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	id, err := core.PathID(r, "paymentID")
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	p, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.OK(w, ToPaymentResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	id, err := core.PathID(r, "paymentID")
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.NoContent(w)
}

func (h *Handler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	n, err := h.service.MarkOverdue(r.Context(), caller)
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.OK(w, MarkOverdueResponse{
		Message: fmt.Sprintf("%d payments marked as overdue", n),
		Count:   n,
	})
}

func (h *Handler) SendChargeEmail(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	id, err := core.PathID(r, "paymentID")
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	p, err := h.service.SendChargeEmail(r.Context(), caller, id)
	if errors.Is(err, ErrMailDisabled) {
		core.JSONError(w, core.NewAppError(
			http.StatusServiceUnavailable, "MAIL_DISABLED", "e-mail delivery is not configured",
		))
		return
	}
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	core.OK(w, ChargeEmailResponse{
		Message:   "charge e-mail sent",
		PaymentID: p.ID,
		SentTo:    p.StudentEmail,
	})
}
