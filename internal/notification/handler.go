// AngelaMos | 2026
// handler.go

package notification

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/middleware"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

// ManualChecker runs every rule at once, outside the regular schedule.
type ManualChecker interface {
	RunManualCheck(ctx context.Context) ([]RuleResult, error)
}

type Handler struct {
	service   *Service
	checker   ManualChecker
	validator *validator.Validate
}

func NewHandler(service *Service, checker ManualChecker) *Handler {
	return &Handler{
		service:   service,
		checker:   checker,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the inbox. triggerLimit, when not nil, wraps the
// rule-trigger endpoints with their own rate limit.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	triggerLimit func(http.Handler) http.Handler,
) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/stats", h.Stats)
		r.Patch("/read-all", h.MarkAllAsRead)
		r.Get("/{notificationID}", h.Get)
		r.Patch("/{notificationID}/read", h.MarkAsRead)
		r.Delete("/{notificationID}", h.Delete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff)
			r.Post("/", h.Create)

			r.Group(func(r chi.Router) {
				if triggerLimit != nil {
					r.Use(triggerLimit)
				}
				r.Post("/payment-overdue", h.trigger(RuleOverdue))
				r.Post("/payment-due", h.trigger(RuleDueSoon))
				r.Post("/birthday", h.trigger(RuleBirthday))
				r.Post("/manual-check", h.ManualCheck)
			})
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	params := ListParams{
		PageParams: core.PageFromQuery(r),
		Type:       Type(r.URL.Query().Get("type")),
		IsRead:     core.QueryBool(r, "is_read"),
	}
	if params.Type != "" && !params.Type.Valid() {
		core.BadRequest(w, "invalid notification type")
		return
	}

	items, total, err := h.service.List(r.Context(), caller, params)
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	core.Paginated(
		w,
		ToNotificationResponseList(items),
		params.Page,
		params.Limit,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	id, err := core.PathID(r, "notificationID")
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	n, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	core.OK(w, ToNotificationResponse(n))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	var req CreateNotificationRequest
	if err := core.Bind(r, &req, h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	n, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	core.Created(w, ToNotificationResponse(n))
}

func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	id, err := core.PathID(r, "notificationID")
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	n, err := h.service.MarkAsRead(r.Context(), caller, id)
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	core.OK(w, ToNotificationResponse(n))
}

func (h *Handler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	count, err := h.service.MarkAllAsRead(r.Context(), caller)
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	core.OK(w, MarkAllReadResponse{
		Message: "notifications marked as read",
		Count:   count,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	id, err := core.PathID(r, "notificationID")
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	stats, err := h.service.Stats(r.Context(), caller)
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	core.OK(w, stats)
}

func (h *Handler) trigger(rule Rule) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := scope.MustFromContext(r.Context())
		if err != nil {
			core.HandleError(w, err, "notification")
			return
		}

		res, err := h.service.Trigger(r.Context(), caller, rule)
		if err != nil {
			core.HandleError(w, err, "notification")
			return
		}

		core.OK(w, Summarize(res))
	}
}

func (h *Handler) ManualCheck(w http.ResponseWriter, r *http.Request) {
	results, err := h.checker.RunManualCheck(r.Context())
	if err != nil {
		core.HandleError(w, err, "notification")
		return
	}

	core.OK(w, Summarize(results...))
}
