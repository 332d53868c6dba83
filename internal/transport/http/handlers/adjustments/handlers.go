package adjustmentshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"angopay/internal/domain/adjustment"
	"angopay/internal/domain/auth"
	"angopay/internal/transport/http/api"
	"angopay/internal/transport/http/middleware"
	"angopay/internal/transport/http/shared"
)

type Handler struct {
	Service *adjustment.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *adjustment.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/adjustments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAdjustmentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAdjustmentsWrite, h.Perms)).Post("/", h.handleRequest)
		r.Route("/{adjustmentID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermAdjustmentsRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermAdjustmentsApprove, h.Perms)).Post("/approve", h.handleApprove)
			r.With(middleware.RequirePermission(auth.PermAdjustmentsApprove, h.Perms)).Post("/reject", h.handleReject)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := adjustment.ListFilter{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Status:     adjustment.Status(r.URL.Query().Get("status")),
	}
	items, err := h.Service.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err, "adjustments_list_failed")
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

type requestPayload struct {
	EmployeeID    string          `json:"employeeId"`
	Type          string          `json:"type"`
	NewSalary     decimal.Decimal `json:"newSalary"`
	NewPosition   string          `json:"newPosition"`
	Reason        string          `json:"reason"`
	EffectiveDate string          `json:"effectiveDate"`
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	var payload requestPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	types := make([]string, 0, len(adjustment.Types))
	for _, t := range adjustment.Types {
		types = append(types, string(t))
	}
	v.Required("type", payload.Type, "is required")
	v.Enum("type", payload.Type, types, "unknown adjustment type")
	v.NonNegative("newSalary", payload.NewSalary)
	var effective time.Time
	if payload.EffectiveDate != "" {
		effective, _ = v.Date("effectiveDate", payload.EffectiveDate)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	user, _ := middleware.GetUser(r.Context())
	adj, err := h.Service.Request(r.Context(), adjustment.RequestInput{
		EmployeeID:    payload.EmployeeID,
		Type:          adjustment.Type(payload.Type),
		NewSalary:     payload.NewSalary,
		NewPosition:   payload.NewPosition,
		Reason:        payload.Reason,
		EffectiveDate: effective,
		RequestedBy:   user.UserID,
	})
	if err != nil {
		shared.WriteError(w, r, err, "adjustment_request_failed")
		return
	}
	api.Created(w, adj, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	adj, err := h.Service.Get(r.Context(), chi.URLParam(r, "adjustmentID"))
	if err != nil {
		shared.WriteError(w, r, err, "adjustment_get_failed")
		return
	}
	api.Success(w, adj, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	adj, err := h.Service.Approve(r.Context(), chi.URLParam(r, "adjustmentID"), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err, "adjustment_approve_failed")
		return
	}
	api.Success(w, adj, middleware.GetRequestID(r.Context()))
}

type rejectPayload struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	var payload rejectPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	adj, err := h.Service.Reject(r.Context(), chi.URLParam(r, "adjustmentID"), user.UserID, payload.Reason)
	if err != nil {
		shared.WriteError(w, r, err, "adjustment_reject_failed")
		return
	}
	api.Success(w, adj, middleware.GetRequestID(r.Context()))
}
