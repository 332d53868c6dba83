package terminationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"angopay/internal/domain/auth"
	"angopay/internal/domain/termination"
	"angopay/internal/platform/idempotency"
	"angopay/internal/transport/http/api"
	"angopay/internal/transport/http/middleware"
	"angopay/internal/transport/http/shared"
)

type Handler struct {
	Service     *termination.Service
	Perms       middleware.PermissionStore
	Idempotency idempotency.Store
}

func NewHandler(service *termination.Service, perms middleware.PermissionStore, keys idempotency.Store) *Handler {
	return &Handler{Service: service, Perms: perms, Idempotency: keys}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/terminations", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Post("/quote", h.handleQuote)
		r.With(
			middleware.RequirePermission(auth.PermTerminationsWrite, h.Perms),
			middleware.Idempotent("termination.finalize", h.Idempotency),
		).Post("/", h.handleFinalize)
	})
}

type terminationPayload struct {
	EmployeeID      string           `json:"employeeId"`
	TerminationDate string           `json:"terminationDate"`
	Reason          string           `json:"reason"`
	NoticeHonored   bool             `json:"noticeHonored"`
	UnusedLeaveDays decimal.Decimal  `json:"unusedLeaveDays"`
	FinalBaseSalary *decimal.Decimal `json:"finalBaseSalary,omitempty"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (termination.Request, bool) {
	var payload terminationPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return termination.Request{}, false
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	date, _ := v.Date("terminationDate", payload.TerminationDate)
	if !termination.Reason(payload.Reason).Valid() {
		v.Add("reason", "unknown termination reason")
	}
	v.NonNegative("unusedLeaveDays", payload.UnusedLeaveDays)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return termination.Request{}, false
	}
	return termination.Request{
		EmployeeID:      payload.EmployeeID,
		TerminationDate: date,
		Reason:          termination.Reason(payload.Reason),
		NoticeHonored:   payload.NoticeHonored,
		UnusedLeaveDays: payload.UnusedLeaveDays,
		FinalBaseSalary: payload.FinalBaseSalary,
	}, true
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	pkg, err := h.Service.Compute(r.Context(), req)
	if err != nil {
		shared.WriteError(w, r, err, "termination_quote_failed")
		return
	}
	api.Success(w, pkg, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	rec, err := h.Service.Finalize(r.Context(), req, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err, "termination_finalize_failed")
		return
	}
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListRecords(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		shared.WriteError(w, r, err, "terminations_list_failed")
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}
