package payrollhandler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"angopay/internal/domain/auth"
	"angopay/internal/domain/core"
	"angopay/internal/domain/payroll"
	"angopay/internal/platform/idempotency"
	"angopay/internal/platform/metrics"
	"angopay/internal/transport/http/api"
	"angopay/internal/transport/http/middleware"
	"angopay/internal/transport/http/shared"
)

type Handler struct {
	Service     *payroll.Service
	Perms       middleware.PermissionStore
	Idempotency idempotency.Store
	Metrics     *metrics.Collector
	CompanyName string
}

func NewHandler(service *payroll.Service, perms middleware.PermissionStore, keys idempotency.Store, collector *metrics.Collector, companyName string) *Handler {
	return &Handler{Service: service, Perms: perms, Idempotency: keys, Metrics: collector, CompanyName: companyName}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermPayrollRead, h.Perms)
	write := middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)
	r.Route("/payroll", func(r chi.Router) {
		r.With(read).Post("/irt", h.handleQuote)
		r.Route("/periods", func(r chi.Router) {
			r.With(read).Get("/", h.handleListPeriods)
			r.With(write).Post("/", h.handleCreatePeriod)
			r.Route("/{periodID}", func(r chi.Router) {
				r.With(read).Get("/", h.handleGetPeriod)
				r.With(write).Post("/thirteenth", h.handleSetThirteenth)
				r.With(write).Post("/regenerate", h.handleRegenerate)
				r.With(write).Post("/recompute", h.handleRecompute)
				r.With(write).Post("/calculate", h.handleCalculate)
				r.With(middleware.RequirePermission(auth.PermPayrollApprove, h.Perms)).Post("/approve", h.handleApprove)
				r.With(
					middleware.RequirePermission(auth.PermPayrollPay, h.Perms),
					middleware.Idempotent("payroll.pay", h.Idempotency),
				).Post("/pay", h.handlePay)
				r.With(read).Get("/entries", h.handleListEntries)
				r.With(read).Get("/entries/{employeeID}", h.handleGetEntry)
				r.With(write).Put("/entries/{employeeID}", h.handleUpdateEntry)
				r.With(read).Get("/entries/{employeeID}/payslip", h.handlePayslip)
			})
		})
	})
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	var status payroll.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := payroll.ParseStatus(raw)
		if err != nil {
			v := shared.NewValidator()
			v.Add("status", err.Error())
			v.Reject(w, middleware.GetRequestID(r.Context()))
			return
		}
		status = parsed
	}
	periods, err := h.Service.ListPeriods(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, "payroll_periods_failed")
		return
	}
	api.Success(w, payroll.FilterPeriods(periods, status), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var payload payroll.CreatePeriodInput
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	period, err := h.Service.CreatePeriod(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err, "payroll_period_create_failed")
		return
	}
	api.Created(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.Service.GetPeriod(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		shared.WriteError(w, r, err, "payroll_period_get_failed")
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

type thirteenthRequest struct {
	Include bool `json:"include"`
}

func (h *Handler) handleSetThirteenth(w http.ResponseWriter, r *http.Request) {
	var payload thirteenthRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	period, err := h.Service.SetThirteenthMonth(r.Context(), chi.URLParam(r, "periodID"), payload.Include)
	if err != nil {
		shared.WriteError(w, r, err, "payroll_thirteenth_failed")
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var opts payroll.RegenerateOptions
	if r.ContentLength != 0 && !shared.DecodeJSON(w, r, &opts) {
		return
	}
	entries, err := h.Service.RegenerateEntries(r.Context(), chi.URLParam(r, "periodID"), opts)
	if err != nil {
		shared.WriteError(w, r, err, "payroll_regenerate_failed")
		return
	}
	if h.Metrics != nil {
		warnings := 0
		for _, e := range entries {
			warnings += len(e.Warnings)
		}
		h.Metrics.RecordEntries(len(entries), warnings)
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecompute(w http.ResponseWriter, r *http.Request) {
	period, err := h.Service.Recompute(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		shared.WriteError(w, r, err, "payroll_recompute_failed")
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	period, err := h.Service.MarkCalculated(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		shared.WriteError(w, r, err, "payroll_calculate_failed")
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	period, err := h.Service.Approve(r.Context(), chi.URLParam(r, "periodID"), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err, "payroll_approve_failed")
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	period, err := h.Service.MarkPaid(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		shared.WriteError(w, r, err, "payroll_pay_failed")
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordPeriodPaid()
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListEntries(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		shared.WriteError(w, r, err, "payroll_entries_failed")
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.GetEntry(r.Context(), chi.URLParam(r, "periodID"), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err, "payroll_entry_failed")
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var inputs payroll.VariableInputs
	if !shared.DecodeJSON(w, r, &inputs) {
		return
	}
	entry, err := h.Service.UpdateEntryInputs(r.Context(), chi.URLParam(r, "periodID"), chi.URLParam(r, "employeeID"), inputs)
	if err != nil {
		shared.WriteError(w, r, err, "payroll_entry_update_failed")
		return
	}
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")
	var buf bytes.Buffer
	if err := h.Service.WritePayslip(r.Context(), periodID, employeeID, h.CompanyName, &buf); err != nil {
		shared.WriteError(w, r, err, "payslip_failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s-%s.pdf", periodID, employeeID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type quoteRequest struct {
	TaxableIncome *decimal.Decimal        `json:"taxableIncome,omitempty"`
	Compensation  core.CompensationConfig `json:"compensation"`
}

// handleQuote prices either a bare taxable income or a full monthly compensation.
func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var payload quoteRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	calc := h.Service.Calculator()
	if payload.TaxableIncome != nil {
		tax, bracket, err := calc.QuoteIRT(*payload.TaxableIncome)
		if err != nil {
			shared.WriteError(w, r, err, "irt_quote_failed")
			return
		}
		api.Success(w, map[string]any{
			"taxableIncome": *payload.TaxableIncome,
			"irt":           tax,
			"bracket":       bracket,
		}, middleware.GetRequestID(r.Context()))
		return
	}
	quote, err := calc.Quote(payload.Compensation)
	if err != nil {
		shared.WriteError(w, r, err, "irt_quote_failed")
		return
	}
	api.Success(w, quote, middleware.GetRequestID(r.Context()))
}
