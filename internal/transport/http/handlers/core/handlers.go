package corehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"angopay/internal/domain/auth"
	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
	"angopay/internal/transport/http/api"
	"angopay/internal/transport/http/middleware"
	"angopay/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Leave   *leave.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *core.Service, leaveSvc *leave.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Leave: leaveSvc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleGetEmployee)
			r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/vacations", h.handleListVacations)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/vacations", h.handleScheduleVacation)
		})
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"id":          user.UserID,
		"role":        user.Role,
		"permissions": auth.RolePermissions[user.Role],
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	employees, err := h.Service.ListEmployees(r.Context(), core.ListFilter{Status: status})
	if err != nil {
		shared.WriteError(w, r, err, "employees_list_failed")
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

type createEmployeeRequest struct {
	Code         string                  `json:"code"`
	Name         string                  `json:"name"`
	Position     string                  `json:"position"`
	Department   string                  `json:"department"`
	HireDate     string                  `json:"hireDate"`
	Compensation core.CompensationConfig `json:"compensation"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload createEmployeeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	hireDate, _ := v.Date("hireDate", payload.HireDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), core.CreateEmployeeInput{
		Code:         payload.Code,
		Name:         payload.Name,
		Position:     payload.Position,
		Department:   payload.Department,
		HireDate:     hireDate,
		Compensation: payload.Compensation,
	})
	if err != nil {
		shared.WriteError(w, r, err, "employee_create_failed")
		return
	}
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err, "employee_get_failed")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListVacations(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.Leave.ListSchedules(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err, "vacations_list_failed")
		return
	}
	api.Success(w, schedules, middleware.GetRequestID(r.Context()))
}

type vacationRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *Handler) handleScheduleVacation(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if _, err := h.Service.GetEmployee(r.Context(), employeeID); err != nil {
		shared.WriteError(w, r, err, "employee_get_failed")
		return
	}
	var payload vacationRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	schedule, err := h.Leave.ScheduleVacation(r.Context(), leave.ScheduleInput{EmployeeID: employeeID, StartDate: start, EndDate: end})
	if err != nil {
		shared.WriteError(w, r, err, "vacation_create_failed")
		return
	}
	api.Created(w, schedule, middleware.GetRequestID(r.Context()))
}
