package synchandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"angopay/internal/domain/auth"
	"angopay/internal/domain/payroll"
	"angopay/internal/platform/jobs"
	"angopay/internal/transport/http/api"
	"angopay/internal/transport/http/middleware"
	"angopay/internal/transport/http/shared"
)

// RunLister exposes the recorded job runs.
type RunLister interface {
	ListRuns(ctx context.Context, jobType string) ([]jobs.Run, error)
}

type Handler struct {
	Payroll *payroll.Service
	Jobs    *jobs.Service
	Runs    RunLister
	Perms   middleware.PermissionStore
}

func NewHandler(payrollSvc *payroll.Service, jobsSvc *jobs.Service, runs RunLister, perms middleware.PermissionStore) *Handler {
	return &Handler{Payroll: payrollSvc, Jobs: jobsSvc, Runs: runs, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sync", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSyncNotify, h.Perms)).Post("/notify", h.handleNotify)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/runs", h.handleListRuns)
	})
}

// handleNotify is called after employee data changed upstream. Aggregates of every
// editable period are recomputed in the background.
func (h *Handler) handleNotify(w http.ResponseWriter, r *http.Request) {
	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.UserID
	}
	queued := h.Jobs.Enqueue(jobs.JobRecomputeAggregates, func(ctx context.Context) (any, error) {
		count, err := h.Payroll.RecomputeAll(ctx)
		return map[string]any{"periods": count, "requestedBy": actor}, err
	})
	if !queued {
		api.Fail(w, http.StatusServiceUnavailable, "queue_full", "job queue full, retry later", middleware.GetRequestID(r.Context()))
		return
	}
	api.Accepted(w, map[string]any{"queued": true, "jobType": jobs.JobRecomputeAggregates}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Runs.ListRuns(r.Context(), r.URL.Query().Get("jobType"))
	if err != nil {
		shared.WriteError(w, r, err, "job_runs_failed")
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}
