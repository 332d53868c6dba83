package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"angopay/internal/domain/audit"
	"angopay/internal/domain/auth"
	"angopay/internal/transport/http/api"
	"angopay/internal/transport/http/middleware"
	"angopay/internal/transport/http/shared"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

type Handler struct {
	Service *audit.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAuditRead, h.Perms))
		r.Get("/", h.handleList)
		r.Get("/{entityType}/{entityID}", h.handleHistory)
	})
}

// handleList searches the whole trail with optional query filters.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entityType"),
		EntityID:   q.Get("entityId"),
		ActorID:    q.Get("actorId"),
	})
}

// handleHistory returns the trail of a single record, e.g. every status
// change of one payroll period.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, audit.Filter{
		EntityType: chi.URLParam(r, "entityType"),
		EntityID:   chi.URLParam(r, "entityID"),
		Action:     r.URL.Query().Get("action"),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, filter audit.Filter) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	page := v.Page(r, defaultPageSize, maxPageSize)
	if v.Reject(w, reqID) {
		return
	}
	events, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err, "audit_list_failed")
		return
	}
	api.Success(w, events, reqID)
}
