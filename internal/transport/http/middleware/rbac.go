package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"angopay/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(role, permission string) bool
}

// RequirePermission answers 401 for anonymous callers and 403 when the
// caller's role lacks permission.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			status, code, message := authorize(r.Context(), store, permission)
			if status != 0 {
				api.Fail(w, status, code, message, GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authorize(ctx context.Context, store PermissionStore, permission string) (int, string, string) {
	user, ok := GetUser(ctx)
	if !ok {
		return http.StatusUnauthorized, "unauthorized", "authentication required"
	}
	if store.HasPermission(user.Role, permission) {
		return 0, "", ""
	}
	slog.DebugContext(ctx, "permission denied", "user_id", user.UserID, "role", user.Role, "permission", permission)
	return http.StatusForbidden, "forbidden", "role " + user.Role + " lacks " + permission
}
