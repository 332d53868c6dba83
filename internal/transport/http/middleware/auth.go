package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"angopay/internal/domain/auth"
	"angopay/internal/requestctx"
)

type userKey struct{}

// Auth resolves a bearer token into the request's user. Missing or invalid
// tokens leave the request anonymous and RequirePermission decides.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				slog.DebugContext(r.Context(), "ignoring bearer token", "error", err, "request_id", GetRequestID(r.Context()))
				next.ServeHTTP(w, r)
				return
			}
			user := auth.UserContext{UserID: claims.UserID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithUser also records the user as the audit actor.
func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	return requestctx.WithActor(context.WithValue(ctx, userKey{}, user), user.UserID)
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(userKey{}).(auth.UserContext)
	return user, ok
}
