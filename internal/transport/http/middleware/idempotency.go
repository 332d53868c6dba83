package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"angopay/internal/platform/idempotency"
	"angopay/internal/transport/http/api"
)

const IdempotencyHeader = "Idempotency-Key"

type replayRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *replayRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *replayRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}

// Idempotent requires an Idempotency-Key header on the route. The first successful
// response for a key is stored and replayed for retries with the same path and body; a
// different request under the same key is rejected with 409.
func Idempotent(endpoint string, store idempotency.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				api.Fail(w, http.StatusBadRequest, "idempotency_key_required", "Idempotency-Key header required", requestID)
				return
			}
			userID := ""
			if user, ok := GetUser(r.Context()); ok {
				userID = user.UserID
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			hash := idempotency.RequestHash(append([]byte(r.URL.Path+"\n"), body...))

			stored, found, err := store.Check(r.Context(), userID, endpoint, key, hash)
			if errors.Is(err, idempotency.ErrConflict) {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), requestID)
				return
			}
			if err != nil {
				slog.Warn("idempotency check failed", "endpoint", endpoint, "err", err)
			}
			if found {
				w.Header().Set("Idempotent-Replay", "true")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(stored)
				return
			}

			recorder := &replayRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			if recorder.status >= 300 || !json.Valid(recorder.body.Bytes()) {
				return
			}
			if err := store.Save(r.Context(), userID, endpoint, key, hash, recorder.body.Bytes()); err != nil {
				slog.Warn("idempotency save failed", "endpoint", endpoint, "err", err)
			}
		})
	}
}
