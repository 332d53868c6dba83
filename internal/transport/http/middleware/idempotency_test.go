package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"angopay/internal/domain/auth"
	"angopay/internal/platform/idempotency"
	"angopay/internal/transport/http/api"
)

func TestIdempotentReplaysFirstResponse(t *testing.T) {
	store := idempotency.NewMemory()
	calls := 0
	handler := Idempotent("payroll.pay", store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		api.Success(w, map[string]int{"call": calls}, "")
	}))

	send := func(path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "m1", Role: auth.RolePayrollManager}))
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send("/payroll/periods/p1/pay", "k1")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	second := send("/payroll/periods/p1/pay", "k1")
	if second.Code != http.StatusOK || second.Header().Get("Idempotent-Replay") != "true" {
		t.Fatalf("expected replay, got %d %v", second.Code, second.Header())
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replayed body differs: %s vs %s", first.Body.String(), second.Body.String())
	}

	if rec := send("/payroll/periods/p2/pay", "k1"); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused key, got %d", rec.Code)
	}
	if rec := send("/payroll/periods/p1/pay", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without key, got %d", rec.Code)
	}
}

func TestIdempotentDoesNotStoreFailures(t *testing.T) {
	store := idempotency.NewMemory()
	calls := 0
	handler := Idempotent("payroll.pay", store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		api.Fail(w, http.StatusConflict, "invalid_state", "not approved", "")
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/payroll/periods/p1/pay", nil)
		req.Header.Set(IdempotencyHeader, "k1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	}
	if calls != 2 {
		t.Fatalf("failed responses must not be replayed, handler ran %d times", calls)
	}
}

func TestBodyLimitAndSecureHeaders(t *testing.T) {
	var readErr error
	handler := SecureHeaders(true)(BodyLimit(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if readErr == nil {
		t.Fatal("expected body limit error")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected nosniff header")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS in production")
	}
}
