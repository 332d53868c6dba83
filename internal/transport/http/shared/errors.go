package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"angopay/internal/domain/adjustment"
	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
	"angopay/internal/domain/payroll"
	"angopay/internal/domain/termination"
	"angopay/internal/requestctx"
	"angopay/internal/transport/http/api"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{core.ErrEmployeeNotFound, http.StatusNotFound, "not_found"},
	{payroll.ErrPeriodNotFound, http.StatusNotFound, "not_found"},
	{payroll.ErrEntryNotFound, http.StatusNotFound, "not_found"},
	{adjustment.ErrAdjustmentNotFound, http.StatusNotFound, "not_found"},
	{leave.ErrScheduleNotFound, http.StatusNotFound, "not_found"},
	{termination.ErrRecordNotFound, http.StatusNotFound, "not_found"},
	{core.ErrEmployeeCodeExists, http.StatusConflict, "conflict"},
	{payroll.ErrPeriodExists, http.StatusConflict, "conflict"},
	{leave.ErrOverlappingVacations, http.StatusConflict, "conflict"},
	{leave.ErrSubsidyAlreadyPaid, http.StatusConflict, "conflict"},
	{payroll.ErrStateTransition, http.StatusConflict, "invalid_state"},
	{payroll.ErrPeriodNotGenerated, http.StatusConflict, "invalid_state"},
	{payroll.ErrConfiguration, http.StatusUnprocessableEntity, "configuration_error"},
	{payroll.ErrInvalidPeriod, http.StatusBadRequest, "invalid_payload"},
	{core.ErrInvalidEmployee, http.StatusBadRequest, "invalid_payload"},
	{core.ErrNegativeCompensation, http.StatusBadRequest, "invalid_payload"},
	{core.ErrInvalidEmployeeStatus, http.StatusBadRequest, "invalid_payload"},
	{leave.ErrInvalidRange, http.StatusBadRequest, "invalid_payload"},
	{leave.ErrEmployeeRequired, http.StatusBadRequest, "invalid_payload"},
	{adjustment.ErrInvalidAdjustment, http.StatusBadRequest, "invalid_payload"},
	{adjustment.ErrInvalidType, http.StatusBadRequest, "invalid_payload"},
	{adjustment.ErrInvalidStatus, http.StatusBadRequest, "invalid_payload"},
	{adjustment.ErrRejectionReasonEmpty, http.StatusBadRequest, "invalid_payload"},
	{termination.ErrInvalidInput, http.StatusBadRequest, "invalid_payload"},
	{termination.ErrInvalidReason, http.StatusBadRequest, "invalid_payload"},
}

// WriteError maps a domain error to its HTTP status. Unknown errors are logged and
// reported as fallbackCode with status 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallbackCode string) {
	requestID := requestIDOf(r)
	var cfgErr *payroll.ConfigurationError
	if errors.As(err, &cfgErr) {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "configuration_error", err.Error(),
			map[string]string{"field": cfgErr.Field}, requestID)
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			api.Fail(w, m.status, m.code, err.Error(), requestID)
			return
		}
	}
	slog.Error("request failed", "path", r.URL.Path, "err", err)
	api.Fail(w, http.StatusInternalServerError, fallbackCode, "internal error", requestID)
}

// DecodeJSON rejects unknown fields. It writes the failure response itself.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestIDOf(r))
		return false
	}
	return true
}

func requestIDOf(r *http.Request) string {
	return requestctx.GetRequestID(r.Context())
}
