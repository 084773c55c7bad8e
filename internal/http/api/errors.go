package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/credseal/internal/pipeline"
)

// HTTPError representa un error estándar del API.
type HTTPError struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"`
	Status     int      `json:"-"`
}

func (e *HTTPError) Error() string { return e.Message }

var (
	errInvalidJSON   = &HTTPError{Code: "invalid_json", Message: "Invalid JSON body", Status: http.StatusBadRequest}
	errInternalError = &HTTPError{Code: "internal_error", Message: "Internal server error", Status: http.StatusInternalServerError}
)

// fromPipelineError traduce el taxonomy de errores del pipeline a un
// HTTPError accionable. Cada kind queda distinguible por código.
func fromPipelineError(err error) *HTTPError {
	switch {
	case errors.Is(err, pipeline.ErrSchemaViolation):
		return &HTTPError{
			Code:       "schema_violation",
			Message:    "Record fails the structural schema",
			Violations: pipeline.Violations(err),
			Status:     http.StatusUnprocessableEntity,
		}
	case errors.Is(err, pipeline.ErrInvariantViolation):
		return &HTTPError{
			Code:       "invariant_violation",
			Message:    "Record breaks a business invariant",
			Violations: pipeline.Violations(err),
			Status:     http.StatusUnprocessableEntity,
		}
	case errors.Is(err, pipeline.ErrCapacityExceeded):
		return &HTTPError{
			Code:    "capacity_exceeded",
			Message: "Record too large for any barcode version at the requested EC level",
			Status:  http.StatusUnprocessableEntity,
		}
	case errors.Is(err, pipeline.ErrCodecFailure):
		return &HTTPError{
			Code:    "codec_failure",
			Message: "Malformed base45 input or corrupt compressed stream",
			Status:  http.StatusBadRequest,
		}
	case errors.Is(err, pipeline.ErrVerificationFailure):
		return &HTTPError{
			Code:    "verification_failure",
			Message: "Signature or algorithm mismatch: do not trust this credential",
			Status:  http.StatusUnauthorized,
		}
	case errors.Is(err, pipeline.ErrSigningFailure):
		return &HTTPError{
			Code:    "signing_failure",
			Message: "Key material unusable",
			Status:  http.StatusInternalServerError,
		}
	}
	return errInternalError
}

// writeError escribe el error como JSON.
func writeError(w http.ResponseWriter, httpErr *HTTPError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpErr.Status)
	_ = json.NewEncoder(w).Encode(httpErr)
}

// writeJSON escribe una respuesta 200 con body JSON.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
