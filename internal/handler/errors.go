package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hampi-heritage/quest/backend/internal/domain"
)

// ErrorResponse is the JSON error envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human-readable
// message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}

// writeError maps a service error onto an HTTP status and JSON error body.
// Unrecognized errors become opaque 500s; their details go to the log, never
// to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody("not_authenticated", "sign in to use this endpoint"))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", publicMessage(err)))
	case errors.Is(err, domain.ErrAlreadyCollected):
		writeJSON(w, http.StatusConflict, errorBody("already_collected", publicMessage(err)))
	case errors.Is(err, domain.ErrAlreadyEarned):
		writeJSON(w, http.StatusConflict, errorBody("already_earned", publicMessage(err)))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", publicMessage(err)))
	case errors.Is(err, domain.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorBody("rate_limited", "the guide is busy, try again shortly"))
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// requestError writes a 422 for a request rejected before reaching the
// service layer (e.g. missing or malformed body).
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// publicMessage extracts the human-readable tail from a wrapped service error.
// e.g. "service.CheckinService.Collect: validation error: get within 200m to
// check in" becomes "validation error: get within 200m to check in".
func publicMessage(err error) string {
	msg := err.Error()
	for strings.HasPrefix(msg, "service.") {
		_, rest, found := strings.Cut(msg, ": ")
		if !found {
			break
		}
		msg = rest
	}
	return msg
}
