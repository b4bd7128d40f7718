// Package respond writes JSON bodies and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/realty/internal/domain"
)

// ErrorBody is the shape of every error response
type ErrorBody struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to encode response", slog.String("error", err.Error()))
	}
}

// Status maps an error to its HTTP status code
func Status(err error) int {
	switch domain.KindOf(err) {
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as {"error": ...}. Upstream messages are passed through.
func Error(w http.ResponseWriter, err error) {
	body := ErrorBody{Error: err.Error()}
	var de *domain.Error
	if errors.As(err, &de) {
		body.Error = de.Message
		if de.Kind == domain.KindUpstream && de.Err != nil {
			body.Error = de.Error()
		}
		body.Fields = de.Fields
	}
	JSON(w, Status(err), body)
}
