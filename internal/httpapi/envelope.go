package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abdulrehan17773/am-backend/internal/apperror"
)

// Every response uses the same envelope, success and failure alike, so
// clients can branch on a single shape.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type errorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	message := apperror.MessageOf(err)

	// Internal details stay in the log, not on the wire.
	if kind == apperror.KindInternal {
		logger.Error("request failed", "error", err)
		message = "internal server error"
	}

	writeJSON(w, status, errorEnvelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{message},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}
