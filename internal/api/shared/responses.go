package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/redact"
)

// Envelope wraps every successful response body.
type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes data as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

// RespondWithData writes data wrapped in an Envelope.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	RespondWithJSON(w, r, status, Envelope{Data: data, Message: message})
}

// RespondWithError writes an ErrorResponse without logging a cause.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	RespondWithErrorAndLog(w, r, status, code, message, nil)
}

// RespondWithErrorAndLog logs err (redacted) and writes an ErrorResponse
// carrying the user-facing message. Server errors log at error level
// unless the request was already canceled; everything else logs at debug.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	traceID := GetTraceID(r.Context())

	attrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("code", code),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError && r.Context().Err() == nil {
		level = slog.LevelError
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), level, "API error response", attrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		Code:    code,
		TraceID: traceID,
	})
}
