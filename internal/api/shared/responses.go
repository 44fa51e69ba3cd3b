package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/redact"
)

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ResponseOption customizes an error response.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
	detail          string
}

// WithElevatedLogLevel raises a 4xx response from DEBUG to WARN.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithDetail attaches a diagnostic to the response body. The text is
// redacted before it is sent.
func WithDetail(detail string) ResponseOption {
	return func(opts *responseOptions) {
		opts.detail = detail
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes an error envelope carrying the given code.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, code string, opts ...ResponseOption) {
	RespondWithErrorAndLog(w, r, status, code, nil, opts...)
}

// RespondWithErrorAndLog writes an error envelope and logs the underlying
// error, redacted. Only the code and an optional redacted detail reach the
// client.
//
// Log level strategy:
//   - 5xx responses are logged at ERROR
//   - 4xx responses are logged at DEBUG, or WARN with WithElevatedLogLevel
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code string,
	err error,
	opts ...ResponseOption,
) {
	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	traceID := GetTraceID(r.Context())
	body := ErrorResponse{
		OK:      false,
		Error:   code,
		Detail:  redact.String(responseOpts.detail),
		TraceID: traceID,
	}

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("error_code", code),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if responseOpts.elevateLogLevel {
		logLevel = slog.LevelWarn
	}

	logger.FromContextOrDefault(r.Context(), slog.Default()).
		LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, body)
}
