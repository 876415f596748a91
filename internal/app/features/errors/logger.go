// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and writes a generic
// message to the client. The underlying error is never sent.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fs := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		fs = append(fs, zap.String("request_id", reqID))
	}
	return fs
}

// LogServerError logs at error level and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Error(msg, e.fields(r, err)...)
	WriteJSON(w, http.StatusInternalServerError, body{Error: "server_error", Message: userMsg})
}

// LogUpstreamError logs a failed call to an external service and
// responds 502 with userMsg.
func (e *ErrorLogger) LogUpstreamError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Error(msg, e.fields(r, err)...)
	WriteJSON(w, http.StatusBadGateway, body{Error: "upstream_error", Message: userMsg})
}

// LogBadRequest logs at warn level and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.log.Warn(msg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg)
}
