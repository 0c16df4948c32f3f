// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
type Body struct {
	Error    string          `json:"error"`
	Redirect string          `json:"redirect,omitempty"`
	Notices  []notify.Notice `json:"notices"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Write sends an error response carrying notices. A nil notices slice is
// written as an empty list.
func Write(w http.ResponseWriter, status int, msg string, notices []notify.Notice) {
	if notices == nil {
		notices = []notify.Notice{}
	}
	WriteJSON(w, status, Body{Error: msg, Notices: notices})
}

// ErrorLogger logs server-side failures before a generic response is sent.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// ServerError logs err and writes a 500 with the standard server notice.
func (e *ErrorLogger) ServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	Write(w, http.StatusInternalServerError, "internal server error", []notify.Notice{{
		Severity:    notify.SeverityError,
		Title:       "Server Error",
		Description: "Internal server error. Please try again later.",
	}})
}

// Handler serves the router's fallback responses.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusNotFound, "not found", []notify.Notice{{
		Severity:    notify.SeverityError,
		Title:       "Not Found",
		Description: "The requested resource was not found.",
	}})
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusMethodNotAllowed, "method not allowed", nil)
}
