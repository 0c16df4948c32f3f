// Package notify produces the user-facing notices that accompany every
// completed mutation or failure on a list page.
package notify

import (
	"errors"
	"net/http"
	"sync"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/metrics"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"go.uber.org/zap"
)

// Severity of a notice.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a transient message shown to the operator.
type Notice struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
}

// Success builds a success notice.
func Success(title, description string) Notice {
	return Notice{Severity: SeveritySuccess, Title: title, Description: description}
}

// Info builds an informational notice.
func Info(title, description string) Notice {
	return Notice{Severity: SeverityInfo, Title: title, Description: description}
}

// Notifier receives notices.
type Notifier interface {
	Notify(Notice)
}

// FromError maps a failure to the notice the operator sees.
func FromError(err error) Notice {
	var re *remote.Error
	if errors.As(err, &re) {
		return fromRemote(re)
	}
	var fe *collection.FieldError
	if errors.As(err, &fe) {
		return Notice{Severity: SeverityError, Title: "Validation Error", Description: fe.Error()}
	}
	switch {
	case errors.Is(err, collection.ErrNotFound):
		return Notice{Severity: SeverityError, Title: "Not Found", Description: "The requested resource was not found."}
	case errors.Is(err, collection.ErrInvalidTransition):
		return Notice{Severity: SeverityWarning, Title: "Invalid Status", Description: "That status is not allowed for this record."}
	default:
		return Notice{Severity: SeverityError, Title: "Error", Description: messageOr(err.Error())}
	}
}

func fromRemote(e *remote.Error) Notice {
	n := Notice{Severity: SeverityError}
	switch {
	case e.Kind == remote.KindNetwork:
		n.Title = "Network Error"
	case e.Status == http.StatusUnauthorized:
		n.Title = "Unauthorized"
		n.Description = "Your session has expired. Please login again."
	case e.Status == http.StatusForbidden:
		n.Title = "Forbidden"
		n.Description = "You don't have permission to perform this action."
	case e.Status == http.StatusNotFound:
		n.Title = "Not Found"
		n.Description = "The requested resource was not found."
	case e.Status == http.StatusUnprocessableEntity:
		n.Title = "Validation Error"
		n.Description = messageOr(e.Message)
	case e.Status == http.StatusInternalServerError:
		n.Title = "Server Error"
		n.Description = "Internal server error. Please try again later."
	case e.Status == 0:
		n.Title = "Request Error"
		n.Description = "An error occurred while setting up the request."
	default:
		n.Title = "Error"
		n.Description = messageOr(e.Message)
	}
	return n
}

func messageOr(msg string) string {
	if msg == "" {
		return "Something went wrong"
	}
	return msg
}

// Queue collects notices for one desk until the next response drains them.
type Queue struct {
	log *zap.Logger

	mu    sync.Mutex
	items []Notice
}

// NewQueue returns an empty queue that logs each notice.
func NewQueue(logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{log: logger}
}

func (q *Queue) Notify(n Notice) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()

	metrics.RecordNotice(string(n.Severity))
	fields := []zap.Field{
		zap.String("severity", string(n.Severity)),
		zap.String("title", n.Title),
	}
	if n.Severity == SeverityError || n.Severity == SeverityWarning {
		q.log.Warn("notice", append(fields, zap.String("description", n.Description))...)
		return
	}
	q.log.Debug("notice", fields...)
}

// Drain returns and clears the queued notices. The result is never nil.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Len reports how many notices are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
