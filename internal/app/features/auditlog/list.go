// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/store/audit"
	"github.com/dalemusser/adminpanel/internal/app/system/normalize"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const pageSize = 50

// ListResponse is one page of audit events, newest first.
type ListResponse struct {
	Events     []audit.Event `json:"events"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// filterFrom reads the list filters from the query string. Unparseable
// dates and pages fall back to "no filter" and page 1.
func filterFrom(r *http.Request) (audit.QueryFilter, int) {
	page := 1
	if p, err := strconv.Atoi(query.Get(r, "page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Actor:     normalize.Email(query.Get(r, "actor")),
		Category:  normalize.QueryParam(query.Get(r, "category")),
		EventType: normalize.QueryParam(query.Get(r, "event_type")),
		Domain:    normalize.QueryParam(query.Get(r, "domain")),
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}

	if t, err := time.Parse(time.DateOnly, query.Get(r, "start_date")); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.Parse(time.DateOnly, query.Get(r, "end_date")); err == nil {
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}
	return filter, page
}

// ServeList handles GET /admin/audit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	filter, page := filterFrom(r)

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		h.ErrLog.ServerError(w, r, "audit query failed", err)
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("failed to count audit events", zap.Error(err))
		h.ErrLog.ServerError(w, r, "audit count failed", err)
		return
	}

	if events == nil {
		events = []audit.Event{}
	}
	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	uierrors.WriteJSON(w, http.StatusOK, ListResponse{
		Events:     events,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}
