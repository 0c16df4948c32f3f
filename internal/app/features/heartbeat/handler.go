// internal/app/features/heartbeat/handler.go
package heartbeat

import (
	"context"
	"net/http"

	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"go.uber.org/zap"
)

// Toucher marks a recorded session as active.
type Toucher interface {
	Touch(ctx context.Context, id string) (bool, error)
}

// Handler keeps an idle-but-open admin tab from losing its page state.
type Handler struct {
	Sessions Toucher // optional
	Desks    *workspace.Registry
	Log      *zap.Logger
}

// NewHandler creates a new heartbeat handler.
func NewHandler(sessStore Toucher, desks *workspace.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions: sessStore,
		Desks:    desks,
		Log:      logger,
	}
}

// ServeHeartbeat handles POST /admin/heartbeat. The desk middleware has
// already marked the desk seen; this also bumps the session's
// last_active_at in the ledger.
func (h *Handler) ServeHeartbeat(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)
	if !ok || h.Sessions == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Sessions.Touch(ctx, id.SessionID)
	if err != nil {
		h.Log.Warn("failed to update session last_active_at",
			zap.Error(err),
			zap.String("session_id", id.SessionID))
	} else if !updated {
		// Sessions recorded before the ledger existed, or whose Create failed.
		h.Log.Debug("heartbeat for unrecorded session", zap.String("session_id", id.SessionID))
	}

	w.WriteHeader(http.StatusNoContent)
}
