// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/system/auditlog"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// SessionCloser marks a recorded session as ended.
type SessionCloser interface {
	Close(ctx context.Context, sessionID, reason string) error
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Sessions   SessionCloser // optional
	Audit      *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, closer SessionCloser, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Sessions:   closer,
		Audit:      auditLog,
	}
}

// ServeLogout handles POST /logout. The token is revoked, the cookie is
// cleared, and the desk's page state is dropped by the session-end hook.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.CurrentIdentity(r)

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout: sign out", zap.Error(err))
	}

	if ok {
		h.Audit.Logout(r.Context(), r, id)
	}
	if ok && h.Sessions != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if err := h.Sessions.Close(ctx, id.SessionID, "logout"); err != nil {
			h.Log.Warn("logout: close session record", zap.Error(err), zap.String("session_id", id.SessionID))
		}
	}

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"redirect": "/login"})
}
