// internal/app/features/waitlist/handler.go
package waitlist

import (
	"net/http"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"github.com/dalemusser/adminpanel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler owns the Waiting List page handlers.
type Handler struct {
	List  *listpage.Handler[models.WaitlistEntry]
	Desks *workspace.Registry
	Log   *zap.Logger
}

// NewHandler constructs a waitlist Handler backed by client.
func NewHandler(client remote.Client[models.WaitlistEntry], sm *auth.SessionManager, desks *workspace.Registry, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		List:  listpage.NewHandler(Domain(), client, sm, pageSize, errLog, logger),
		Desks: desks,
		Log:   logger,
	}
}

func (h *Handler) moveTo(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		h.List.Run(w, r, http.StatusOK, func(p *listpage.Page[models.WaitlistEntry]) error {
			_, err := p.SetStatus(r.Context(), id, status)
			return err
		})
	}
}

// HandleInvite marks an entry as invited.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	h.moveTo(models.WaitlistInvited)(w, r)
}

// HandleApprove marks an entry as joined.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.moveTo(models.WaitlistJoined)(w, r)
}
