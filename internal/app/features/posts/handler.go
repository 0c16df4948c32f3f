// internal/app/features/posts/handler.go
package posts

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

// Handler owns the Posts page handlers.
type Handler struct {
	List  *listpage.Handler[models.Post]
	Desks *workspace.Registry
	Log   *zap.Logger
}

// NewHandler constructs a Posts Handler backed by client.
func NewHandler(client remote.Client[models.Post], sm *auth.SessionManager, desks *workspace.Registry, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		List:  listpage.NewHandler(Domain(), client, sm, pageSize, errLog, logger),
		Desks: desks,
		Log:   logger,
	}
}

// HandleToggle publishes a draft (or archived) post, or moves a published
// post back to draft.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.List.Run(w, r, http.StatusOK, func(p *listpage.Page[models.Post]) error {
		_, err := p.CycleStatus(r.Context(), id, Toggle)
		return err
	})
}
