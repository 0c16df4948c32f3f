// internal/app/features/contact/handler.go
package contact

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"github.com/dalemusser/adminpanel/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler owns the support inbox handlers.
type Handler struct {
	List  *listpage.Handler[models.Contact]
	Desks *workspace.Registry
	Log   *zap.Logger
}

// NewHandler constructs a contact Handler backed by client.
func NewHandler(client remote.Client[models.Contact], sm *auth.SessionManager, desks *workspace.Registry, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		List:  listpage.NewHandler(Domain(), client, sm, pageSize, errLog, logger),
		Desks: desks,
		Log:   logger,
	}
}

// ToggleStar flips a message's star.
func ToggleStar(ctx context.Context, p *listpage.Page[models.Contact], id string) (collection.Record[models.Contact], error) {
	return p.Patch(ctx, "star", id, func(c *models.Contact) error {
		c.Starred = !c.Starred
		return nil
	}, starNotice)
}

// HandleStar toggles the star on a message.
func (h *Handler) HandleStar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.List.Run(w, r, http.StatusOK, func(p *listpage.Page[models.Contact]) error {
		_, err := ToggleStar(r.Context(), p, id)
		return err
	})
}
