// internal/app/features/deletions/handler.go
package deletions

import (
	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"github.com/dalemusser/adminpanel/internal/domain/models"
	"go.uber.org/zap"
)

// Handler owns the Deletion Requests page handlers.
type Handler struct {
	List  *listpage.Handler[models.DeletionRequest]
	Desks *workspace.Registry
	Log   *zap.Logger
}

// NewHandler constructs a deletions Handler backed by client.
func NewHandler(client remote.Client[models.DeletionRequest], sm *auth.SessionManager, desks *workspace.Registry, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		List:  listpage.NewHandler(Domain(), client, sm, pageSize, errLog, logger),
		Desks: desks,
		Log:   logger,
	}
}
