// internal/app/features/reports/handler.go
package reports

import (
	"fmt"
	"net/http"
	"strconv"

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

// Handler owns the Reported Posts page handlers.
type Handler struct {
	List  *listpage.Handler[models.Report]
	Desks *workspace.Registry
	Log   *zap.Logger
}

// NewHandler constructs a reports Handler backed by client.
func NewHandler(client remote.Client[models.Report], sm *auth.SessionManager, desks *workspace.Registry, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		List:  listpage.NewHandler(Domain(), client, sm, pageSize, errLog, logger),
		Desks: desks,
		Log:   logger,
	}
}

func postIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "postID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("post %q: %w", raw, collection.ErrNotFound)
	}
	return id, nil
}

type postStatusBody struct {
	Status string `json:"status"`
}

// HandlePostStatus sets the reported post's status and resolves its reports.
func (h *Handler) HandlePostStatus(w http.ResponseWriter, r *http.Request) {
	h.List.Run(w, r, http.StatusOK, func(p *listpage.Page[models.Report]) error {
		postID, err := postIDParam(r)
		if err != nil {
			return p.Reject("post_status", chi.URLParam(r, "postID"), err)
		}
		var body postStatusBody
		if err := listpage.DecodeBody(r, &body); err != nil {
			return err
		}
		_, err = SetPostStatus(r.Context(), p, postID, body.Status)
		return err
	})
}

// HandleDeletePost asks for confirmation to delete the reported post.
func (h *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	h.List.Run(w, r, http.StatusAccepted, func(p *listpage.Page[models.Report]) error {
		postID, err := postIDParam(r)
		if err != nil {
			return p.Reject("delete_post", chi.URLParam(r, "postID"), err)
		}
		_, err = RequestDeletePost(p, postID)
		return err
	})
}
