// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with all Reported Posts routes mounted.
// Post moderation lives under /posts/{postID}; deleting a post is
// confirmed through /confirm like any other delete.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(h.Desks.Middleware)
		h.List.Mount(pr)
		pr.Post("/posts/{postID}/status", h.HandlePostStatus)
		pr.Post("/posts/{postID}/delete", h.HandleDeletePost)
	})
	return r
}
