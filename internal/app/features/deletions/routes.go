// internal/app/features/deletions/routes.go
package deletions

import (
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with all Deletion Requests routes mounted.
// Deleting the user behind a request is confirmed through /confirm.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(h.Desks.Middleware)
		h.List.Mount(pr)
	})
	return r
}
