// internal/app/features/contact/routes.go
package contact

import (
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with the support inbox routes mounted.
// GET /{id} opens a message and marks it read.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(h.Desks.Middleware)
		h.List.Mount(pr)
		pr.Post("/{id}/star", h.HandleStar)
	})
	return r
}
