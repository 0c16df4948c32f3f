// internal/app/features/waitlist/routes.go
package waitlist

import (
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with all Waiting List routes mounted.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(h.Desks.Middleware)
		h.List.Mount(pr)
		pr.Post("/{id}/invite", h.HandleInvite)
		pr.Post("/{id}/approve", h.HandleApprove)
	})
	return r
}
