// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a chi.Router with all Users routes mounted.
// The user form posts to "/" to create and patches "/{id}" to edit.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(h.Desks.Middleware)
		h.List.Mount(pr)
	})
	return r
}
