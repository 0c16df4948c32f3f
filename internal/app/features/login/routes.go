// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the sign-in endpoints. Signed-in operators are sent to
// /admin instead.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RedirectIfSignedIn)
	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLoginPost)
	return r
}
