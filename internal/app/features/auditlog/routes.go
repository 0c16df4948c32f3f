// internal/app/features/auditlog/routes.go
package auditlog

import (
	"net/http"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under the path where this router is
// mounted (typically "/admin/audit" from bootstrap). Only identities with
// the ADMIN role may read it.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(requireAdmin)

		pr.Get("/", h.ServeList)
	})

	return r
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.CurrentIdentity(r)
		if !ok || id.Role() != "ADMIN" {
			uierrors.Write(w, http.StatusForbidden, "forbidden", []notify.Notice{{
				Severity:    notify.SeverityError,
				Title:       "Forbidden",
				Description: "You don't have permission to perform this action.",
			}})
			return
		}
		next.ServeHTTP(w, r)
	})
}
