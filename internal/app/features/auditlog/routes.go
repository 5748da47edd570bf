// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all audit log routes under the path where this
// router is mounted (typically "/audit" from bootstrap).
//
// Access is restricted to superadmins.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))

		pr.Get("/", h.ServeList)
	})

	return r
}
