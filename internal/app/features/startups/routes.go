// internal/app/features/startups/routes.go
package startups

import (
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the startup pages (typically at "/startups").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/export.csv", h.ServeExportCSV)

		pr.Get("/{id}", h.ServeView)
		pr.Get("/{id}/status", h.ServeStatusForm)
		pr.Post("/{id}/status", h.HandleStatus)
	})

	// Deleting is reserved for superadmins. The API enforces the same rule.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
