// internal/app/features/admins/routes.go
package admins

import (
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin account pages (typically at "/admins").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))

		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
	})
	return r
}
