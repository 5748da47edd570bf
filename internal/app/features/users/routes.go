// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the users pages (typically at "/users").
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

	return r
}
