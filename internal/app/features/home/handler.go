package home

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
)

// Handler serves the site root.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot sends signed-in admins to the dashboard and everyone else to login.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentAdmin(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
