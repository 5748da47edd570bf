// internal/app/features/theme/theme.go
package theme

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/go-chi/chi/v5"
)

func Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", Toggle)
	return r
}

// Toggle flips the light/dark preference. Script callers get the new theme
// as JSON; form posts are sent back to the page they came from.
func Toggle(w http.ResponseWriter, r *http.Request) {
	next := viewdata.ToggleTheme(w, r)

	if r.Header.Get("Accept") == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"theme": next})
		return
	}
	http.Redirect(w, r, httpnav.ResolveBackURL(r, "/dashboard"), http.StatusSeeOther)
}
