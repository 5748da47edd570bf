package health

import "github.com/go-chi/chi/v5"

// Routes mounts GET / for the health check (typically at "/health").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	return r
}
