// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// Handler is the errors feature handler. It only renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "")
}

// NotFound renders the 404 page for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, "Page not found", "The page you were looking for does not exist.", "")
}

// RenderForbidden shows an access-denied page with msg.
// An empty backURL resolves to a safe back link defaulting to /dashboard.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

func render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	vm := viewdata.NewBaseVM(r, title, "/dashboard")
	if backURL != "" {
		vm.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{BaseVM: vm, Status: status, Message: msg})
}
