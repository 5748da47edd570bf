// internal/app/features/users/view.go
package users

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/dalemusser/garajhub/internal/app/system/tables"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeView handles GET /users/{id}: profile, owned startups and join
// requests.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad user id", nil, "Invalid user ID.", "/users")
		return
	}

	detail, err := h.API.GetUser(r.Context(), auth.Token(r), id)
	if err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "get user", err, "/users")
		return
	}

	base := viewdata.WithFlash(viewdata.NewBaseVM(r, "User details", "/users"), h.SessionMgr, w, r)
	data := viewData{
		BaseVM:       base,
		User:         detail.User,
		Heading:      heading(detail.User),
		StatusLabel:  format.Title(detail.User.Status),
		Profile:      tables.UserProfile(detail.User),
		Startups:     tables.UserStartups(detail.Startups).WithCSRF(base.CSRFToken),
		JoinRequests: tables.JoinRequests(detail.JoinRequests).WithCSRF(base.CSRFToken),
	}
	templates.Render(w, r, "user_view", data)
}
