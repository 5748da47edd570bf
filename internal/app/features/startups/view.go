// internal/app/features/startups/view.go
package startups

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/authz"
	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/dalemusser/garajhub/internal/app/system/tables"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeView handles GET /startups/{id}: details and members.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := startupID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad startup id", nil, "Invalid startup ID.", "/startups")
		return
	}

	detail, err := h.API.GetStartup(r.Context(), auth.Token(r), id)
	if err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "get startup", err, "/startups")
		return
	}

	base := viewdata.WithFlash(viewdata.NewBaseVM(r, "Startup details", "/startups"), h.SessionMgr, w, r)
	data := viewData{
		BaseVM:      base,
		Startup:     detail.Startup,
		Heading:     heading(detail.Startup),
		StatusLabel: format.Title(detail.Startup.Status),
		Profile:     tables.StartupProfile(detail.Startup),
		Members:     tables.Members(detail.Members).WithCSRF(base.CSRFToken),
		MemberCount: len(detail.Members),
		CanDelete:   authz.CanDeleteStartups(r),
	}
	templates.Render(w, r, "startup_view", data)
}
