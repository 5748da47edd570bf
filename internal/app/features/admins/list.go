// internal/app/features/admins/list.go
package admins

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/tables"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// ServeList handles GET /admins.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	res, err := h.API.ListAdmins(r.Context(), auth.Token(r))
	if err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "list admins", err, "/dashboard")
		return
	}

	data := listData{
		Table: tables.Admins(res.Admins),
		Count: len(res.Admins),
	}
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Admins", "/dashboard"), h.SessionMgr, w, r)
	templates.Render(w, r, "admins_list", data)
}
