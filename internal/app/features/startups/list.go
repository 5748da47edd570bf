// internal/app/features/startups/list.go
package startups

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/authz"
	"github.com/dalemusser/garajhub/internal/app/system/inputval"
	"github.com/dalemusser/garajhub/internal/app/system/normalize"
	"github.com/dalemusser/garajhub/internal/app/system/paging"
	"github.com/dalemusser/garajhub/internal/app/system/tables"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

func listParams(r *http.Request) apiclient.ListParams {
	status := normalize.Filter(query.Get(r, "status"))
	if !inputval.IsValidStartupStatus(status) {
		status = ""
	}
	return apiclient.ListParams{
		Page:   paging.ParsePage(r),
		Limit:  paging.PageSize,
		Search: normalize.QueryParam(query.Get(r, "search")),
		Status: status,
	}
}

// ServeList handles GET /startups.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _ := authz.Role(r)
	p := listParams(r)

	res, err := h.API.ListStartups(r.Context(), auth.Token(r), p)
	if err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "list startups", err, "/dashboard")
		return
	}
	if paging.PastEnd(p.Page, res.Pagination.Pages) {
		http.Redirect(w, r, paging.PageURL(r.URL, res.Pagination.Pages), http.StatusSeeOther)
		return
	}

	desc := paging.NewDescriptor(p.Page, res.Pagination.Pages, paging.PageSize)
	data := listData{
		Table:      tables.Startups(res.Startups, role),
		Pagination: paging.WithLinks(r.URL, desc.Controls()),
		Page:       desc,
		Total:      res.Pagination.Total,
		Search:     p.Search,
		Status:     p.Status,
		Statuses:   statusOptions(p.Status),
	}
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Startups", "/dashboard"), h.SessionMgr, w, r)
	templates.Render(w, r, "startups_list", data)
}
