// internal/app/features/users/list.go
package users

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/dalemusser/garajhub/internal/app/system/inputval"
	"github.com/dalemusser/garajhub/internal/app/system/normalize"
	"github.com/dalemusser/garajhub/internal/app/system/paging"
	"github.com/dalemusser/garajhub/internal/app/system/tables"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

// listParams reads page, search and status from the query string. An
// unknown status is dropped rather than forwarded.
func listParams(r *http.Request) apiclient.ListParams {
	status := normalize.Filter(query.Get(r, "status"))
	if !inputval.IsValidUserStatus(status) {
		status = ""
	}
	return apiclient.ListParams{
		Page:   paging.ParsePage(r),
		Limit:  paging.PageSize,
		Search: normalize.QueryParam(query.Get(r, "search")),
		Status: status,
	}
}

func statusOptions(selected string) []statusOption {
	out := make([]statusOption, 0, len(models.UserStatuses))
	for _, s := range models.UserStatuses {
		out = append(out, statusOption{Value: s, Label: format.Title(s), Selected: s == selected})
	}
	return out
}

// ServeList handles GET /users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := listParams(r)

	res, err := h.API.ListUsers(r.Context(), auth.Token(r), p)
	if err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "list users", err, "/dashboard")
		return
	}
	if paging.PastEnd(p.Page, res.Pagination.Pages) {
		http.Redirect(w, r, paging.PageURL(r.URL, res.Pagination.Pages), http.StatusSeeOther)
		return
	}

	desc := paging.NewDescriptor(p.Page, res.Pagination.Pages, paging.PageSize)
	data := listData{
		Table:      tables.Users(res.Users),
		Pagination: paging.WithLinks(r.URL, desc.Controls()),
		Page:       desc,
		Total:      res.Pagination.Total,
		Search:     p.Search,
		Status:     p.Status,
		Statuses:   statusOptions(p.Status),
	}
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Users", "/dashboard"), h.SessionMgr, w, r)
	templates.Render(w, r, "users_list", data)
}
