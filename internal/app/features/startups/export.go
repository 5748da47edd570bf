// internal/app/features/startups/export.go
package startups

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/csvutil"
	"go.uber.org/zap"
)

var exportHeader = []string{
	"startup_id", "name", "owner", "owner_username", "owner_phone", "status",
	"created_at", "started_at", "ended_at", "members", "views", "group_link",
}

// ServeExportCSV handles GET /startups/export.csv, walking every page of
// the filtered list.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	token := auth.Token(r)
	p := listParams(r)
	p.Page = 1

	res, err := h.API.ListStartups(r.Context(), token, p)
	if err != nil {
		h.AuditLog.Exported(r.Context(), r, "startups", 0, err)
		h.ErrLog.APIError(w, r, h.SessionMgr, "export startups", err, "/startups")
		return
	}

	out, err := csvutil.NewExport(w, csvutil.Filename("startups", time.Now()), exportHeader)
	if err != nil {
		h.Log.Error("CSV write failed (header)", zap.Error(err))
		return
	}

	for {
		for _, s := range res.Startups {
			if out.Full() {
				break
			}
			if err := out.Write([]string{
				strconv.FormatInt(s.StartupID, 10),
				s.Name,
				s.OwnerName(),
				s.OwnerUsername,
				s.OwnerPhone,
				s.Status,
				s.CreatedAt,
				s.StartedAt,
				s.EndedAt,
				strconv.Itoa(s.MemberCount),
				strconv.Itoa(s.Views),
				s.GroupLink,
			}); err != nil {
				h.Log.Error("CSV write failed (row)", zap.Error(err))
				return
			}
		}
		if out.Full() || len(res.Startups) == 0 || p.Page >= res.Pagination.Pages {
			break
		}

		p.Page++
		res, err = h.API.ListStartups(r.Context(), token, p)
		if err != nil {
			h.Log.Error("startups export aborted", zap.Int("page", p.Page), zap.Error(err))
			break
		}
	}

	if err := out.Flush(); err != nil {
		h.Log.Error("CSV flush failed", zap.Error(err))
	}
	h.AuditLog.Exported(r.Context(), r, "startups", out.Rows(), err)
	h.Log.Info("startups CSV exported", zap.Int("rows", out.Rows()), zap.Int("pages", p.Page))
}
