// internal/app/features/startups/delete.go
package startups

import (
	"net/http"
	"strings"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// HandleDelete handles POST /startups/{id}/delete. The route is already
// restricted to superadmins; the check is repeated so the handler is safe
// to mount elsewhere.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := startupID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad startup id", nil, "Invalid startup ID.", "/startups")
		return
	}
	if !authz.CanDeleteStartups(r) {
		h.ErrLog.LogForbidden(w, r, "delete startup: not superadmin", nil, "Only superadmins can delete startups.", "/startups")
		return
	}

	back := deleteReturn(r.FormValue("return"), id)

	res, err := h.API.DeleteStartup(r.Context(), auth.Token(r), id)
	h.AuditLog.StartupDeleted(r.Context(), r, id, err)
	if err != nil {
		h.ErrLog.APIActionError(w, r, h.SessionMgr, "delete startup", err, back)
		return
	}

	h.Log.Info("startup deleted", zap.Int64("startup_id", id))
	msg := res.Message
	if msg == "" {
		msg = "Startup deleted."
	}
	h.SessionMgr.SetFlash(w, r, auth.FlashSuccess, msg)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// deleteReturn is where to go after deleting startup id. Pages under the
// deleted startup would 404, so they fall back to the list.
func deleteReturn(raw string, id int64) string {
	back := urlutil.SafeReturn(raw, "", "/startups")
	p := back
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if d := detailPath(id); p == d || strings.HasPrefix(p, d+"/") {
		return "/startups"
	}
	return back
}
