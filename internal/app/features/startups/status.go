// internal/app/features/startups/status.go
package startups

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/inputval"
	"github.com/dalemusser/garajhub/internal/app/system/limits"
	"github.com/dalemusser/garajhub/internal/app/system/navigation"
	"github.com/dalemusser/garajhub/internal/app/system/normalize"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeStatusForm handles GET /startups/{id}/status.
func (h *Handler) ServeStatusForm(w http.ResponseWriter, r *http.Request) {
	id, ok := startupID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad startup id", nil, "Invalid startup ID.", "/startups")
		return
	}

	detail, err := h.API.GetStartup(r.Context(), auth.Token(r), id)
	if err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "get startup for status form", err, "/startups")
		return
	}

	data := statusFormData{
		Startup:  detail.Startup,
		Heading:  heading(detail.Startup),
		Statuses: statusOptions(detail.Startup.Status),
		Return:   navigation.SafeBackURL(r, navigation.StartupsBackURL),
	}
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Edit startup", "/startups"), h.SessionMgr, w, r)
	templates.Render(w, r, "startup_status", data)
}

// HandleStatus handles POST /startups/{id}/status. The status must be one
// of pending, active, completed or rejected; anything else is refused
// without calling the API. Results are sent only when the form carries them.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := startupID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad startup id", nil, "Invalid startup ID.", "/startups")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse startup status form", err, "Invalid form submission.", "/startups")
		return
	}

	back := navigation.SafeBackURL(r, navigation.StartupsBackURL.WithFallback(detailPath(id)))
	status := normalize.Status(r.PostFormValue("status"))
	if !inputval.IsValidStartupStatus(status) {
		h.SessionMgr.SetFlash(w, r, auth.FlashError, fmt.Sprintf("Invalid status %q.", status))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	upd := models.StartupUpdate{Status: &status}
	if results := strings.TrimSpace(r.PostFormValue("results")); results != "" {
		if len([]rune(results)) > limits.MaxResultsLength {
			h.SessionMgr.SetFlash(w, r, auth.FlashError, fmt.Sprintf("Results must be at most %d characters.", limits.MaxResultsLength))
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
		upd.Results = &results
	}

	res, err := h.API.UpdateStartup(r.Context(), auth.Token(r), id, upd)
	h.AuditLog.StartupStatusChanged(r.Context(), r, id, status, err)
	if err != nil {
		h.ErrLog.APIActionError(w, r, h.SessionMgr, "update startup", err, back)
		return
	}

	h.Log.Info("startup status changed", zap.Int64("startup_id", id), zap.String("status", status))
	msg := res.Message
	if msg == "" {
		msg = "Startup updated."
	}
	h.SessionMgr.SetFlash(w, r, auth.FlashSuccess, msg)
	http.Redirect(w, r, back, http.StatusSeeOther)
}
