// internal/app/features/backup/backup.go
package backup

import (
	"net/http"
	"net/url"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type pageData struct {
	viewdata.BaseVM

	// Set after a backup was created.
	Filename    string
	DownloadURL string
}

// ServePage handles GET /backup. After a successful POST the browser lands
// here with ?created=<filename> and the page offers the download.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	var data pageData
	if name := query.Get(r, "created"); name != "" && validFilename(name) {
		data.Filename = name
		data.DownloadURL = DownloadPath(url.PathEscape(name))
	}
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Backup", "/dashboard"), h.SessionMgr, w, r)
	templates.Render(w, r, "backup_page", data)
}

// HandleCreate handles POST /backup: the API snapshots its database and
// reports the file it wrote.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res, err := h.API.Backup(r.Context(), auth.Token(r))
	h.AuditLog.BackupCreated(r.Context(), r, res.Filename, err)
	if err != nil {
		h.ErrLog.APIActionError(w, r, h.SessionMgr, "create backup", err, "/backup")
		return
	}

	h.Log.Info("backup created", zap.String("filename", res.Filename))
	msg := res.Message
	if msg == "" {
		msg = "Backup created."
	}
	h.SessionMgr.SetFlash(w, r, auth.FlashSuccess, msg)

	target := "/backup"
	if validFilename(res.Filename) {
		target += "?created=" + url.QueryEscape(res.Filename)
	} else if res.Filename != "" {
		h.Log.Warn("backup filename not offered for download", zap.String("filename", res.Filename))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
