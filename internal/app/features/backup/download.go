// internal/app/features/backup/download.go
package backup

import (
	"mime"
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// attachmentWriter sets the download headers on the first byte written,
// so an API error that arrives before any data can still be reported as a
// normal page.
type attachmentWriter struct {
	w        http.ResponseWriter
	filename string
	started  bool
	n        int64
}

func (a *attachmentWriter) Write(p []byte) (int, error) {
	if !a.started {
		a.started = true
		h := a.w.Header()
		h.Set("Content-Type", "application/octet-stream")
		h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.filename}))
		h.Set("Cache-Control", "no-store")
		a.w.WriteHeader(http.StatusOK)
	}
	n, err := a.w.Write(p)
	a.n += int64(n)
	return n, err
}

// ServeDownload handles GET /backup/download/{filename} by streaming the
// file from the API.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if !validFilename(name) {
		h.ErrLog.LogBadRequest(w, r, "bad backup filename", nil, "Invalid backup file name.", "/backup")
		return
	}

	out := &attachmentWriter{w: w, filename: name}
	_, err := h.API.Stream(r.Context(), auth.Token(r), apiclient.BackupPath(name), out)
	if err != nil {
		if out.started {
			// Headers are gone; all that is left is to log the cut-off.
			h.Log.Error("backup download interrupted", zap.String("filename", name), zap.Int64("bytes", out.n), zap.Error(err))
			return
		}
		h.ErrLog.APIActionError(w, r, h.SessionMgr, "download backup", err, "/backup")
		return
	}
	if !out.started {
		// Empty file: still answer as an attachment.
		_, _ = out.Write(nil)
	}
	h.Log.Info("backup downloaded", zap.String("filename", name), zap.Int64("bytes", out.n))
}
