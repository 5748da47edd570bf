// internal/app/features/logout/logout.go
package logout

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(sm *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sm, AuditLog: audit, Log: logger}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeLogout)
	return r
}

// ServeLogout forgets the API token and sends the browser to the login page.
// The API keeps no server-side session, so there is nothing to revoke there.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if a, ok := auth.CurrentAdmin(r); ok {
		h.AuditLog.Logout(r.Context(), r)
		h.Log.Info("admin signed out", zap.Int64("admin_id", a.ID), zap.String("username", a.Username))
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("clear session on logout", zap.Error(err))
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
