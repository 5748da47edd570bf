// internal/app/features/login/handler.go
package login

import (
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/authz"
	"github.com/dalemusser/garajhub/internal/app/system/inputval"
	"github.com/dalemusser/garajhub/internal/app/system/ratelimit"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

type Handler struct {
	API        *apiclient.Client
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		Log:        logger,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string
	ReturnURL string
}

// returnURL resolves the post-login destination to a local path.
func returnURL(raw string) string {
	return urlutil.SafeReturn(raw, "", "/dashboard")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogin renders the sign-in form. Already signed-in admins skip it.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := returnURL(query.Get(r, "return"))
	if _, ok := auth.CurrentAdmin(r); ok {
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	}
	h.render(w, r, loginFormData{ReturnURL: ret})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data loginFormData) {
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Sign in", "/"), h.SessionMgr, w, r)
	templates.Render(w, r, "login_form", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleLoginPost exchanges the submitted credentials for an API token and
// stores it with the admin snapshot in the session.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form", err, "Invalid form submission.", "/login")
		return
	}

	in := models.LoginRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	ret := returnURL(r.PostFormValue("return"))
	form := loginFormData{Username: in.Username, ReturnURL: ret}

	if err := inputval.Struct(in); err != nil {
		form.Error = "Enter your username and password."
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, r, form)
		return
	}

	if ok, reason := h.Limiter.Check(r, in.Username); !ok {
		h.AuditLog.LoginFailed(r.Context(), r, in.Username, &apiclient.Error{Status: http.StatusTooManyRequests, Message: "rate limited"})
		h.Log.Warn("login rate limited", zap.String("username", in.Username))
		form.Error = reason
		w.WriteHeader(http.StatusTooManyRequests)
		h.render(w, r, form)
		return
	}

	resp, err := h.API.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		h.AuditLog.LoginFailed(r.Context(), r, in.Username, err)
		form.Error = apiclient.Message(err, "Sign in failed")
		if apiclient.IsUnauthorized(err) {
			w.WriteHeader(http.StatusUnauthorized)
		} else {
			w.WriteHeader(http.StatusBadGateway)
		}
		h.render(w, r, form)
		return
	}

	if !authz.IsAdmin(resp.Admin.Role) {
		h.AuditLog.LoginFailed(r.Context(), r, in.Username, &apiclient.Error{Status: http.StatusForbidden, Message: "not an admin role: " + resp.Admin.Role})
		form.Error = "This account cannot use the admin dashboard."
		w.WriteHeader(http.StatusForbidden)
		h.render(w, r, form)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, resp); err != nil {
		h.ErrLog.LogServerError(w, r, "save session", err, "Could not start your session.", "/login")
		return
	}

	h.Limiter.ResetUser(in.Username)
	h.AuditLog.LoginSuccess(r.Context(), r, resp.Admin.ID, resp.Admin.Username, resp.Admin.Role)
	h.Log.Info("admin signed in",
		zap.Int64("admin_id", resp.Admin.ID),
		zap.String("username", resp.Admin.Username),
		zap.String("role", resp.Admin.Role))

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", ret)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, ret, http.StatusSeeOther)
}
