// internal/app/features/admins/new.go
package admins

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/inputval"
	"github.com/dalemusser/garajhub/internal/app/system/normalize"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeNew renders the "Add admin" form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formData{Role: models.RoleAdmin})
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data formData) {
	data.Roles = roleOptions(data.Role)
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Add admin", "/admins"), h.SessionMgr, w, r)
	templates.Render(w, r, "admin_new", data)
}

// HandleCreate processes the "Add admin" form POST.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse admin form", err, "Invalid form submission.", "/admins")
		return
	}

	in := models.AdminCreate{
		Username: normalize.Username(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
		FullName: normalize.Name(r.PostFormValue("full_name")),
		Email:    normalize.Email(r.PostFormValue("email")),
		Role:     normalize.Role(r.PostFormValue("role")),
	}
	form := formData{
		Username: in.Username,
		FullName: in.FullName,
		Email:    in.Email,
		Role:     in.Role,
	}

	if err := inputval.Struct(in); err != nil {
		form.FieldErrors = inputval.FieldErrors(err)
		form.Error = "Please fix the highlighted fields."
		w.WriteHeader(http.StatusBadRequest)
		h.renderForm(w, r, form)
		return
	}

	res, err := h.API.CreateAdmin(r.Context(), auth.Token(r), in)
	h.AuditLog.AdminCreated(r.Context(), r, res.AdminID, in.Username, in.Role, err)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			h.SessionMgr.ExpireAndRedirect(w, r)
			return
		}
		// Keep what was typed; the API message (e.g. a taken username)
		// is shown above the form.
		h.Log.Warn("create admin failed", zap.String("username", in.Username), zap.Error(err))
		form.Error = apiclient.Message(err, "Could not create admin.")
		w.WriteHeader(http.StatusBadRequest)
		h.renderForm(w, r, form)
		return
	}

	h.Log.Info("admin created",
		zap.Int64("admin_id", res.AdminID),
		zap.String("username", in.Username),
		zap.String("role", in.Role))
	msg := res.Message
	if msg == "" {
		msg = "Admin created."
	}
	h.SessionMgr.SetFlash(w, r, auth.FlashSuccess, msg)
	http.Redirect(w, r, "/admins", http.StatusSeeOther)
}
