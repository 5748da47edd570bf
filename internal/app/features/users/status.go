// internal/app/features/users/status.go
package users

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/inputval"
	"github.com/dalemusser/garajhub/internal/app/system/navigation"
	"github.com/dalemusser/garajhub/internal/app/system/normalize"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeStatusForm handles GET /users/{id}/status.
func (h *Handler) ServeStatusForm(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad user id", nil, "Invalid user ID.", "/users")
		return
	}

	detail, err := h.API.GetUser(r.Context(), auth.Token(r), id)
	if err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "get user for status form", err, "/users")
		return
	}

	data := statusFormData{
		User:     detail.User,
		Heading:  heading(detail.User),
		Statuses: statusOptions(detail.User.Status),
		Return:   navigation.SafeBackURL(r, navigation.UsersBackURL),
	}
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Edit user status", "/users"), h.SessionMgr, w, r)
	templates.Render(w, r, "user_status", data)
}

// HandleStatus handles POST /users/{id}/status. The status is checked
// against the allowed values before anything is sent to the API.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad user id", nil, "Invalid user ID.", "/users")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form", err, "Invalid form submission.", "/users")
		return
	}

	back := navigation.SafeBackURL(r, navigation.UsersBackURL.WithFallback("/users/"+strconv.FormatInt(id, 10)))
	status := normalize.Status(r.PostFormValue("status"))
	if !inputval.IsValidUserStatus(status) {
		h.SessionMgr.SetFlash(w, r, auth.FlashError, fmt.Sprintf("Invalid status %q.", status))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	res, err := h.API.SetUserStatus(r.Context(), auth.Token(r), id, status)
	h.AuditLog.UserStatusChanged(r.Context(), r, id, status, err)
	if err != nil {
		h.ErrLog.APIActionError(w, r, h.SessionMgr, "set user status", err, back)
		return
	}

	h.Log.Info("user status changed", zap.Int64("user_id", id), zap.String("status", status))
	msg := res.Message
	if msg == "" {
		msg = "User status updated."
	}
	h.SessionMgr.SetFlash(w, r, auth.FlashSuccess, msg)
	http.Redirect(w, r, back, http.StatusSeeOther)
}
