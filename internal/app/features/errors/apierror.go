// internal/app/features/errors/apierror.go
package errors

import (
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
)

// APIError routes a failed API call on a page load.
//
//   - 401: the session is cleared and the browser goes to login
//   - 403: access-denied page with the API's detail
//   - 404: not-found page with the API's detail
//   - transport failure: 500 page with the generic server message
//   - anything else: 400 page with the API's detail
func (e *ErrorLogger) APIError(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, msg string, err error, backURL string) {
	switch {
	case apiclient.IsUnauthorized(err):
		e.log.Info(msg+": credential rejected", e.fields(r, err)...)
		sm.ExpireAndRedirect(w, r)
	case apiclient.IsForbidden(err):
		e.LogForbidden(w, r, msg, err, apiclient.Message(err, "Access denied"), backURL)
	case apiclient.IsNotFound(err):
		e.LogNotFound(w, r, msg, err, apiclient.Message(err, "Not found"), backURL)
	case apiclient.StatusOf(err) == 0 || apiclient.StatusOf(err) >= 500:
		e.LogServerError(w, r, msg, err, apiclient.Message(err, apiclient.TransportMessage), backURL)
	default:
		e.LogBadRequest(w, r, msg, err, apiclient.Message(err, apiclient.GenericMessage), backURL)
	}
}

// APIActionError handles a failed API call made by a form POST: the API's
// message is queued as an error toast and the browser returns to backURL.
// A 401 clears the session and goes to login instead.
func (e *ErrorLogger) APIActionError(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, msg string, err error, backURL string) {
	if apiclient.IsUnauthorized(err) {
		e.log.Info(msg+": credential rejected", e.fields(r, err)...)
		sm.ExpireAndRedirect(w, r)
		return
	}
	e.log.Warn(msg, e.fields(r, err)...)
	sm.SetFlash(w, r, auth.FlashError, apiclient.Message(err, apiclient.GenericMessage))
	http.Redirect(w, r, backURL, http.StatusSeeOther)
}
