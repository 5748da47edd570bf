package errors_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func TestAPIActionError_FlashesAndRedirects(t *testing.T) {
	sm := newSessionManager(t)
	el := uierrors.NewErrorLogger(zap.NewNop())

	req := httptest.NewRequest("POST", "/startups/3/delete", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	el.APIActionError(rec, req, sm, "delete startup", &apiclient.Error{Status: 403, Message: "Only superadmin can delete startups"}, "/startups")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/startups" {
		t.Errorf("Location = %q, want /startups", loc)
	}

	next := httptest.NewRequest("GET", "/startups", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	f, ok := sm.PopFlash(httptest.NewRecorder(), next)
	if !ok || f.Kind != auth.FlashError || f.Message != "Only superadmin can delete startups" {
		t.Errorf("flash = %+v, %v", f, ok)
	}
}

func TestAPIActionError_UnauthorizedGoesToLogin(t *testing.T) {
	sm := newSessionManager(t)
	el := uierrors.NewErrorLogger(nil)

	req := httptest.NewRequest("POST", "/users/4/status", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	el.APIActionError(rec, req, sm, "set status", &apiclient.Error{Status: 401, Message: "Could not validate credentials"}, "/users")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?return=") {
		t.Errorf("Location = %q, want login redirect", loc)
	}
}

func TestAPIError_UnauthorizedGoesToLogin(t *testing.T) {
	sm := newSessionManager(t)
	el := uierrors.NewErrorLogger(nil)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	el.APIError(rec, req, sm, "load dashboard", &apiclient.Error{Status: 401, Message: "expired"}, "/")

	if got := rec.Header().Get("HX-Redirect"); got != "/login?return=%2Fdashboard" {
		t.Errorf("HX-Redirect = %q", got)
	}
}
