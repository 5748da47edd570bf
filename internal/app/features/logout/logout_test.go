package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/garajhub/internal/app/features/logout"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/garajhub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestServeLogout_ClearsSessionAndRedirects(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	// Sign in first so there is a cookie to clear.
	signIn := httptest.NewRecorder()
	if err := sm.SignIn(signIn, httptest.NewRequest("POST", "/login", nil), models.LoginResponse{
		AccessToken: "tok",
		Admin:       models.Admin{ID: 2, Username: "admin", Role: models.RoleAdmin},
	}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	h := logout.NewHandler(sm, auditlog.New(nil, zap.New(core), auditlog.Config{}), zap.NewNop())

	req := testutil.WithAdmin(httptest.NewRequest("POST", "/logout", nil), testutil.AdminUser())
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("got %d %q, want 303 /login", rec.Code, rec.Header().Get("Location"))
	}

	next := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	signedIn := false
	sm.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn = auth.CurrentAdmin(r)
	})).ServeHTTP(httptest.NewRecorder(), next)
	if signedIn {
		t.Error("session still signed in after logout")
	}

	if n := logs.FilterField(zap.String("event_type", "logout")).Len(); n != 1 {
		t.Errorf("logout audit entries = %d, want 1", n)
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	sm, _ := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	h := logout.NewHandler(sm, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect = %q, want /login", got)
	}
}
