package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/features/login"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/ratelimit"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/garajhub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, api *testutil.FakeAPI) (*login.Handler, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	h := login.NewHandler(api.Client(), sm, uierrors.NewErrorLogger(zap.NewNop()), auditlog.New(nil, zap.NewNop(), auditlog.Config{}), zap.NewNop())
	return h, sm
}

func loginResponse(role string) models.LoginResponse {
	return models.LoginResponse{
		AccessToken: "fresh-token",
		TokenType:   "bearer",
		Admin:       models.Admin{ID: 7, Username: "nigar", FullName: "Nigar A.", Role: role},
	}
}

// signedInAs replays the response cookies through LoadSession and returns
// the admin it finds.
func signedInAs(t *testing.T, sm *auth.SessionManager, rec *httptest.ResponseRecorder) (*auth.SessionAdmin, bool) {
	t.Helper()
	next := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	var (
		got *auth.SessionAdmin
		ok  bool
	)
	sm.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.CurrentAdmin(r)
	})).ServeHTTP(httptest.NewRecorder(), next)
	return got, ok
}

func TestHandleLoginPost_Success(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("POST", "/auth/login", http.StatusOK, loginResponse(models.RoleAdmin))
	h, sm := newHandler(t, api)

	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"  nigar "},
		"password": {"secret"},
		"return":   {"/users?page=2"},
	})
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/users?page=2" {
		t.Errorf("Location = %q, want /users?page=2", loc)
	}

	calls := api.CallsTo("POST", "/auth/login")
	if len(calls) != 1 {
		t.Fatalf("login calls = %d, want 1", len(calls))
	}
	var body models.LoginRequest
	if err := json.Unmarshal(calls[0].Body, &body); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if body.Username != "nigar" || body.Password != "secret" {
		t.Errorf("login body = %+v", body)
	}
	if calls[0].Auth != "" {
		t.Errorf("login sent Authorization %q", calls[0].Auth)
	}

	a, ok := signedInAs(t, sm, rec)
	if !ok {
		t.Fatal("expected a signed-in session")
	}
	if a.Token != "fresh-token" || a.ID != 7 || a.Role != models.RoleAdmin {
		t.Errorf("session admin = %+v", a)
	}
}

func TestHandleLoginPost_ExternalReturnFallsBack(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("POST", "/auth/login", http.StatusOK, loginResponse(models.RoleSuperAdmin))
	h, _ := newHandler(t, api)

	req := testutil.NewFormRequest("/login", url.Values{
		"username": {"nigar"},
		"password": {"secret"},
		"return":   {"https://evil.example/phish"},
	})
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", loc)
	}
}

func TestHandleLoginPost_HTMXRedirect(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("POST", "/auth/login", http.StatusOK, loginResponse(models.RoleAdmin))
	h, _ := newHandler(t, api)

	req := testutil.NewFormRequest("/login", url.Values{"username": {"nigar"}, "password": {"secret"}})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/dashboard" {
		t.Errorf("HX-Redirect = %q, want /dashboard", got)
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h, _ := newHandler(t, api)

	req := testutil.WithAdmin(testutil.NewRequest("GET", "/login?return=/startups"), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/startups" {
		t.Errorf("Location = %q, want /startups", loc)
	}
	if len(api.Calls()) != 0 {
		t.Errorf("unexpected API calls: %+v", api.Calls())
	}
}

func TestHandleLoginPost_RateLimitedNeverReachesAPI(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("POST", "/auth/login", http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)
	h, _ := newHandler(t, api)
	h.Limiter = ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := testutil.NewFormRequest("/login", url.Values{"username": {"nigar"}, "password": {"wrong"}})
		rec := httptest.NewRecorder()
		testutil.RunIgnoringRender(func() { h.HandleLoginPost(rec, req) })
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusUnauthorized || codes[1] != http.StatusUnauthorized {
		t.Errorf("first codes = %v, want 401 twice", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third code = %d, want 429", codes[2])
	}
	if n := len(api.CallsTo("POST", "/auth/login")); n != 2 {
		t.Errorf("login calls = %d, want 2", n)
	}
}
