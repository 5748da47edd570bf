package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops",
		"exp": exp.Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// signIn performs SignIn and returns the resulting session cookies.
func signIn(t *testing.T, sm *auth.SessionManager, token, role string) []*http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	err := sm.SignIn(rec, req, models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Admin:       models.Admin{ID: 7, Username: "ops", FullName: "Ops Person", Role: role},
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return rec.Result().Cookies()
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// captureAdmin runs LoadSession and returns the admin the handler saw.
func captureAdmin(sm *auth.SessionManager, req *http.Request) (*auth.SessionAdmin, bool, *httptest.ResponseRecorder) {
	var got *auth.SessionAdmin
	var ok bool
	h := sm.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.CurrentAdmin(r)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return got, ok, rec
}

func TestNewSessionManager_RejectsEmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, nil); err == nil {
		t.Error("expected error for empty session key")
	}
	if _, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, nil); err == nil {
		t.Error("expected error for empty session name")
	}
}

func TestLoadSession_RoundTripsSignIn(t *testing.T) {
	sm := newTestSessionManager(t)
	tok := tokenExpiringAt(t, time.Now().Add(time.Hour))
	cookies := signIn(t, sm, tok, models.RoleSuperAdmin)

	a, ok, _ := captureAdmin(sm, withCookies(httptest.NewRequest("GET", "/dashboard", nil), cookies))
	if !ok {
		t.Fatal("expected admin in context after sign in")
	}
	if a.Token != tok {
		t.Errorf("Token = %q, want the signed-in token", a.Token)
	}
	if a.ID != 7 || a.Username != "ops" || a.DisplayName() != "Ops Person" {
		t.Errorf("unexpected admin snapshot: %+v", a)
	}
	if !a.IsSuperAdmin() {
		t.Error("expected superadmin")
	}
}

func TestLoadSession_NoCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	if _, ok, _ := captureAdmin(sm, httptest.NewRequest("GET", "/dashboard", nil)); ok {
		t.Error("expected no admin without a session cookie")
	}
}

func TestLoadSession_TamperedCookieIsSignedOut(t *testing.T) {
	sm := newTestSessionManager(t)
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-signed-value"})
	if _, ok, _ := captureAdmin(sm, req); ok {
		t.Error("expected no admin for an undecodable cookie")
	}
}

func TestLoadSession_ExpiredTokenSignsOut(t *testing.T) {
	sm := newTestSessionManager(t)
	tok := tokenExpiringAt(t, time.Now().Add(time.Hour))
	cookies := signIn(t, sm, tok, models.RoleAdmin)

	sm.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	_, ok, rec := captureAdmin(sm, withCookies(httptest.NewRequest("GET", "/dashboard", nil), cookies))
	if ok {
		t.Fatal("expired token should not produce a signed-in admin")
	}

	// The cleared session is written back; replaying it stays signed out
	// even once the clock is back to normal.
	sm.SetClock(time.Now)
	cleared := rec.Result().Cookies()
	if len(cleared) == 0 {
		t.Fatal("expected the session cookie to be rewritten")
	}
	if _, ok, _ := captureAdmin(sm, withCookies(httptest.NewRequest("GET", "/dashboard", nil), cleared)); ok {
		t.Error("cleared session should stay signed out")
	}
}

func TestLoadSession_OpaqueTokenIsKept(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signIn(t, sm, "opaque-token", models.RoleAdmin)

	a, ok, _ := captureAdmin(sm, withCookies(httptest.NewRequest("GET", "/", nil), cookies))
	if !ok || a.Token != "opaque-token" {
		t.Errorf("opaque token without exp should be kept, got ok=%v", ok)
	}
}

func TestSignOut_ClearsSession(t *testing.T) {
	sm := newTestSessionManager(t)
	cookies := signIn(t, sm, "tok", models.RoleAdmin)

	rec := httptest.NewRecorder()
	req := withCookies(httptest.NewRequest("POST", "/logout", nil), cookies)
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	if _, ok, _ := captureAdmin(sm, withCookies(httptest.NewRequest("GET", "/", nil), rec.Result().Cookies())); ok {
		t.Error("expected no admin after sign out")
	}
}

func TestRequireSignedIn(t *testing.T) {
	sm := newTestSessionManager(t)
	protected := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		admin      *auth.SessionAdmin
		headers    map[string]string
		wantStatus int
		wantHeader string
		wantValue  string
	}{
		{
			name:       "html redirects to login with return",
			headers:    map[string]string{"Accept": "text/html"},
			wantStatus: http.StatusSeeOther,
			wantHeader: "Location",
			wantValue:  "/login?return=%2Fusers%3Fpage%3D2",
		},
		{
			name:       "htmx gets HX-Redirect",
			headers:    map[string]string{"HX-Request": "true"},
			wantStatus: http.StatusUnauthorized,
			wantHeader: "HX-Redirect",
			wantValue:  "/login?return=%2Fusers%3Fpage%3D2",
		},
		{
			name:       "api gets 401",
			headers:    map[string]string{"Accept": "application/json"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "signed in passes",
			admin:      &auth.SessionAdmin{ID: 1, Role: models.RoleAdmin, Token: "t"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/users?page=2", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.admin != nil {
				req = auth.WithTestAdmin(req, tt.admin)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantHeader != "" && rec.Header().Get(tt.wantHeader) != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.wantHeader, rec.Header().Get(tt.wantHeader), tt.wantValue)
			}
		})
	}
}

func TestRequireRole_SuperadminOnly(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole(models.RoleSuperAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		role       string
		accept     string
		wantStatus int
		wantLoc    string
	}{
		{"superadmin allowed", models.RoleSuperAdmin, "text/html", http.StatusOK, ""},
		{"admin redirected to forbidden", models.RoleAdmin, "text/html", http.StatusSeeOther, "/forbidden"},
		{"admin api gets 403", models.RoleAdmin, "application/json", http.StatusForbidden, ""},
		{"signed out goes to login", "", "text/html", http.StatusSeeOther, "/login?return=%2Fadmins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admins", nil)
			req.Header.Set("Accept", tt.accept)
			if tt.role != "" {
				req = auth.WithTestAdmin(req, &auth.SessionAdmin{ID: 1, Role: tt.role, Token: "t"})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLoc != "" && rec.Header().Get("Location") != tt.wantLoc {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.wantLoc)
			}
		})
	}
}

func TestFlash_PopsOnce(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	sm.SetFlash(rec, httptest.NewRequest("POST", "/users/1/status", nil), auth.FlashSuccess, "User status updated")
	cookies := rec.Result().Cookies()

	rec2 := httptest.NewRecorder()
	f, ok := sm.PopFlash(rec2, withCookies(httptest.NewRequest("GET", "/users", nil), cookies))
	if !ok || f.Kind != auth.FlashSuccess || f.Message != "User status updated" {
		t.Fatalf("PopFlash = %+v, %v", f, ok)
	}

	if _, ok := sm.PopFlash(httptest.NewRecorder(), withCookies(httptest.NewRequest("GET", "/users", nil), rec2.Result().Cookies())); ok {
		t.Error("flash should be consumed after the first pop")
	}
}

func TestAddHistory_KeepsNewestTen(t *testing.T) {
	sm := newTestSessionManager(t)
	var cookies []*http.Cookie

	for i := 0; i < 12; i++ {
		rec := httptest.NewRecorder()
		req := withCookies(httptest.NewRequest("POST", "/broadcast", nil), cookies)
		err := sm.AddHistory(rec, req, auth.HistoryEntry{
			ID:       strings.Repeat("x", i+1),
			Preview:  "msg",
			Audience: models.AudienceAll,
			SentAt:   time.Unix(int64(i), 0).UTC(),
		})
		if err != nil {
			t.Fatalf("AddHistory: %v", err)
		}
		cookies = rec.Result().Cookies()
	}

	got := sm.History(withCookies(httptest.NewRequest("GET", "/broadcast", nil), cookies))
	if len(got) != auth.HistoryLimit {
		t.Fatalf("len(History) = %d, want %d", len(got), auth.HistoryLimit)
	}
	if got[0].ID != strings.Repeat("x", 12) {
		t.Errorf("newest entry first; got ID len %d", len(got[0].ID))
	}
	if got[len(got)-1].ID != strings.Repeat("x", 3) {
		t.Errorf("oldest kept entry should be the 3rd; got ID len %d", len(got[len(got)-1].ID))
	}
}

func TestToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if auth.Token(req) != "" {
		t.Error("expected empty token without admin")
	}
	req = auth.WithTestAdmin(req, &auth.SessionAdmin{Token: "abc"})
	if auth.Token(req) != "abc" {
		t.Errorf("Token = %q, want abc", auth.Token(req))
	}
}
