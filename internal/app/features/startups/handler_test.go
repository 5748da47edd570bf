package startups_test

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/features/startups"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/garajhub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newHandler(t *testing.T, api *testutil.FakeAPI) (*startups.Handler, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return startups.NewHandler(api.Client(), sm, uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop()), sm
}

func popFlash(t *testing.T, sm *auth.SessionManager, rec *httptest.ResponseRecorder) auth.Flash {
	t.Helper()
	next := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	f, ok := sm.PopFlash(httptest.NewRecorder(), next)
	if !ok {
		t.Fatal("expected a flash message")
	}
	return f
}

func post(target, id string, form url.Values, admin *auth.SessionAdmin) *http.Request {
	req := testutil.NewFormRequest(target, form)
	req.Header.Set("Accept", "text/html")
	req = testutil.WithAdmin(req, admin)
	return testutil.WithChiURLParam(req, "id", id)
}

func TestHandleStatus_Validation(t *testing.T) {
	tests := []struct {
		status   string
		wantCall bool
	}{
		{"pending", true},
		{"active", true},
		{"Completed", true},
		{"rejected", true},
		{"archived", false},
		{"", false},
		{"banned", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			api.Handle("PUT", "/startups/9", http.StatusOK, `{"message":"Startup updated successfully"}`)
			h, sm := newHandler(t, api)

			rec := httptest.NewRecorder()
			h.HandleStatus(rec, post("/startups/9/status", "9", url.Values{"status": {tt.status}}, testutil.AdminUser()))

			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/startups/9" {
				t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
			}
			calls := api.CallsTo("PUT", "/startups/9")
			if (len(calls) == 1) != tt.wantCall {
				t.Fatalf("PUT calls = %d, want call = %v", len(calls), tt.wantCall)
			}
			f := popFlash(t, sm, rec)
			if tt.wantCall {
				want := `{"status":"` + strings.ToLower(tt.status) + `"}`
				if string(calls[0].Body) != want {
					t.Errorf("body = %s, want %s", calls[0].Body, want)
				}
				if f.Kind != auth.FlashSuccess {
					t.Errorf("flash = %+v", f)
				}
			} else if f.Kind != auth.FlashError {
				t.Errorf("flash = %+v", f)
			}
		})
	}
}

func TestHandleStatus_SendsResults(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("PUT", "/startups/9", http.StatusOK, `{"message":"Startup updated successfully"}`)
	h, _ := newHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleStatus(rec, post("/startups/9/status", "9", url.Values{"status": {"completed"}, "results": {" Raised seed "}}, testutil.AdminUser()))

	calls := api.CallsTo("PUT", "/startups/9")
	if len(calls) != 1 || string(calls[0].Body) != `{"status":"completed","results":"Raised seed"}` {
		t.Errorf("calls = %+v", calls)
	}
}

func TestHandleDelete_SuperAdmin(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("DELETE", "/startups/3", http.StatusOK, `{"message":"Startup deleted successfully"}`)
	h, sm := newHandler(t, api)

	core, logs := observer.New(zapcore.InfoLevel)
	h.AuditLog = auditlog.New(nil, zap.New(core), auditlog.Config{})

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, post("/startups/3/delete", "3", url.Values{"return": {"/startups/3"}}, testutil.SuperAdminUser()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/startups" {
		t.Errorf("Location = %q, want /startups (not the deleted page)", loc)
	}
	calls := api.CallsTo("DELETE", "/startups/3")
	if len(calls) != 1 || calls[0].Auth != "Bearer root-token" {
		t.Fatalf("calls = %+v", calls)
	}
	if f := popFlash(t, sm, rec); f.Message != "Startup deleted successfully" {
		t.Errorf("flash = %+v", f)
	}
	if logs.FilterField(zap.String("event_type", "startup_deleted")).Len() != 1 {
		t.Error("expected a startup_deleted audit entry")
	}
}

func TestHandleDelete_APIForbiddenFlashes(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("DELETE", "/startups/3", http.StatusForbidden, `{"detail":"Only superadmin can delete startups"}`)
	h, sm := newHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, post("/startups/3/delete", "3", nil, testutil.SuperAdminUser()))

	if f := popFlash(t, sm, rec); f.Kind != auth.FlashError || f.Message != "Only superadmin can delete startups" {
		t.Errorf("flash = %+v", f)
	}
}

func TestRoutes_DeleteRequiresSuperAdmin(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h, sm := newHandler(t, api)
	router := startups.Routes(h, sm)

	// Sign in as a plain admin through the real session cookie.
	signIn := httptest.NewRecorder()
	if err := sm.SignIn(signIn, httptest.NewRequest("POST", "/login", nil), models.LoginResponse{
		AccessToken: "admin-token",
		Admin:       models.Admin{ID: 2, Username: "admin", Role: models.RoleAdmin},
	}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	req := httptest.NewRequest("POST", "/3/delete", nil)
	req.Header.Set("Accept", "text/html")
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sm.LoadSession(router).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/forbidden" {
		t.Errorf("got %d %q, want 303 /forbidden", rec.Code, rec.Header().Get("Location"))
	}
	if n := len(api.CallsTo("DELETE", "/startups/3")); n != 0 {
		t.Errorf("DELETE reached the API %d times", n)
	}
}

func TestHandleDelete_ReturnURL(t *testing.T) {
	tests := []struct {
		ret, want string
	}{
		{"/startups?page=2&status=active", "/startups?page=2&status=active"},
		{"/startups/3/status", "/startups"},
		{"/startups/30", "/startups/30"},
		{"https://evil.example/", "/startups"},
		{"", "/startups"},
	}
	for _, tt := range tests {
		t.Run(tt.ret, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			api.Handle("DELETE", "/startups/3", http.StatusOK, `{"message":"Startup deleted successfully"}`)
			h, _ := newHandler(t, api)

			rec := httptest.NewRecorder()
			h.HandleDelete(rec, post("/startups/3/delete", "3", url.Values{"return": {tt.ret}}, testutil.SuperAdminUser()))
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("Location = %q, want %q", loc, tt.want)
			}
		})
	}
}

func TestServeList_UnauthorizedGoesToLogin(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/startups", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`)
	h, _ := newHandler(t, api)

	req := httptest.NewRequest("GET", "/startups?status=pending&page=3", nil)
	req.Header.Set("Accept", "text/html")
	req = testutil.WithAdmin(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
		t.Fatalf("got %d %q, want redirect to login", rec.Code, rec.Header().Get("Location"))
	}
	calls := api.CallsTo("GET", "/startups")
	if len(calls) != 1 || calls[0].Query != "limit=20&page=3&status=pending" {
		t.Errorf("calls = %+v", calls)
	}
}

func TestServeList_PageBeyondLastRedirects(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/startups", http.StatusOK, models.StartupList{
		Pagination: models.Pagination{Page: 9, Limit: 20, Total: 41, Pages: 3},
	})
	h, _ := newHandler(t, api)

	req := testutil.WithAdmin(testutil.NewRequest("GET", "/startups?page=9&status=active"), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/startups?page=3&status=active" {
		t.Errorf("Location = %q, want /startups?page=3&status=active", loc)
	}
}

func TestServeExportCSV_SinglePage(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/startups", http.StatusOK, models.StartupList{
		Startups: []models.Startup{
			{StartupID: 4, Name: "=HYPERLINK(1)", OwnerFirstName: "Aysel", OwnerLastName: "Mammadova", Status: "active", MemberCount: 3},
		},
		Pagination: models.Pagination{Page: 1, Limit: 20, Total: 1, Pages: 1},
	})
	h, _ := newHandler(t, api)

	req := testutil.WithAdmin(testutil.NewRequest("GET", "/startups/export.csv"), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeExportCSV(rec, req)

	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "startups_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(rec.Body.String(), "\ufeff"))).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[1][1] != "'=HYPERLINK(1)" || records[1][2] != "Aysel Mammadova" || records[1][9] != "3" {
		t.Errorf("row = %v", records[1])
	}
	if n := len(api.CallsTo("GET", "/startups")); n != 1 {
		t.Errorf("pages fetched = %d, want 1", n)
	}
}
