package backup

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, api *testutil.FakeAPI) (*Handler, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewHandler(api.Client(), sm, uierrors.NewErrorLogger(zap.NewNop()), nil, zap.NewNop()), sm
}

func superadminRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Accept", "text/html")
	return testutil.WithAdmin(req, testutil.SuperAdminUser())
}

func TestValidFilename(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"backup_20240309_143000.db", true},
		{"garajhub.sqlite3", true},
		{"", false},
		{"../etc/passwd", false},
		{"backup..db", false},
		{".hidden", false},
		{"dir/backup.db", false},
		{"back up.db", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validFilename(tt.name); got != tt.want {
				t.Errorf("validFilename(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestHandleCreate_RedirectsWithFilename(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/backup", http.StatusOK,
		`{"message":"Backup created successfully","filename":"backup_20240309_143000.db","download_url":"/api/backup/backup_20240309_143000.db"}`)
	h, sm := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, superadminRequest("POST", "/backup"))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/backup?created=backup_20240309_143000.db" {
		t.Errorf("Location = %q", loc)
	}
	if calls := api.CallsTo("GET", "/backup"); len(calls) != 1 || calls[0].Auth != "Bearer root-token" {
		t.Errorf("calls = %+v", calls)
	}

	next := httptest.NewRequest("GET", "/backup", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	if f, ok := sm.PopFlash(httptest.NewRecorder(), next); !ok || f.Message != "Backup created successfully" {
		t.Errorf("flash = %+v, %v", f, ok)
	}
}

func TestHandleCreate_ForbiddenFlashes(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/backup", http.StatusForbidden, `{"detail":"Only superadmin can create backups"}`)
	h, sm := newTestHandler(t, api)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, superadminRequest("POST", "/backup"))

	if loc := rec.Header().Get("Location"); loc != "/backup" {
		t.Errorf("Location = %q, want /backup", loc)
	}
	next := httptest.NewRequest("GET", "/backup", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	if f, ok := sm.PopFlash(httptest.NewRecorder(), next); !ok || f.Kind != auth.FlashError || f.Message != "Only superadmin can create backups" {
		t.Errorf("flash = %+v, %v", f, ok)
	}
}

func TestServeDownload_StreamsAttachment(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/backup/backup_1.db", http.StatusOK, "SQLite format 3")
	h, _ := newTestHandler(t, api)

	req := testutil.WithChiURLParam(superadminRequest("GET", "/backup/download/backup_1.db"), "filename", "backup_1.db")
	rec := httptest.NewRecorder()
	h.ServeDownload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename=backup_1.db` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "SQLite format 3" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServeDownload_MissingFileIsNotAnAttachment(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/backup/backup_9.db", http.StatusNotFound, `{"detail":"Backup file not found"}`)
	h, _ := newTestHandler(t, api)

	req := testutil.WithChiURLParam(superadminRequest("GET", "/backup/download/backup_9.db"), "filename", "backup_9.db")
	rec := httptest.NewRecorder()
	h.ServeDownload(rec, req)

	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("attachment headers written for a failed download")
	}
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/backup") {
		t.Errorf("got %d %q, want redirect back to /backup", rec.Code, rec.Header().Get("Location"))
	}
}

func TestServeDownload_RejectsTraversal(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h, _ := newTestHandler(t, api)

	req := testutil.WithChiURLParam(superadminRequest("GET", "/backup/download/x"), "filename", "../secrets.db")
	testutil.RunIgnoringRender(func() { h.ServeDownload(httptest.NewRecorder(), req) })

	if n := len(api.Calls()); n != 0 {
		t.Errorf("API calls = %d, want 0", n)
	}
}
