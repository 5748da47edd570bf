package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/garajhub/internal/app/features/health"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/testutil"
	"go.uber.org/zap"
)

func serve(t *testing.T, h *health.Handler) (int, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest("GET", "/health", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body
}

func TestServe_UnauthorizedMeansReachable(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/auth/me", http.StatusUnauthorized, `{"detail":"Not authenticated"}`)

	code, body := serve(t, health.NewHandler(api.Client(), nil, zap.NewNop()))

	if code != http.StatusOK {
		t.Errorf("status = %d, want 200", code)
	}
	if body["api"] != "reachable" || body["database"] != "disabled" {
		t.Errorf("body = %v", body)
	}
	calls := api.CallsTo("GET", "/auth/me")
	if len(calls) != 1 || calls[0].Auth != "" {
		t.Errorf("expected one unauthenticated probe, got %+v", calls)
	}
}

func TestServe_APIServerError(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/auth/me", http.StatusBadGateway, "")

	code, body := serve(t, health.NewHandler(api.Client(), nil, zap.NewNop()))

	if code != http.StatusServiceUnavailable || body["api"] != "unreachable" {
		t.Errorf("code=%d body=%v", code, body)
	}
}

func TestServe_APIDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api"
	srv.Close()

	client, err := apiclient.New(base, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	code, body := serve(t, health.NewHandler(client, nil, zap.NewNop()))

	if code != http.StatusServiceUnavailable || body["status"] != "error" {
		t.Errorf("code=%d body=%v", code, body)
	}
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	api := testutil.NewFakeAPI(t)
	api.Handle("GET", "/auth/me", http.StatusUnauthorized, `{"detail":"Not authenticated"}`)

	code, body := serve(t, health.NewHandler(api.Client(), db.Client(), zap.NewNop()))

	if code != http.StatusOK || body["database"] != "connected" {
		t.Errorf("code=%d body=%v", code, body)
	}
}
