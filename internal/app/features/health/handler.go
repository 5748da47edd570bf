package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	API    *apiclient.Client
	Client *mongo.Client // nil when the audit database is disabled
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(api *apiclient.Client, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{API: api, Client: client, Log: logger}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	API      string `json:"api"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// The API counts as reachable when an unauthenticated GET /auth/me gets any
// HTTP answer; a 401 is the expected one. A transport failure or 5xx makes
// the whole check 503. The database is only checked when configured.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{Status: "ok", API: "reachable", Database: "disabled"}
	code := http.StatusOK

	if _, err := h.API.Me(ctx, ""); err != nil {
		status := apiclient.StatusOf(err)
		if status == 0 || status >= 500 {
			h.Log.Error("health-check: api unreachable", zap.Error(err))
			resp.Status = "error"
			resp.API = "unreachable"
			resp.Error = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	if h.Client != nil {
		resp.Database = "connected"
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Error = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
