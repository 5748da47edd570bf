package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/dalemusser/garajhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		APIBaseURL:    "https://api.garajhub.az/api",
		SessionKey:    "0123456789abcdef0123456789abcdef",
		SessionName:   "garajhub-session",
		ThemeCookie:   "garajhub-theme",
		MongoDatabase: "garajhub_admin",
		AuditLogAuth:  "all",
		AuditLogAdmin: "db",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "valid with backups", mutate: func(c *AppConfig) {
			c.BackupSchedule, c.BackupUsername, c.BackupPassword = "0 3 * * *", "backup-bot", "pw"
		}},
		{name: "relative api url", mutate: func(c *AppConfig) { c.APIBaseURL = "/api" }, wantErr: "absolute"},
		{name: "ftp api url", mutate: func(c *AppConfig) { c.APIBaseURL = "ftp://host/api" }, wantErr: "absolute"},
		{name: "api url without host", mutate: func(c *AppConfig) { c.APIBaseURL = "http:///api" }, wantErr: "no host"},
		{name: "bad mongo uri", mutate: func(c *AppConfig) { c.MongoURI = "postgres://db" }, wantErr: "MongoDB URI"},
		{name: "unknown audit mode", mutate: func(c *AppConfig) { c.AuditLogAdmin = "both" }, wantErr: "audit_log_admin"},
		{name: "bad schedule", mutate: func(c *AppConfig) {
			c.BackupSchedule, c.BackupUsername, c.BackupPassword = "nightly", "u", "p"
		}, wantErr: "backup_schedule"},
		{name: "schedule without credentials", mutate: func(c *AppConfig) { c.BackupSchedule = "@daily" }, wantErr: "backup_username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: "dev"}, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateConfig: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConnectDB_WithoutMongo(t *testing.T) {
	cfg := validConfig()
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.API == nil || deps.API.BaseURL() != cfg.APIBaseURL {
		t.Errorf("API client = %v", deps.API)
	}
	if deps.MongoClient != nil || deps.AuditStore != nil {
		t.Error("audit database should be disabled")
	}
	if deps.AuditLog == nil {
		t.Error("audit logger should still log to zap")
	}
	if deps.Backup != nil {
		t.Error("backup worker should be disabled")
	}

	// Nothing to index without a database.
	if err := EnsureSchema(context.Background(), nil, cfg, deps, testLogger()); err != nil {
		t.Errorf("EnsureSchema: %v", err)
	}
	if err := Shutdown(context.Background(), nil, cfg, deps, testLogger()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestConnectDB_BackupWorkerLifecycle(t *testing.T) {
	cfg := validConfig()
	cfg.BackupSchedule, cfg.BackupUsername, cfg.BackupPassword = "@daily", "backup-bot", "pw"

	deps, err := ConnectDB(context.Background(), &config.CoreConfig{Env: "dev"}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.Backup == nil {
		t.Fatal("backup worker not created")
	}
	if err := Startup(context.Background(), nil, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	if err := Shutdown(context.Background(), nil, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestConnectDB_AuditIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validConfig()
	cfg.MongoURI = testutil.MongoURI()
	cfg.MongoDatabase = db.Name()

	deps, err := ConnectDB(ctx, &config.CoreConfig{Env: "dev"}, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	defer deps.MongoClient.Disconnect(context.Background())

	if err := EnsureSchema(ctx, nil, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	cur, err := db.Collection("audit_events").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	var idx []map[string]any
	if err := cur.All(ctx, &idx); err != nil {
		t.Fatalf("decode indexes: %v", err)
	}
	if len(idx) < 2 {
		t.Errorf("got %d indexes, want the default plus audit indexes", len(idx))
	}
}
