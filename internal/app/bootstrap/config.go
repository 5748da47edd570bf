// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for GarajHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: GARAJHUB_API_BASE_URL, GARAJHUB_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:8000/api", Desc: "GarajHub REST API base URL"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "garajhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 8h, 24h)"},
	{Name: "theme_cookie", Default: "garajhub-theme", Desc: "Cookie holding the UI theme preference"},

	{Name: "mongo_uri", Default: "", Desc: "MongoDB URI for the audit log (blank disables it)"},
	{Name: "mongo_database", Default: "garajhub_admin", Desc: "MongoDB database name"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Scheduled backups
	{Name: "backup_schedule", Default: "", Desc: "Cron spec for scheduled API backups, e.g. '0 3 * * *' (blank disables)"},
	{Name: "backup_username", Default: "", Desc: "Superadmin username the backup scheduler signs in with"},
	{Name: "backup_password", Default: "", Desc: "Password for backup_username"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env (WAFFLE_* for core, GARAJHUB_* for the app) >
// config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GARAJHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: appValues.String("api_base_url"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		ThemeCookie:   appValues.String("theme_cookie"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		BackupSchedule: appValues.String("backup_schedule"),
		BackupUsername: appValues.String("backup_username"),
		BackupPassword: appValues.String("backup_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configuration that would only fail later: a
// relative or non-http API URL, a malformed Mongo URI, an unknown audit
// mode, or a backup schedule without credentials.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateAPIURL(appCfg.APIBaseURL); err != nil {
		logger.Error("invalid API base URL", zap.String("api_base_url", appCfg.APIBaseURL), zap.Error(err))
		return err
	}

	if appCfg.AuditEnabled() {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	for key, mode := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s: unknown mode %q (want all, db, log or off)", key, mode)
		}
	}

	if appCfg.BackupEnabled() {
		if _, err := cron.ParseStandard(appCfg.BackupSchedule); err != nil {
			return fmt.Errorf("backup_schedule: %w", err)
		}
		if appCfg.BackupUsername == "" || appCfg.BackupPassword == "" {
			return errors.New("backup_schedule requires backup_username and backup_password")
		}
	}

	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		logger.Warn("session_key is the development default; set GARAJHUB_SESSION_KEY")
	}

	return nil
}

func validateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api_base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url must be an absolute http(s) URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api_base_url has no host: %q", raw)
	}
	return nil
}
