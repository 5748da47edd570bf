// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds GarajHub-specific configuration.
//
// WAFFLE's CoreConfig covers ports, TLS, logging and request limits. Everything
// here is specific to the dashboard: where the API lives, how the session
// cookie is signed, the optional audit database and the backup schedule.
type AppConfig struct {
	// Remote API, e.g. https://api.garajhub.az/api
	APIBaseURL string

	// Session cookie
	SessionKey    string // signing key, must be strong in production
	SessionName   string // cookie name (default: garajhub-session)
	SessionDomain string // blank means current host
	SessionMaxAge time.Duration
	ThemeCookie   string // cookie holding the light/dark preference

	// Audit database. A blank MongoURI disables it; audit events then only
	// go to the log.
	MongoURI      string
	MongoDatabase string

	// Audit logging modes: all, db, log or off
	AuditLogAuth  string
	AuditLogAdmin string

	// Scheduled backups. A blank schedule disables the worker.
	BackupSchedule string
	BackupUsername string
	BackupPassword string
}

// AuditEnabled reports whether an audit database is configured.
func (c AppConfig) AuditEnabled() bool {
	return c.MongoURI != ""
}

// BackupEnabled reports whether scheduled backups are configured.
func (c AppConfig) BackupEnabled() bool {
	return c.BackupSchedule != ""
}
