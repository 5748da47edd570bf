// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/garajhub/internal/app/store/audit"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether m is a known destination. Blank counts as
// ModeAll.
func ValidMode(m string) bool {
	switch m {
	case "", ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for login and logout events.
	Auth string
	// Admin controls logging for admin actions against the API.
	Admin string
}

// EventStore persists audit events. *audit.Store satisfies it.
type EventStore interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger records audit events to zap and, when a store is configured, MongoDB.
type Logger struct {
	store  EventStore
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when no database is
// configured; "db" destinations are then skipped.
func New(store EventStore, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// requestID returns chi's request ID, or a fresh UUID when the request did
// not pass through the RequestID middleware.
func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.ActorID != 0 {
		fields = append(fields, zap.Int64("actor_id", event.ActorID))
	}
	if event.ActorName != "" {
		fields = append(fields, zap.String("actor", event.ActorName))
	}
	if event.TargetType != "" {
		fields = append(fields, zap.String("target_type", event.TargetType), zap.String("target_id", event.TargetID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = ModeAll
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// fromRequest fills the request-derived fields of an event.
func fromRequest(r *http.Request, category, eventType string) audit.Event {
	e := audit.Event{
		Category:  category,
		EventType: eventType,
		RequestID: requestID(r),
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if a, ok := auth.CurrentAdmin(r); ok {
		e.ActorID = a.ID
		e.ActorName = a.Username
	}
	return e
}

// withOutcome marks the event failed when err is non-nil, keeping the
// API's message as the reason.
func withOutcome(e audit.Event, err error) audit.Event {
	if err != nil {
		e.Success = false
		e.FailureReason = apiclient.Message(err, err.Error())
	}
	return e
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, adminID int64, username, role string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.ActorID = adminID
	e.ActorName = username
	e.Details = map[string]string{"role": role}
	l.Log(ctx, e)
}

// LoginFailed logs a rejected login attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, username string, err error) {
	e := withOutcome(fromRequest(r, audit.CategoryAuth, audit.EventLoginFailed), err)
	e.Details = map[string]string{"attempted_username": username}
	l.Log(ctx, e)
}

// Logout logs an explicit sign out.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	l.Log(ctx, fromRequest(r, audit.CategoryAuth, audit.EventLogout))
}

// --- Admin Events ---

// UserStatusChanged logs a user status update attempt.
func (l *Logger) UserStatusChanged(ctx context.Context, r *http.Request, userID int64, status string, err error) {
	e := withOutcome(fromRequest(r, audit.CategoryAdmin, audit.EventUserStatusChanged), err)
	e.TargetType, e.TargetID = audit.TargetUser, id(userID)
	e.Details = map[string]string{"status": status}
	l.Log(ctx, e)
}

// StartupStatusChanged logs a startup status update attempt.
func (l *Logger) StartupStatusChanged(ctx context.Context, r *http.Request, startupID int64, status string, err error) {
	e := withOutcome(fromRequest(r, audit.CategoryAdmin, audit.EventStartupStatusChanged), err)
	e.TargetType, e.TargetID = audit.TargetStartup, id(startupID)
	e.Details = map[string]string{"status": status}
	l.Log(ctx, e)
}

// StartupDeleted logs a startup delete attempt.
func (l *Logger) StartupDeleted(ctx context.Context, r *http.Request, startupID int64, err error) {
	e := withOutcome(fromRequest(r, audit.CategoryAdmin, audit.EventStartupDeleted), err)
	e.TargetType, e.TargetID = audit.TargetStartup, id(startupID)
	l.Log(ctx, e)
}

// AdminCreated logs an admin account creation attempt. newID is 0 on failure.
func (l *Logger) AdminCreated(ctx context.Context, r *http.Request, newID int64, username, role string, err error) {
	e := withOutcome(fromRequest(r, audit.CategoryAdmin, audit.EventAdminCreated), err)
	e.TargetType = audit.TargetAdmin
	if newID != 0 {
		e.TargetID = id(newID)
	}
	e.Details = map[string]string{"username": username, "role": role}
	l.Log(ctx, e)
}

// BroadcastSent logs a broadcast request. preview is the already
// truncated plain-text message.
func (l *Logger) BroadcastSent(ctx context.Context, r *http.Request, audience, preview string, err error) {
	e := withOutcome(fromRequest(r, audit.CategoryAdmin, audit.EventBroadcastSent), err)
	e.Details = map[string]string{"audience": audience, "preview": preview}
	l.Log(ctx, e)
}

// BackupCreated logs a manual backup request.
func (l *Logger) BackupCreated(ctx context.Context, r *http.Request, filename string, err error) {
	e := withOutcome(fromRequest(r, audit.CategoryAdmin, audit.EventBackupCreated), err)
	e.TargetType, e.TargetID = audit.TargetBackup, filename
	l.Log(ctx, e)
}

// Exported logs a CSV export.
func (l *Logger) Exported(ctx context.Context, r *http.Request, what string, rows int, err error) {
	e := withOutcome(fromRequest(r, audit.CategoryAdmin, audit.EventExported), err)
	e.Details = map[string]string{"what": what, "rows": strconv.Itoa(rows)}
	l.Log(ctx, e)
}

// --- System Events ---

// ScheduledBackup logs a backup run by the scheduler.
func (l *Logger) ScheduledBackup(ctx context.Context, username, filename string, err error) {
	e := withOutcome(audit.Event{
		Category:  audit.CategorySystem,
		EventType: audit.EventScheduledBackup,
		RequestID: uuid.NewString(),
		ActorName: username,
		Success:   true,
	}, err)
	e.TargetType, e.TargetID = audit.TargetBackup, filename
	l.Log(ctx, e)
}
