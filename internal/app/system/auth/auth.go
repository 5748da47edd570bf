package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	tokenKey    = "token"
	adminIDKey  = "admin_id"
	usernameKey = "admin_username"
	fullNameKey = "admin_full_name"
	emailKey    = "admin_email"
	roleKey     = "admin_role"
	flashKey    = "flash"
	historyKey  = "broadcast_history"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-admin helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionAdmin is the admin snapshot kept in the session and injected into
// r.Context(). Token is the bearer credential replayed to the API.
type SessionAdmin struct {
	ID       int64
	Username string
	FullName string
	Email    string
	Role     string
	Token    string
}

// DisplayName prefers the full name and falls back to the username.
func (a *SessionAdmin) DisplayName() string {
	if strings.TrimSpace(a.FullName) != "" {
		return a.FullName
	}
	return a.Username
}

// IsSuperAdmin reports whether the admin holds the superadmin role.
func (a *SessionAdmin) IsSuperAdmin() bool {
	return strings.EqualFold(a.Role, models.RoleSuperAdmin)
}

type ctxKey string

const currentAdminKey ctxKey = "currentAdmin"

// CurrentAdmin returns the signed-in admin and a found flag.
func CurrentAdmin(r *http.Request) (*SessionAdmin, bool) {
	a, ok := r.Context().Value(currentAdminKey).(*SessionAdmin)
	return a, ok
}

// Token returns the bearer token of the signed-in admin, or "".
func Token(r *http.Request) string {
	if a, ok := CurrentAdmin(r); ok {
		return a.Token
	}
	return ""
}

// WithTestAdmin injects an admin into the request context. Tests only.
func WithTestAdmin(r *http.Request, a *SessionAdmin) *http.Request {
	return withAdmin(r, a)
}

func withAdmin(r *http.Request, a *SessionAdmin) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentAdminKey, a))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the signed session cookie. It replaces the
// process-wide store so tests and the app can run independent instances.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
	now   func() time.Time
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure with SameSite=Lax.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if name == "" {
		return nil, fmt.Errorf("session name is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger, now: time.Now}, nil
}

// SetClock overrides the time source used for token expiry checks. Tests only.
func (sm *SessionManager) SetClock(now func() time.Time) { sm.now = now }

// session returns the request's session. A cookie that fails to decode
// (tampered, or signed with a rotated key) yields a fresh session.
func (sm *SessionManager) session(r *http.Request) *sessions.Session {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Debug("discarding undecodable session cookie", zap.Error(err))
		} else {
			sm.log.Warn("session load failed", zap.Error(err))
		}
	}
	return sess
}

// SignIn stores the credential and admin snapshot returned by the API login.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, resp models.LoginResponse) error {
	sess := sm.session(r)
	sess.Values[tokenKey] = resp.AccessToken
	sess.Values[adminIDKey] = resp.Admin.ID
	sess.Values[usernameKey] = resp.Admin.Username
	sess.Values[fullNameKey] = resp.Admin.FullName
	sess.Values[emailKey] = resp.Admin.Email
	sess.Values[roleKey] = resp.Admin.Role
	delete(sess.Values, historyKey)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SignOut discards the credential and everything else kept in the session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := sm.session(r)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// LoadSession injects the signed-in admin into the request context.
// A session whose token is missing or whose exp claim has passed is
// treated as signed out and cleared.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sm.session(r)
		token, _ := sess.Values[tokenKey].(string)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		if apiclient.TokenExpired(token, sm.now()) {
			sm.log.Info("session token expired; signing out",
				zap.String("username", getString(sess, usernameKey)))
			if err := sm.SignOut(w, r); err != nil {
				sm.log.Warn("clear expired session", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		id, _ := sess.Values[adminIDKey].(int64)
		a := &SessionAdmin{
			ID:       id,
			Username: getString(sess, usernameKey),
			FullName: getString(sess, fullNameKey),
			Email:    getString(sess, emailKey),
			Role:     getString(sess, roleKey),
			Token:    token,
		}
		next.ServeHTTP(w, withAdmin(r, a))
	})
}

// RequireSignedIn ensures there is an admin in context (set by LoadSession).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentAdmin(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// RequireRole ensures the signed-in admin has one of the allowed roles.
// Signed-out requests are sent to login; wrong roles go to /forbidden.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := CurrentAdmin(r)
			if !ok {
				redirectToLogin(w, r)
				return
			}

			if _, has := set[strings.ToLower(a.Role)]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExpireAndRedirect handles an API 401 in the middle of a request: the
// session is cleared and the browser is routed to login.
func (sm *SessionManager) ExpireAndRedirect(w http.ResponseWriter, r *http.Request) {
	if err := sm.SignOut(w, r); err != nil {
		sm.log.Warn("clear rejected session", zap.Error(err))
	}
	redirectToLogin(w, r)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Flash messages                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// Flash kinds map to toast styles.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot toast shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SetFlash queues a toast for the next page render.
func (sm *SessionManager) SetFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess := sm.session(r)
	b, _ := json.Marshal(Flash{Kind: kind, Message: msg})
	sess.Values[flashKey] = string(b)
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("save flash", zap.Error(err))
	}
}

// PopFlash returns and clears the queued toast, if any.
func (sm *SessionManager) PopFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	sess := sm.session(r)
	raw, _ := sess.Values[flashKey].(string)
	if raw == "" {
		return Flash{}, false
	}
	delete(sess.Values, flashKey)
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("clear flash", zap.Error(err))
	}
	var f Flash
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return Flash{}, false
	}
	return f, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| Broadcast history                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HistoryLimit is how many recent broadcasts the session remembers.
const HistoryLimit = 10

// HistoryEntry is one recently sent broadcast, newest first in History.
type HistoryEntry struct {
	ID       string    `json:"id"`
	Preview  string    `json:"preview"`
	Audience string    `json:"audience"`
	SentAt   time.Time `json:"sent_at"`
}

// History returns the recent broadcasts recorded in this session.
func (sm *SessionManager) History(r *http.Request) []HistoryEntry {
	raw, _ := sm.session(r).Values[historyKey].(string)
	if raw == "" {
		return nil
	}
	var out []HistoryEntry
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// AddHistory prepends e and keeps at most HistoryLimit entries.
func (sm *SessionManager) AddHistory(w http.ResponseWriter, r *http.Request, e HistoryEntry) error {
	entries := append([]HistoryEntry{e}, sm.History(r)...)
	if len(entries) > HistoryLimit {
		entries = entries[:HistoryLimit]
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode broadcast history: %w", err)
	}
	sess := sm.session(r)
	sess.Values[historyKey] = string(b)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save broadcast history: %w", err)
	}
	return nil
}

// helpers

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(r.URL.RequestURI())

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
