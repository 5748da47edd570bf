// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	adminsfeature "github.com/dalemusser/garajhub/internal/app/features/admins"
	auditlogfeature "github.com/dalemusser/garajhub/internal/app/features/auditlog"
	backupfeature "github.com/dalemusser/garajhub/internal/app/features/backup"
	broadcastfeature "github.com/dalemusser/garajhub/internal/app/features/broadcast"
	dashboardfeature "github.com/dalemusser/garajhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/garajhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/garajhub/internal/app/features/health"
	homefeature "github.com/dalemusser/garajhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/garajhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/garajhub/internal/app/features/logout"
	startupsfeature "github.com/dalemusser/garajhub/internal/app/features/startups"
	statisticsfeature "github.com/dalemusser/garajhub/internal/app/features/statistics"
	themefeature "github.com/dalemusser/garajhub/internal/app/features/theme"
	usersfeature "github.com/dalemusser/garajhub/internal/app/features/users"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/limits"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// It boots the template engine, installs request IDs, CSRF protection and
// session loading, then mounts every feature. Access control lives in each
// feature's Routes: signed-in for the read views, superadmin for admins,
// backup and the audit log.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	api := deps.API
	audit := deps.AuditLog

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestSize(limits.MaxFormSize))
	r.Use(markPlaintext(secure))
	r.Use(csrfProtect(appCfg.SessionKey, secure))
	r.Use(sessionMgr.LoadSession)

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	healthHandler := healthfeature.NewHandler(api, deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Mount("/", homefeature.Routes(homefeature.NewHandler()))

	loginHandler := loginfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	r.Mount("/theme", themefeature.Routes())

	r.Mount("/forbidden", errorsfeature.Routes(errorsHandler))

	dashboardHandler := dashboardfeature.NewHandler(api, sessionMgr, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	statsHandler := statisticsfeature.NewHandler(api, sessionMgr, errLog, logger)
	r.Mount("/statistics", statisticsfeature.Routes(statsHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	startupsHandler := startupsfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/startups", startupsfeature.Routes(startupsHandler, sessionMgr))

	adminsHandler := adminsfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/admins", adminsfeature.Routes(adminsHandler, sessionMgr))

	broadcastHandler := broadcastfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/broadcast", broadcastfeature.Routes(broadcastHandler, sessionMgr))

	backupHandler := backupfeature.NewHandler(api, sessionMgr, errLog, audit, logger)
	r.Mount("/backup", backupfeature.Routes(backupHandler, sessionMgr))

	// A nil reader renders the "not configured" page.
	var events auditlogfeature.EventReader
	if deps.AuditStore != nil {
		events = deps.AuditStore
	}
	auditHandler := auditlogfeature.NewHandler(events, sessionMgr, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}

// csrfProtect derives the CSRF key from the session key so a single secret
// is configured.
func csrfProtect(sessionKey string, secure bool) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + sessionKey))
	return csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)
}

// markPlaintext tells gorilla/csrf that requests arrive over plain HTTP
// when the app is not running with secure cookies (local development).
func markPlaintext(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secure {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	errorsfeature.RenderForbidden(w, r, "Your form expired. Reload the page and try again.", "/dashboard")
}
