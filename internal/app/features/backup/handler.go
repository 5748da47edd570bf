// internal/app/features/backup/handler.go
package backup

import (
	"regexp"
	"strings"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,
	}
}

// Routes mounts the backup pages (typically at "/backup"). Superadmin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleSuperAdmin))

		pr.Get("/", h.ServePage)
		pr.Post("/", h.HandleCreate)
		pr.Get("/download/{filename}", h.ServeDownload)
	})
	return r
}

// filenamePattern matches the names the API gives backups
// (backup_YYYYMMDD_HHMMSS.db) and nothing that could leave its directory.
var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

func validFilename(name string) bool {
	return filenamePattern.MatchString(name) && !strings.Contains(name, "..")
}

// DownloadPath is the dashboard URL that proxies a backup file.
func DownloadPath(filename string) string {
	return "/backup/download/" + filename
}
