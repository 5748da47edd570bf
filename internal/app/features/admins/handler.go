// internal/app/features/admins/handler.go
package admins

import (
	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler serves the admin account pages. Every route is superadmin only.
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
